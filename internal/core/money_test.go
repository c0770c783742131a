package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain amount", input: "100.00", want: "100.00"},
		{name: "no decimals", input: "80", want: "80.00"},
		{name: "whitespace trimmed", input: " 12.50 ", want: "12.50"},
		{name: "zero", input: "0", want: "0.00"},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-5.00", wantErr: true},
		{name: "not a number", input: "ten", wantErr: true},
		{name: "currency symbol", input: "₹100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if FormatAmount(got) != tt.want {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, FormatAmount(got), tt.want)
			}
		})
	}
}

func TestParseAmountLenient(t *testing.T) {
	if got := ParseAmountLenient("garbage"); !got.IsZero() {
		t.Errorf("ParseAmountLenient(garbage) = %v, want zero", got)
	}
	if got := ParseAmountLenient("42.10"); FormatAmount(got) != "42.10" {
		t.Errorf("ParseAmountLenient(42.10) = %v, want 42.10", got)
	}
}

func TestFormatAmount(t *testing.T) {
	d := decimal.RequireFromString("0.1").Add(decimal.RequireFromString("0.2"))
	if got := FormatAmount(d); got != "0.30" {
		t.Errorf("FormatAmount(0.1+0.2) = %s, want 0.30", got)
	}
}

func TestTransactionContribution(t *testing.T) {
	tests := []struct {
		name     string
		tx       Transaction
		wantGpay string
		wantCash string
	}{
		{
			name:     "gpay takes full total",
			tx:       Transaction{TotalAmount: "100.00", PaymentMethod: PaymentGPay},
			wantGpay: "100.00",
			wantCash: "0.00",
		},
		{
			name:     "cash takes full total",
			tx:       Transaction{TotalAmount: "55.50", PaymentMethod: PaymentCash},
			wantGpay: "0.00",
			wantCash: "55.50",
		},
		{
			name: "split attributes each leg",
			tx: Transaction{
				TotalAmount:   "50.00",
				PaymentMethod: PaymentSplit,
				SplitPayment:  &SplitPayment{GpayAmount: 30, CashAmount: 20},
			},
			wantGpay: "30.00",
			wantCash: "20.00",
		},
		{
			name:     "split without details contributes nothing",
			tx:       Transaction{TotalAmount: "50.00", PaymentMethod: PaymentSplit},
			wantGpay: "0.00",
			wantCash: "0.00",
		},
		{
			name: "creditor contributes to neither column",
			tx: Transaction{
				TotalAmount:   "200.00",
				PaymentMethod: PaymentCreditor,
				Creditor:      &Creditor{Name: "Ravi", TotalAmount: 200},
			},
			wantGpay: "0.00",
			wantCash: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gpay, cash := tt.tx.Contribution()
			if FormatAmount(gpay) != tt.wantGpay {
				t.Errorf("gpay = %s, want %s", FormatAmount(gpay), tt.wantGpay)
			}
			if FormatAmount(cash) != tt.wantCash {
				t.Errorf("cash = %s, want %s", FormatAmount(cash), tt.wantCash)
			}
		})
	}
}
