// Package core holds the POS domain model: transactions, period summaries,
// amount arithmetic and week-boundary date math.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal amount string such as "100.00". It rejects
// empty strings, negative values and anything that is not a plain decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseAmountLenient parses an amount for recomputation. A missing or
// malformed value counts as zero so one bad row cannot poison an aggregate.
func ParseAmountLenient(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Contribution returns how much this transaction adds to the gpay and cash
// columns of a summary. Creditor sales contribute to neither; the outstanding
// credit is tracked by the creditor read-model instead.
func (t Transaction) Contribution() (gpay, cash decimal.Decimal) {
	switch t.PaymentMethod {
	case PaymentGPay:
		return ParseAmountLenient(t.TotalAmount), decimal.Zero
	case PaymentCash:
		return decimal.Zero, ParseAmountLenient(t.TotalAmount)
	case PaymentSplit:
		if t.SplitPayment == nil {
			return decimal.Zero, decimal.Zero
		}
		return decimal.NewFromFloat(t.SplitPayment.GpayAmount),
			decimal.NewFromFloat(t.SplitPayment.CashAmount)
	default:
		return decimal.Zero, decimal.Zero
	}
}
