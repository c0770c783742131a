package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentGPay     PaymentMethod = "gpay"
	PaymentSplit    PaymentMethod = "split"
	PaymentCreditor PaymentMethod = "creditor"
)

// DefaultBillerName is applied when a transaction arrives without one.
const DefaultBillerName = "Sriram"

type (
	PaymentMethod string

	// TransactionItem is one menu line on a bill. Price is the unit price.
	TransactionItem struct {
		ID       string  `json:"id" bson:"id"`
		Name     string  `json:"name" bson:"name"`
		Price    float64 `json:"price" bson:"price"`
		Quantity int     `json:"quantity" bson:"quantity"`
	}

	// SplitPayment carries the per-method breakdown of a split bill.
	SplitPayment struct {
		GpayAmount float64 `json:"gpayAmount" bson:"gpayAmount"`
		CashAmount float64 `json:"cashAmount" bson:"cashAmount"`
	}

	// Creditor records a sale made on credit, partially or fully unpaid.
	Creditor struct {
		Name          string  `json:"name" bson:"name"`
		PaidAmount    float64 `json:"paidAmount" bson:"paidAmount"`
		BalanceAmount float64 `json:"balanceAmount" bson:"balanceAmount"`
		TotalAmount   float64 `json:"totalAmount" bson:"totalAmount"`
	}

	// Extra is an ad-hoc line item added outside the menu.
	Extra struct {
		Name   string  `json:"name" bson:"name"`
		Amount float64 `json:"amount" bson:"amount"`
	}

	// Transaction is an immutable record of one sale. Date (YYYY-MM-DD) is the
	// partition key for all aggregation; CreatedAt is only used for ordering.
	Transaction struct {
		ID            string            `json:"id" bson:"id"`
		Items         []TransactionItem `json:"items" bson:"items"`
		TotalAmount   string            `json:"totalAmount" bson:"totalAmount"`
		PaymentMethod PaymentMethod     `json:"paymentMethod" bson:"paymentMethod"`
		BillerName    string            `json:"billerName" bson:"billerName"`
		SplitPayment  *SplitPayment     `json:"splitPayment,omitempty" bson:"splitPayment,omitempty"`
		Creditor      *Creditor         `json:"creditor,omitempty" bson:"creditor,omitempty"`
		Extras        []Extra           `json:"extras,omitempty" bson:"extras,omitempty"`
		Date          string            `json:"date" bson:"date"`
		DayName       string            `json:"dayName" bson:"dayName"`
		Time          string            `json:"time" bson:"time"`
		CreatedAt     time.Time         `json:"createdAt" bson:"createdAt"`
	}

	// DailySummary is the running aggregate for one calendar date.
	DailySummary struct {
		ID          string    `json:"id" bson:"id"`
		Date        string    `json:"date" bson:"date"`
		TotalAmount string    `json:"totalAmount" bson:"totalAmount"`
		GpayAmount  string    `json:"gpayAmount" bson:"gpayAmount"`
		CashAmount  string    `json:"cashAmount" bson:"cashAmount"`
		OrderCount  int       `json:"orderCount" bson:"orderCount"`
		CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	}

	// WeeklySummary covers [WeekStart, WeekEnd] inclusive, Monday to Sunday.
	WeeklySummary struct {
		ID          string    `json:"id" bson:"id"`
		WeekStart   string    `json:"weekStart" bson:"weekStart"`
		WeekEnd     string    `json:"weekEnd" bson:"weekEnd"`
		TotalAmount string    `json:"totalAmount" bson:"totalAmount"`
		GpayAmount  string    `json:"gpayAmount" bson:"gpayAmount"`
		CashAmount  string    `json:"cashAmount" bson:"cashAmount"`
		OrderCount  int       `json:"orderCount" bson:"orderCount"`
		CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	}

	// MonthlySummary covers all dates sharing the YYYY-MM prefix.
	MonthlySummary struct {
		ID          string    `json:"id" bson:"id"`
		Month       string    `json:"month" bson:"month"`
		TotalAmount string    `json:"totalAmount" bson:"totalAmount"`
		GpayAmount  string    `json:"gpayAmount" bson:"gpayAmount"`
		CashAmount  string    `json:"cashAmount" bson:"cashAmount"`
		OrderCount  int       `json:"orderCount" bson:"orderCount"`
		CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	}

	// MenuItem is a sellable product. Price is a fixed 2-decimal string.
	MenuItem struct {
		ID          string `json:"id" bson:"id"`
		Name        string `json:"name" bson:"name"`
		Description string `json:"description" bson:"description"`
		Price       string `json:"price" bson:"price"`
		Category    string `json:"category" bson:"category"`
		Image       string `json:"image" bson:"image"`
		Available   bool   `json:"available" bson:"available"`
	}

	// MenuItemUpdate is a partial update; nil fields are left untouched.
	MenuItemUpdate struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *string `json:"price"`
		Category    *string `json:"category"`
		Image       *string `json:"image"`
		Available   *bool   `json:"available"`
	}

	User struct {
		ID       string `json:"id" bson:"id"`
		Username string `json:"username" bson:"username"`
		Password string `json:"password" bson:"password"`
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNoItems              = errors.New("transaction has no items")
	ErrInvalidQuantity      = errors.New("item quantity must be at least 1")
	ErrMissingSplit         = errors.New("split payment details required for split transactions")
	ErrMissingCreditor      = errors.New("creditor details required for creditor transactions")
)

// IsValid reports whether pm is one of the accepted payment methods.
func (pm PaymentMethod) IsValid() bool {
	switch pm {
	case PaymentCash, PaymentGPay, PaymentSplit, PaymentCreditor:
		return true
	default:
		return false
	}
}

// Validate checks the invariants a transaction must hold before it is
// persisted. Arithmetic consistency between Items/Extras and TotalAmount is
// deliberately not checked; the client-computed total is trusted.
func (t Transaction) Validate() error {
	if _, err := ParseDate(t.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := ParseAmount(t.TotalAmount); err != nil {
		return ErrInvalidAmount
	}
	if !t.PaymentMethod.IsValid() {
		return ErrInvalidPaymentMethod
	}
	if len(t.Items) == 0 {
		return ErrNoItems
	}
	for _, it := range t.Items {
		if it.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	if t.PaymentMethod == PaymentSplit && t.SplitPayment == nil {
		return ErrMissingSplit
	}
	if t.PaymentMethod == PaymentCreditor {
		if t.Creditor == nil || strings.TrimSpace(t.Creditor.Name) == "" {
			return ErrMissingCreditor
		}
	}
	return nil
}
