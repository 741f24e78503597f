package sales

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set of normalized payment methods. Upload
// rows carry free-text variants; ingestion maps them onto this enum.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "Cash"
	PaymentMethodTransfer PaymentMethod = "Transfer"
)

// IsValid checks if the payment method is part of the closed set
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer:
		return true
	}
	return false
}

var productCodePattern = regexp.MustCompile(`^DRK\d+$`)

// ReceiptItem is one sold line on a point-of-sale receipt
type ReceiptItem struct {
	ProductCode string // DRK###
	Quantity    decimal.Decimal
	Size        catalog.Size
	Topping     string // optional free-text note
}

// Receipt is one point-of-sale order. Its natural key is
// (Location, OrderDay, OrderCode); once stored it is immutable and only
// ever re-decomposed on read.
type Receipt struct {
	ID            uuid.UUID
	Location      catalog.Location
	OrderDay      string // order day as printed on the receipt, YYYY-MM-DD
	OrderCode     string
	PaymentTime   time.Time
	PaymentMethod PaymentMethod
	Amount        decimal.Decimal
	Items         []ReceiptItem
	CreatedAt     time.Time
}

// NewReceipt creates a receipt and validates its line items
func NewReceipt(loc catalog.Location, orderDay, orderCode string, paymentTime time.Time, method PaymentMethod, amount decimal.Decimal, items []ReceiptItem) (*Receipt, error) {
	if !loc.IsValid() {
		return nil, shared.NewValidationError("unknown location %q on receipt %s/%s", loc, orderDay, orderCode)
	}
	if orderDay == "" || orderCode == "" {
		return nil, shared.NewValidationError("receipt needs both order day and order code")
	}
	if paymentTime.IsZero() {
		return nil, shared.NewValidationError("receipt %s/%s has no payment time", orderDay, orderCode)
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError("unknown payment method %q on receipt %s/%s", method, orderDay, orderCode)
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("receipt %s/%s has no line items", orderDay, orderCode)
	}
	for _, item := range items {
		if !productCodePattern.MatchString(item.ProductCode) {
			return nil, shared.NewValidationError("invalid product code %q on receipt %s/%s", item.ProductCode, orderDay, orderCode)
		}
		if !item.Quantity.IsPositive() {
			return nil, shared.NewValidationError("non-positive quantity for %s on receipt %s/%s", item.ProductCode, orderDay, orderCode)
		}
		if !item.Size.IsValid() {
			return nil, shared.NewValidationError("unknown size %q for %s on receipt %s/%s", item.Size, item.ProductCode, orderDay, orderCode)
		}
	}

	return &Receipt{
		ID:            uuid.New(),
		Location:      loc,
		OrderDay:      orderDay,
		OrderCode:     orderCode,
		PaymentTime:   paymentTime,
		PaymentMethod: method,
		Amount:        amount,
		Items:         items,
		CreatedAt:     time.Now(),
	}, nil
}

// NaturalKey returns the deduplication key receipts are upserted by
func (r *Receipt) NaturalKey() string {
	return fmt.Sprintf("%s/%s/%s", r.Location, r.OrderDay, r.OrderCode)
}
