package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/sales"
)

// ReceiptModel is the persistence model for the Receipt domain entity.
// The composite unique index on (location, order_day, order_code) is the
// natural key ingestion upserts against.
type ReceiptModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Location      catalog.Location    `gorm:"type:varchar(10);not null;uniqueIndex:idx_receipt_natural_key,priority:1"`
	OrderDay      string              `gorm:"type:varchar(10);not null;uniqueIndex:idx_receipt_natural_key,priority:2"`
	OrderCode     string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_receipt_natural_key,priority:3"`
	PaymentTime   time.Time           `gorm:"not null;index"`
	PaymentMethod sales.PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt     time.Time           `gorm:"not null"`
	Items         []ReceiptItemModel  `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ReceiptItemModel is the persistence model for one sold line on a receipt.
type ReceiptItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceiptID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(20);not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Size        catalog.Size    `gorm:"type:varchar(5);not null"`
	Topping     string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ReceiptItemModel) TableName() string {
	return "receipt_items"
}

// ToDomain converts the persistence model to a domain Receipt entity.
func (m *ReceiptModel) ToDomain() *sales.Receipt {
	items := make([]sales.ReceiptItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = sales.ReceiptItem{
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Topping:     item.Topping,
		}
	}

	return &sales.Receipt{
		ID:            m.ID,
		Location:      m.Location,
		OrderDay:      m.OrderDay,
		OrderCode:     m.OrderCode,
		PaymentTime:   m.PaymentTime,
		PaymentMethod: m.PaymentMethod,
		Amount:        m.Amount,
		Items:         items,
		CreatedAt:     m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Receipt entity.
func (m *ReceiptModel) FromDomain(r *sales.Receipt) {
	m.ID = r.ID
	m.Location = r.Location
	m.OrderDay = r.OrderDay
	m.OrderCode = r.OrderCode
	m.PaymentTime = r.PaymentTime
	m.PaymentMethod = r.PaymentMethod
	m.Amount = r.Amount
	m.CreatedAt = r.CreatedAt

	m.Items = make([]ReceiptItemModel, len(r.Items))
	for i, item := range r.Items {
		m.Items[i] = ReceiptItemModel{
			ID:          uuid.New(),
			ReceiptID:   r.ID,
			ProductCode: item.ProductCode,
			Quantity:    item.Quantity,
			Size:        item.Size,
			Topping:     item.Topping,
		}
	}
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt entity.
func ReceiptModelFromDomain(r *sales.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(r)
	return m
}
