package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/inventory"
)

// StockEventModel is the persistence model for one append-only stock
// ledger entry. Rows are never updated or deleted.
type StockEventModel struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	RawCode    string              `gorm:"type:varchar(20);not null;index"`
	Location   catalog.Location    `gorm:"type:varchar(10);not null;index"`
	Actor      string              `gorm:"type:varchar(100);not null;index"`
	RecordedAt time.Time           `gorm:"not null;index"`
	Kind       inventory.EventKind `gorm:"type:varchar(20);not null"`
	Quantity   decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StockEventModel) TableName() string {
	return "stock_events"
}

// ToDomain converts the persistence model to a domain StockEvent entity.
func (m *StockEventModel) ToDomain() *inventory.StockEvent {
	return &inventory.StockEvent{
		ID:         m.ID,
		RawCode:    m.RawCode,
		Location:   m.Location,
		Actor:      m.Actor,
		RecordedAt: m.RecordedAt,
		Kind:       m.Kind,
		Quantity:   m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain StockEvent entity.
func (m *StockEventModel) FromDomain(e *inventory.StockEvent) {
	m.ID = e.ID
	m.RawCode = e.RawCode
	m.Location = e.Location
	m.Actor = e.Actor
	m.RecordedAt = e.RecordedAt
	m.Kind = e.Kind
	m.Quantity = e.Quantity
}

// StockEventModelFromDomain creates a new persistence model from a domain StockEvent entity.
func StockEventModelFromDomain(e *inventory.StockEvent) *StockEventModel {
	m := &StockEventModel{}
	m.FromDomain(e)
	return m
}
