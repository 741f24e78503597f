package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EventKind classifies a stock ledger event
type EventKind string

const (
	EventKindAdd     EventKind = "add"
	EventKindConsume EventKind = "consume"
	EventKindCount   EventKind = "physical-count"
)

// IsValid checks if the event kind is valid
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindAdd, EventKindConsume, EventKindCount:
		return true
	}
	return false
}

// StockEvent is one entry in the append-only stock ledger. Events are never
// mutated; reconciliation is a pure reduction over them. Actor and
// RecordedAt are stamped server-side on submission.
type StockEvent struct {
	ID         uuid.UUID
	RawCode    string // RIG###
	Location   catalog.Location
	Actor      string
	RecordedAt time.Time
	Kind       EventKind
	Quantity   decimal.Decimal
}

// NewStockEvent creates a ledger event stamped with actor and time
func NewStockEvent(rawCode string, loc catalog.Location, actor string, kind EventKind, quantity decimal.Decimal, recordedAt time.Time) (*StockEvent, error) {
	if rawCode == "" {
		return nil, shared.NewValidationError("stock event needs a raw ingredient code")
	}
	if !loc.IsValid() {
		return nil, shared.NewValidationError("unknown location %q on stock event for %s", loc, rawCode)
	}
	if actor == "" {
		return nil, shared.NewValidationError("stock event for %s needs an actor", rawCode)
	}
	if !kind.IsValid() {
		return nil, shared.NewValidationError("unknown stock event kind %q for %s", kind, rawCode)
	}
	if quantity.IsNegative() {
		return nil, shared.NewValidationError("stock event for %s quantity cannot be negative", rawCode)
	}

	return &StockEvent{
		ID:         uuid.New(),
		RawCode:    rawCode,
		Location:   loc,
		Actor:      actor,
		RecordedAt: recordedAt,
		Kind:       kind,
		Quantity:   quantity,
	}, nil
}
