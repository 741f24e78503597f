package inventory

import (
	"context"
	"time"

	"github.com/haylacafe/backend/internal/domain/catalog"
)

// EventFilter narrows ledger reads. Zero values mean "no constraint".
type EventFilter struct {
	Locations []catalog.Location
	Actor     string
	Since     time.Time
}

// Repository provides access to the append-only stock event ledger
type Repository interface {
	// Find returns ledger events matching the filter, newest first
	Find(ctx context.Context, filter EventFilter) ([]*StockEvent, error)

	// InsertBatch appends events to the ledger all-or-nothing
	InsertBatch(ctx context.Context, events []*StockEvent) error
}
