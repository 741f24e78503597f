package sales

import (
	"context"
	"time"

	"github.com/haylacafe/backend/internal/domain/catalog"
)

// UpsertResult reports how a batch upsert landed. Receipts are
// insert-if-absent on their natural key, so re-ingesting the same batch
// yields Matched == len(batch) and Upserted == 0.
type UpsertResult struct {
	Matched  int `json:"matched"`
	Upserted int `json:"upserted"`
}

// Inserted returns the total number of receipts accounted for
func (r UpsertResult) Inserted() int {
	return r.Matched + r.Upserted
}

// Repository provides access to stored receipts
type Repository interface {
	// FindByPaymentWindow returns receipts whose payment time falls inside
	// [start, end) at the given locations, newest first.
	FindByPaymentWindow(ctx context.Context, locations []catalog.Location, start, end time.Time) ([]*Receipt, error)

	// UpsertBatch inserts receipts that are absent by natural key and
	// leaves existing ones untouched.
	UpsertBatch(ctx context.Context, receipts []*Receipt) (UpsertResult, error)
}
