package inventory

import (
	"context"
	"time"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/domain/inventory"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// staffEventWindow is how far back non-admin callers can see their own
// ledger entries.
const staffEventWindow = 7 * 24 * time.Hour

// StockEventRequest is one submitted ledger entry. The actor and the
// timestamp are stamped server-side; clients cannot backdate events.
type StockEventRequest struct {
	RawCode  string          `json:"raw_code" binding:"required"`
	Location string          `json:"location" binding:"required"`
	Kind     string          `json:"kind" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// StockEventResponse is the read model for one ledger entry
type StockEventResponse struct {
	RawCode    string          `json:"raw_code"`
	Location   string          `json:"location"`
	Actor      string          `json:"actor"`
	Kind       string          `json:"kind"`
	Quantity   decimal.Decimal `json:"quantity"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// StockService handles stock ledger submission and reporting
type StockService struct {
	stockRepo inventory.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.Repository, logger *zap.Logger) *StockService {
	return &StockService{stockRepo: stockRepo, logger: logger, now: time.Now}
}

// Submit validates a batch of ledger entries, stamps them with the
// calling actor and the server clock and appends them all-or-nothing.
func (s *StockService) Submit(ctx context.Context, actor string, requests []StockEventRequest) (int, error) {
	if len(requests) == 0 {
		return 0, shared.NewValidationError("no stock events submitted")
	}

	recordedAt := s.now()
	events := make([]*inventory.StockEvent, 0, len(requests))
	for _, req := range requests {
		event, err := inventory.NewStockEvent(req.RawCode, catalog.Location(req.Location), actor,
			inventory.EventKind(req.Kind), req.Quantity, recordedAt)
		if err != nil {
			return 0, err
		}
		events = append(events, event)
	}

	if err := s.stockRepo.InsertBatch(ctx, events); err != nil {
		return 0, err
	}
	s.logger.Info("stock events recorded",
		zap.String("actor", actor),
		zap.Int("count", len(events)))
	return len(events), nil
}

// ListEvents returns ledger entries newest first. Non-admin callers see
// only their own entries from the last seven days.
func (s *StockService) ListEvents(ctx context.Context, role costing.Role, actor string, locations []catalog.Location) ([]StockEventResponse, error) {
	filter := inventory.EventFilter{Locations: locations}
	if role != costing.RoleAdmin {
		filter.Actor = actor
		filter.Since = s.now().Add(-staffEventWindow)
	}

	events, err := s.stockRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]StockEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, StockEventResponse{
			RawCode:    e.RawCode,
			Location:   e.Location.String(),
			Actor:      e.Actor,
			Kind:       string(e.Kind),
			Quantity:   e.Quantity,
			RecordedAt: e.RecordedAt,
		})
	}
	return out, nil
}

// Remainders reports per-ingredient remaining stock, ascending by what is
// left so the shelf about to run dry lands on top.
func (s *StockService) Remainders(ctx context.Context, locations []catalog.Location) ([]inventory.RemainderRow, error) {
	events, err := s.stockRepo.Find(ctx, inventory.EventFilter{Locations: locations})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, shared.ErrEmptyResult
	}
	return inventory.Remainders(events), nil
}

// Reconcile checks the ledger between the two most recent physical-count
// days. Counting stock needs cost visibility on losses, so the report is
// admin only.
func (s *StockService) Reconcile(ctx context.Context, role costing.Role, locations []catalog.Location) (*inventory.ReconciliationReport, error) {
	if role != costing.RoleAdmin {
		return nil, shared.ErrForbidden
	}

	events, err := s.stockRepo.Find(ctx, inventory.EventFilter{Locations: locations})
	if err != nil {
		return nil, err
	}
	return inventory.Reconcile(events)
}
