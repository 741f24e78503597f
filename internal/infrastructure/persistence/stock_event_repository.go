package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/domain/inventory"
	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// GormStockEventRepository implements inventory.Repository using GORM
type GormStockEventRepository struct {
	db *gorm.DB
}

// NewGormStockEventRepository creates a new GormStockEventRepository
func NewGormStockEventRepository(db *gorm.DB) *GormStockEventRepository {
	return &GormStockEventRepository{db: db}
}

// Find returns ledger events matching the filter, newest first
func (r *GormStockEventRepository) Find(ctx context.Context, filter inventory.EventFilter) ([]*inventory.StockEvent, error) {
	query := r.db.WithContext(ctx).Model(&models.StockEventModel{})
	if len(filter.Locations) > 0 {
		query = query.Where("location IN ?", filter.Locations)
	}
	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor)
	}
	if !filter.Since.IsZero() {
		query = query.Where("recorded_at >= ?", filter.Since)
	}

	var rows []models.StockEventModel
	if err := query.Order("recorded_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	events := make([]*inventory.StockEvent, len(rows))
	for i := range rows {
		events[i] = rows[i].ToDomain()
	}
	return events, nil
}

// InsertBatch appends events to the ledger all-or-nothing
func (r *GormStockEventRepository) InsertBatch(ctx context.Context, events []*inventory.StockEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]models.StockEventModel, len(events))
	for i, event := range events {
		rows[i].FromDomain(event)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
}

// Ensure GormStockEventRepository implements inventory.Repository
var _ inventory.Repository = (*GormStockEventRepository)(nil)
