package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/sales"
	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// GormReceiptRepository implements sales.Repository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// FindByPaymentWindow returns receipts whose payment time falls inside
// [start, end) at the given locations, newest first.
func (r *GormReceiptRepository) FindByPaymentWindow(ctx context.Context, locations []catalog.Location, start, end time.Time) ([]*sales.Receipt, error) {
	if len(locations) == 0 {
		return []*sales.Receipt{}, nil
	}

	var rows []models.ReceiptModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("location IN ? AND payment_time >= ? AND payment_time < ?", locations, start, end).
		Order("payment_time DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	receipts := make([]*sales.Receipt, len(rows))
	for i := range rows {
		receipts[i] = rows[i].ToDomain()
	}
	return receipts, nil
}

// UpsertBatch inserts receipts that are absent by natural key and leaves
// existing ones untouched. The whole batch lands in one transaction so a
// failed upload never half-imports.
func (r *GormReceiptRepository) UpsertBatch(ctx context.Context, receipts []*sales.Receipt) (sales.UpsertResult, error) {
	var result sales.UpsertResult
	if len(receipts) == 0 {
		return result, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, receipt := range receipts {
			var count int64
			if err := tx.Model(&models.ReceiptModel{}).
				Where("location = ? AND order_day = ? AND order_code = ?",
					receipt.Location, receipt.OrderDay, receipt.OrderCode).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				result.Matched++
				continue
			}

			if err := tx.Create(models.ReceiptModelFromDomain(receipt)).Error; err != nil {
				return err
			}
			result.Upserted++
		}
		return nil
	})
	if err != nil {
		return sales.UpsertResult{}, err
	}
	return result, nil
}

// Ensure GormReceiptRepository implements sales.Repository
var _ sales.Repository = (*GormReceiptRepository)(nil)
