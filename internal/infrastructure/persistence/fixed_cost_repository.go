package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// GormFixedCostRepository implements catalog.FixedCostRepository using GORM
type GormFixedCostRepository struct {
	db *gorm.DB
}

// NewGormFixedCostRepository creates a new GormFixedCostRepository
func NewGormFixedCostRepository(db *gorm.DB) *GormFixedCostRepository {
	return &GormFixedCostRepository{db: db}
}

// FindByCode finds a fixed cost entry by its code
func (r *GormFixedCostRepository) FindByCode(ctx context.Context, code string) (*catalog.FixedCost, error) {
	var row models.FixedCostModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}

// FindAll finds all fixed cost entries
func (r *GormFixedCostRepository) FindAll(ctx context.Context) ([]*catalog.FixedCost, error) {
	var rows []models.FixedCostModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fixedCostModelsToDomain(rows), nil
}

// FindByLocations finds fixed cost entries attributed to any of the given locations
func (r *GormFixedCostRepository) FindByLocations(ctx context.Context, locations []catalog.Location) ([]*catalog.FixedCost, error) {
	if len(locations) == 0 {
		return []*catalog.FixedCost{}, nil
	}

	var rows []models.FixedCostModel
	if err := r.db.WithContext(ctx).
		Where("location IN ?", locations).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return fixedCostModelsToDomain(rows), nil
}

// Save creates a fixed cost entry
func (r *GormFixedCostRepository) Save(ctx context.Context, cost *catalog.FixedCost) error {
	return r.db.WithContext(ctx).Create(models.FixedCostModelFromDomain(cost)).Error
}

// Update persists changes to an existing fixed cost entry
func (r *GormFixedCostRepository) Update(ctx context.Context, cost *catalog.FixedCost) error {
	result := r.db.WithContext(ctx).
		Model(&models.FixedCostModel{}).
		Where("id = ?", cost.ID).
		Select("*").Omit("id", "created_at").
		Updates(models.FixedCostModelFromDomain(cost))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func fixedCostModelsToDomain(rows []models.FixedCostModel) []*catalog.FixedCost {
	costs := make([]*catalog.FixedCost, len(rows))
	for i := range rows {
		costs[i] = rows[i].ToDomain()
	}
	return costs
}

// Ensure GormFixedCostRepository implements FixedCostRepository
var _ catalog.FixedCostRepository = (*GormFixedCostRepository)(nil)
