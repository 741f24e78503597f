package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// GormDrinkRepository implements catalog.DrinkRepository using GORM
type GormDrinkRepository struct {
	db *gorm.DB
}

// NewGormDrinkRepository creates a new GormDrinkRepository
func NewGormDrinkRepository(db *gorm.DB) *GormDrinkRepository {
	return &GormDrinkRepository{db: db}
}

// FindByCode finds a drink by its business code
func (r *GormDrinkRepository) FindByCode(ctx context.Context, code string) (*catalog.Drink, error) {
	var model models.DrinkModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindEnabled finds all enabled drinks
func (r *GormDrinkRepository) FindEnabled(ctx context.Context) ([]*catalog.Drink, error) {
	var rows []models.DrinkModel
	if err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	drinks := make([]*catalog.Drink, len(rows))
	for i := range rows {
		drink, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		drinks[i] = drink
	}
	return drinks, nil
}

// Save creates a drink
func (r *GormDrinkRepository) Save(ctx context.Context, drink *catalog.Drink) error {
	model, err := models.DrinkModelFromDomain(drink)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing drink
func (r *GormDrinkRepository) Update(ctx context.Context, drink *catalog.Drink) error {
	model, err := models.DrinkModelFromDomain(drink)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.DrinkModel{}).
		Where("id = ?", model.ID).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormDrinkRepository implements DrinkRepository
var _ catalog.DrinkRepository = (*GormDrinkRepository)(nil)
