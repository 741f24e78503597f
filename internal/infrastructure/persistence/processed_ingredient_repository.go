package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// GormProcessedIngredientRepository implements catalog.ProcessedIngredientRepository using GORM
type GormProcessedIngredientRepository struct {
	db *gorm.DB
}

// NewGormProcessedIngredientRepository creates a new GormProcessedIngredientRepository
func NewGormProcessedIngredientRepository(db *gorm.DB) *GormProcessedIngredientRepository {
	return &GormProcessedIngredientRepository{db: db}
}

// FindByCode finds a processed ingredient by its business code
func (r *GormProcessedIngredientRepository) FindByCode(ctx context.Context, code string) (*catalog.ProcessedIngredient, error) {
	var model models.ProcessedIngredientModel
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

// FindAll finds all processed ingredients
func (r *GormProcessedIngredientRepository) FindAll(ctx context.Context) ([]*catalog.ProcessedIngredient, error) {
	var rows []models.ProcessedIngredientModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ingredients := make([]*catalog.ProcessedIngredient, len(rows))
	for i := range rows {
		ingredient, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		ingredients[i] = ingredient
	}
	return ingredients, nil
}

// Save creates a processed ingredient
func (r *GormProcessedIngredientRepository) Save(ctx context.Context, ingredient *catalog.ProcessedIngredient) error {
	model, err := models.ProcessedIngredientModelFromDomain(ingredient)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing processed ingredient
func (r *GormProcessedIngredientRepository) Update(ctx context.Context, ingredient *catalog.ProcessedIngredient) error {
	model, err := models.ProcessedIngredientModelFromDomain(ingredient)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.ProcessedIngredientModel{}).
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

// Ensure GormProcessedIngredientRepository implements ProcessedIngredientRepository
var _ catalog.ProcessedIngredientRepository = (*GormProcessedIngredientRepository)(nil)
