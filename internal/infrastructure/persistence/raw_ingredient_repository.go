package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// GormRawIngredientRepository implements catalog.RawIngredientRepository using GORM
type GormRawIngredientRepository struct {
	db *gorm.DB
}

// NewGormRawIngredientRepository creates a new GormRawIngredientRepository
func NewGormRawIngredientRepository(db *gorm.DB) *GormRawIngredientRepository {
	return &GormRawIngredientRepository{db: db}
}

// FindByCode finds a raw ingredient by its business code
func (r *GormRawIngredientRepository) FindByCode(ctx context.Context, code string) (*catalog.RawIngredient, error) {
	var model models.RawIngredientModel
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

// FindAll finds all raw ingredients, optionally including disabled ones
func (r *GormRawIngredientRepository) FindAll(ctx context.Context, includeDisabled bool) ([]*catalog.RawIngredient, error) {
	query := r.db.WithContext(ctx).Model(&models.RawIngredientModel{}).Order("code ASC")
	if !includeDisabled {
		query = query.Where("enabled = ?", true)
	}

	var rows []models.RawIngredientModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rawModelsToDomain(rows)
}

// FindByLocations finds enabled raw ingredients stocked at any of the given
// locations. The location set lives in a jsonb column; with a two-location
// business the catalog stays small, so membership is checked in memory
// instead of with dialect-specific jsonb operators.
func (r *GormRawIngredientRepository) FindByLocations(ctx context.Context, locations []catalog.Location) ([]*catalog.RawIngredient, error) {
	if len(locations) == 0 {
		return []*catalog.RawIngredient{}, nil
	}

	all, err := r.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}

	matched := make([]*catalog.RawIngredient, 0, len(all))
	for _, ingredient := range all {
		for _, loc := range locations {
			if ingredient.SoldAt(loc) {
				matched = append(matched, ingredient)
				break
			}
		}
	}
	return matched, nil
}

// Save creates a raw ingredient
func (r *GormRawIngredientRepository) Save(ctx context.Context, ingredient *catalog.RawIngredient) error {
	model, err := models.RawIngredientModelFromDomain(ingredient)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing raw ingredient
func (r *GormRawIngredientRepository) Update(ctx context.Context, ingredient *catalog.RawIngredient) error {
	model, err := models.RawIngredientModelFromDomain(ingredient)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&models.RawIngredientModel{}).
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

func rawModelsToDomain(rows []models.RawIngredientModel) ([]*catalog.RawIngredient, error) {
	ingredients := make([]*catalog.RawIngredient, len(rows))
	for i := range rows {
		ingredient, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		ingredients[i] = ingredient
	}
	return ingredients, nil
}

// Ensure GormRawIngredientRepository implements RawIngredientRepository
var _ catalog.RawIngredientRepository = (*GormRawIngredientRepository)(nil)
