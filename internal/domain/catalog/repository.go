package catalog

import "context"

// RawIngredientRepository provides access to stored raw ingredients
type RawIngredientRepository interface {
	FindByCode(ctx context.Context, code string) (*RawIngredient, error)
	FindAll(ctx context.Context, includeDisabled bool) ([]*RawIngredient, error)
	FindByLocations(ctx context.Context, locations []Location) ([]*RawIngredient, error)
	Save(ctx context.Context, ingredient *RawIngredient) error
	Update(ctx context.Context, ingredient *RawIngredient) error
}

// ProcessedIngredientRepository provides access to stored processed ingredients
type ProcessedIngredientRepository interface {
	FindByCode(ctx context.Context, code string) (*ProcessedIngredient, error)
	FindAll(ctx context.Context) ([]*ProcessedIngredient, error)
	Save(ctx context.Context, ingredient *ProcessedIngredient) error
	Update(ctx context.Context, ingredient *ProcessedIngredient) error
}

// DrinkRepository provides access to stored drinks
type DrinkRepository interface {
	FindByCode(ctx context.Context, code string) (*Drink, error)
	FindEnabled(ctx context.Context) ([]*Drink, error)
	Save(ctx context.Context, drink *Drink) error
	Update(ctx context.Context, drink *Drink) error
}

// FixedCostRepository provides access to stored fixed costs
type FixedCostRepository interface {
	FindByCode(ctx context.Context, code string) (*FixedCost, error)
	FindAll(ctx context.Context) ([]*FixedCost, error)
	FindByLocations(ctx context.Context, locations []Location) ([]*FixedCost, error)
	Save(ctx context.Context, cost *FixedCost) error
	Update(ctx context.Context, cost *FixedCost) error
}
