package catalog

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var drinkCodePattern = regexp.MustCompile(`^DRK\d+$`)

// SizePrices holds the price of one drink per size at one location. A zero
// tier means the size is not sold there; which tiers are populated drives
// the weighting derivation during compilation.
type SizePrices struct {
	S decimal.Decimal
	M decimal.Decimal
	L decimal.Decimal
}

// For returns the price for the given size
func (p SizePrices) For(s Size) decimal.Decimal {
	switch s {
	case SizeS:
		return p.S
	case SizeM:
		return p.M
	case SizeL:
		return p.L
	}
	return decimal.Zero
}

// RecipeLine references an ingredient (raw or processed) and the quantity
// used at the reference size.
type RecipeLine struct {
	IngredientCode string // RIG### or PIG###
	Quantity       decimal.Decimal
}

// Drink is a sellable recipe: ingredient lines at the reference size plus
// per-location per-size prices.
type Drink struct {
	ID        uuid.UUID
	Code      string // stable business key, DRK###
	Name      string
	Group     string
	Locations []Location
	Recipe    []RecipeLine
	Prices    map[Location]SizePrices
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDrink creates a drink and validates its recipe and price tables against
// the closed location set.
func NewDrink(code, name, group string, locations []Location, recipe []RecipeLine, prices map[Location]SizePrices) (*Drink, error) {
	if !drinkCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("invalid drink code %q", code)
	}
	if name == "" {
		return nil, shared.NewValidationError("drink name cannot be empty")
	}
	if len(locations) == 0 {
		return nil, shared.NewValidationError("drink %s needs at least one location", code)
	}
	for _, loc := range locations {
		if !loc.IsValid() {
			return nil, shared.NewValidationError("unknown location %q on drink %s", loc, code)
		}
	}
	if len(recipe) == 0 {
		return nil, shared.NewValidationError("drink %s needs at least one recipe line", code)
	}
	for _, line := range recipe {
		if _, err := KindOfCode(line.IngredientCode); err != nil {
			return nil, err
		}
		if !line.Quantity.IsPositive() {
			return nil, shared.NewValidationError("drink %s line %s quantity must be positive", code, line.IngredientCode)
		}
	}
	for loc := range prices {
		if !loc.IsValid() {
			return nil, shared.NewValidationError("price table on drink %s keyed by unknown location %q", code, loc)
		}
	}
	for _, loc := range locations {
		if _, ok := prices[loc]; !ok {
			return nil, shared.NewValidationError("drink %s has no price table for location %s", code, loc)
		}
	}

	now := time.Now()
	return &Drink{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Group:     group,
		Locations: locations,
		Recipe:    recipe,
		Prices:    prices,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SoldAt reports whether the drink is sold at the given location
func (d *Drink) SoldAt(loc Location) bool {
	for _, l := range d.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// PriceAt returns the price for the given location and size, zero when the
// drink is not sold there.
func (d *Drink) PriceAt(loc Location, size Size) decimal.Decimal {
	return d.Prices[loc].For(size)
}

// Disable marks the drink as retired without deleting it
func (d *Drink) Disable() {
	d.Enabled = false
	d.UpdatedAt = time.Now()
}
