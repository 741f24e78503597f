package catalog

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var rawCodePattern = regexp.MustCompile(`^RIG\d+$`)

// RawIngredient is a purchased ingredient. Its unit cost is derived from the
// purchase price and purchase quantity and stored unrounded.
type RawIngredient struct {
	ID        uuid.UUID
	Code      string // stable business key, RIG###
	Name      string
	Group     string
	Locations []Location
	Cost      decimal.Decimal // purchase cost for one purchase quantity
	Quantity  decimal.Decimal // purchase quantity, > 0
	Unit      string
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// CostPerUnit = Cost / Quantity. Populated by NewRawIngredient and by
	// the cost resolver; zeroed for callers without cost visibility.
	CostPerUnit decimal.Decimal
}

// NewRawIngredient creates a raw ingredient and derives its unit cost
func NewRawIngredient(code, name, group string, locations []Location, cost, quantity decimal.Decimal, unit string) (*RawIngredient, error) {
	if !rawCodePattern.MatchString(code) {
		return nil, shared.NewValidationError("invalid raw ingredient code %q", code)
	}
	if name == "" {
		return nil, shared.NewValidationError("raw ingredient name cannot be empty")
	}
	if len(locations) == 0 {
		return nil, shared.NewValidationError("raw ingredient %s needs at least one location", code)
	}
	for _, loc := range locations {
		if !loc.IsValid() {
			return nil, shared.NewValidationError("unknown location %q on raw ingredient %s", loc, code)
		}
	}
	if cost.IsNegative() {
		return nil, shared.NewValidationError("raw ingredient %s cost cannot be negative", code)
	}
	if !quantity.IsPositive() {
		// A zero purchase quantity would make the unit cost divide by zero.
		return nil, shared.NewComputationGuardError("raw ingredient %s quantity must be positive", code)
	}

	now := time.Now()
	return &RawIngredient{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Group:       group,
		Locations:   locations,
		Cost:        cost,
		Quantity:    quantity,
		Unit:        unit,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
		CostPerUnit: cost.Div(quantity),
	}, nil
}

// SoldAt reports whether the ingredient is stocked at the given location
func (r *RawIngredient) SoldAt(loc Location) bool {
	for _, l := range r.Locations {
		if l == loc {
			return true
		}
	}
	return false
}

// Disable marks the ingredient as retired without deleting it
func (r *RawIngredient) Disable() {
	r.Enabled = false
	r.UpdatedAt = time.Now()
}
