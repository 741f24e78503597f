package costing

import (
	"context"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Legacy drink codes whose packaging at non-primary locations costs more
// (sold in the oversized takeaway cup). Amounts are currency minor units.
var legacyHighExtraDrinks = map[string]struct{}{
	"DRK31": {},
	"DRK32": {},
}

var (
	extraCostNonPrimary       = decimal.NewFromInt(2000)
	extraCostNonPrimaryLegacy = decimal.NewFromInt(4000)

	weightOne        = decimal.NewFromInt(1)
	weightOneAndHalf = decimal.RequireFromString("1.5")
	weightLarge      = decimal.RequireFromString("2.25")
)

// SizeWeights maps each size tier to its usage multiplier relative to the
// reference size. Tables are fixed-size and validated at construction; they
// are monotonic non-decreasing S -> M -> L.
type SizeWeights struct {
	S decimal.Decimal
	M decimal.Decimal
	L decimal.Decimal
}

// For returns the weight for the given size
func (w SizeWeights) For(s catalog.Size) decimal.Decimal {
	switch s {
	case catalog.SizeS:
		return w.S
	case catalog.SizeM:
		return w.M
	case catalog.SizeL:
		return w.L
	}
	return decimal.Zero
}

// primaryWeights is the fixed single-size table for the primary market
func primaryWeights() SizeWeights {
	return SizeWeights{S: decimal.Zero, M: weightOne, L: decimal.Zero}
}

// deriveWeights derives the non-primary weighting table from which size
// price tiers are populated.
func deriveWeights(prices catalog.SizePrices) SizeWeights {
	switch {
	case prices.S.IsPositive():
		return SizeWeights{S: weightOne, M: weightOneAndHalf, L: weightLarge}
	case prices.M.IsPositive():
		return SizeWeights{S: decimal.Zero, M: weightOne, L: weightOneAndHalf}
	}
	// No priced tier: the drink is listed but not sold at this location.
	return SizeWeights{S: decimal.Zero, M: decimal.Zero, L: decimal.Zero}
}

// LocationCosting is the per-location costing surface of a compiled drink
type LocationCosting struct {
	Weights   SizeWeights
	ExtraCost decimal.Decimal
	Prices    catalog.SizePrices
}

// CompiledLine is one resolved recipe line of a compiled drink
type CompiledLine struct {
	Ingredient catalog.Ingredient
	Quantity   decimal.Decimal
	TotalCost  decimal.Decimal // Quantity * Ingredient.CostPerUnit()
}

// CompiledDrink carries everything needed to cost one sold unit of the
// drink at any location and size: the resolved recipe, the per-location
// weighting and extra-cost tables, and the total base cost at the
// reference size.
type CompiledDrink struct {
	Code      string
	Name      string
	Group     string
	Locations []catalog.Location
	BaseCost  decimal.Decimal
	Lines     []CompiledLine
	ByLoc     map[catalog.Location]LocationCosting
}

// PriceAt returns the catalog price at the given location and size
func (d *CompiledDrink) PriceAt(loc catalog.Location, size catalog.Size) decimal.Decimal {
	return d.ByLoc[loc].Prices.For(size)
}

// WeightAt returns the size weight at the given location, with ok
// reporting whether the drink is sold there at all.
func (d *CompiledDrink) WeightAt(loc catalog.Location, size catalog.Size) (decimal.Decimal, bool) {
	lc, ok := d.ByLoc[loc]
	if !ok {
		return decimal.Zero, false
	}
	return lc.Weights.For(size), true
}

// EffectiveCost returns baseCost * weight[loc][size] + extraCost[loc]
func (d *CompiledDrink) EffectiveCost(loc catalog.Location, size catalog.Size) decimal.Decimal {
	lc, ok := d.ByLoc[loc]
	if !ok {
		return decimal.Zero
	}
	return d.BaseCost.Mul(lc.Weights.For(size)).Add(lc.ExtraCost)
}

// Compile resolves every recipe line of the drink and builds its costing
// tables. A missing ingredient reference fails this drink only; batch
// callers keep compiling the rest.
func Compile(ctx context.Context, drink *catalog.Drink, resolver *Resolver) (*CompiledDrink, error) {
	if drink == nil {
		return nil, shared.NewValidationError("cannot compile nil drink")
	}

	compiled := &CompiledDrink{
		Code:      drink.Code,
		Name:      drink.Name,
		Group:     drink.Group,
		Locations: drink.Locations,
		BaseCost:  decimal.Zero,
		Lines:     make([]CompiledLine, 0, len(drink.Recipe)),
		ByLoc:     make(map[catalog.Location]LocationCosting, len(drink.Locations)),
	}

	for _, line := range drink.Recipe {
		ingredient, err := resolver.Resolve(ctx, line.IngredientCode)
		if err != nil {
			return nil, err
		}
		total := line.Quantity.Mul(ingredient.CostPerUnit())
		compiled.Lines = append(compiled.Lines, CompiledLine{
			Ingredient: ingredient,
			Quantity:   line.Quantity,
			TotalCost:  total,
		})
		compiled.BaseCost = compiled.BaseCost.Add(total)
	}

	for _, loc := range drink.Locations {
		prices := drink.Prices[loc]

		if loc.IsPrimary() {
			compiled.ByLoc[loc] = LocationCosting{
				Weights:   primaryWeights(),
				ExtraCost: decimal.Zero,
				Prices:    prices,
			}
			continue
		}

		extra := extraCostNonPrimary
		if _, legacy := legacyHighExtraDrinks[drink.Code]; legacy {
			extra = extraCostNonPrimaryLegacy
		}
		compiled.ByLoc[loc] = LocationCosting{
			Weights:   deriveWeights(prices),
			ExtraCost: extra,
			Prices:    prices,
		}
	}

	return compiled, nil
}

// CompiledCatalog is the compiled drink set keyed by drink code
type CompiledCatalog map[string]*CompiledDrink

// Lookup returns the compiled drink for a receipt line's product code
func (c CompiledCatalog) Lookup(code string) (*CompiledDrink, error) {
	drink, ok := c[code]
	if !ok {
		return nil, shared.NewReferenceError("unknown drink code %s", code)
	}
	return drink, nil
}
