package costing

import (
	"context"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CatalogSource supplies unresolved catalog rows to the resolver. It is the
// read side of the catalog repositories; implementations must not return
// shared mutable values.
type CatalogSource interface {
	RawIngredientByCode(ctx context.Context, code string) (*catalog.RawIngredient, error)
	ProcessedIngredientByCode(ctx context.Context, code string) (*catalog.ProcessedIngredient, error)
}

// Resolver resolves ingredient unit costs through the two-level bill of
// materials. All methods return copies with derived cost fields populated;
// nothing on the resolver carries request-scoped state besides the role it
// was constructed with.
type Resolver struct {
	source CatalogSource
	role   Role
}

// NewResolver creates a resolver bound to the caller's access role
func NewResolver(source CatalogSource, role Role) *Resolver {
	return &Resolver{source: source, role: role}
}

// Resolve resolves an ingredient of unknown kind by its prefixed code
func (r *Resolver) Resolve(ctx context.Context, code string) (catalog.Ingredient, error) {
	kind, err := catalog.KindOfCode(code)
	if err != nil {
		return catalog.Ingredient{}, err
	}

	switch kind {
	case catalog.IngredientKindProcessed:
		pig, err := r.ResolveProcessed(ctx, code)
		if err != nil {
			return catalog.Ingredient{}, err
		}
		return catalog.ProcessedVariant(pig), nil
	default:
		rig, err := r.ResolveRaw(ctx, code)
		if err != nil {
			return catalog.Ingredient{}, err
		}
		return catalog.RawVariant(rig), nil
	}
}

// ResolveRaw resolves a raw ingredient with CostPerUnit populated
func (r *Resolver) ResolveRaw(ctx context.Context, code string) (*catalog.RawIngredient, error) {
	rig, err := r.source.RawIngredientByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if rig == nil {
		return nil, shared.NewReferenceError("raw ingredient %s not found", code)
	}

	resolved := *rig
	if !rig.Quantity.IsPositive() {
		return nil, shared.NewComputationGuardError("raw ingredient %s has non-positive quantity", code)
	}
	resolved.CostPerUnit = rig.Cost.Div(rig.Quantity)

	if !r.role.CanViewCost() {
		resolved.Cost = decimal.Zero
		resolved.CostPerUnit = decimal.Zero
	}
	return &resolved, nil
}

// ResolveProcessed resolves a processed ingredient by resolving every
// constituent raw ingredient first. A missing constituent fails the whole
// resolution; a drink cannot be costed against a partial bill of materials.
func (r *Resolver) ResolveProcessed(ctx context.Context, code string) (*catalog.ProcessedIngredient, error) {
	pig, err := r.source.ProcessedIngredientByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if pig == nil {
		return nil, shared.NewReferenceError("processed ingredient %s not found", code)
	}
	if !pig.YieldQuantity.IsPositive() {
		return nil, shared.NewComputationGuardError("processed ingredient %s has non-positive yield", code)
	}

	resolved := *pig
	resolved.Constituents = make([]catalog.Constituent, len(pig.Constituents))
	resolved.TotalCost = decimal.Zero

	for idx, line := range pig.Constituents {
		rig, err := r.ResolveRaw(ctx, line.RawCode)
		if err != nil {
			return nil, err
		}

		line.Name = rig.Name
		line.Unit = rig.Unit
		line.CostPerUnit = rig.CostPerUnit
		line.TotalCost = line.QuantityUsed.Mul(rig.CostPerUnit)
		resolved.Constituents[idx] = line

		resolved.TotalCost = resolved.TotalCost.Add(line.TotalCost)
	}

	resolved.CostPerUnit = resolved.TotalCost.Div(resolved.YieldQuantity)
	return &resolved, nil
}
