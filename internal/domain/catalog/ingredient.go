package catalog

import (
	"strings"

	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// IngredientKind tags the two ingredient variants sharing one code namespace
type IngredientKind string

const (
	IngredientKindRaw       IngredientKind = "RAW"
	IngredientKindProcessed IngredientKind = "PROCESSED"
)

// KindOfCode classifies an ingredient code by its prefix. The dispatch on the
// prefix happens here once; downstream code switches on the returned tag.
func KindOfCode(code string) (IngredientKind, error) {
	switch {
	case strings.HasPrefix(code, "RIG"):
		return IngredientKindRaw, nil
	case strings.HasPrefix(code, "PIG"):
		return IngredientKindProcessed, nil
	}
	return "", shared.NewValidationError("ingredient code %q has no RIG/PIG prefix", code)
}

// Ingredient is the tagged variant over raw and processed ingredients. It
// exposes the uniform code/name/unit/cost contract recipe lines rely on;
// exactly one of Raw and Processed is set, matching Kind.
type Ingredient struct {
	Kind      IngredientKind
	Raw       *RawIngredient
	Processed *ProcessedIngredient
}

// RawVariant wraps a raw ingredient into the tagged variant
func RawVariant(r *RawIngredient) Ingredient {
	return Ingredient{Kind: IngredientKindRaw, Raw: r}
}

// ProcessedVariant wraps a processed ingredient into the tagged variant
func ProcessedVariant(p *ProcessedIngredient) Ingredient {
	return Ingredient{Kind: IngredientKindProcessed, Processed: p}
}

// Code returns the business key of the underlying ingredient
func (i Ingredient) Code() string {
	if i.Kind == IngredientKindProcessed {
		return i.Processed.Code
	}
	return i.Raw.Code
}

// Name returns the display name of the underlying ingredient
func (i Ingredient) Name() string {
	if i.Kind == IngredientKindProcessed {
		return i.Processed.Name
	}
	return i.Raw.Name
}

// Unit returns the unit of measure of the underlying ingredient
func (i Ingredient) Unit() string {
	if i.Kind == IngredientKindProcessed {
		return i.Processed.Unit
	}
	return i.Raw.Unit
}

// CostPerUnit returns the resolved unit cost of the underlying ingredient
func (i Ingredient) CostPerUnit() decimal.Decimal {
	if i.Kind == IngredientKindProcessed {
		return i.Processed.CostPerUnit
	}
	return i.Raw.CostPerUnit
}
