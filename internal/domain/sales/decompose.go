package sales

import (
	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ConsumptionLine is one ingredient draw-down entry for a single sold unit,
// already scaled by the size weight. When processed-ingredient expansion is
// requested these are raw ingredients only.
type ConsumptionLine struct {
	IngredientCode string
	Name           string
	Unit           string
	Quantity       decimal.Decimal
	CostPerUnit    decimal.Decimal
	TotalCost      decimal.Decimal
}

// DecomposedItem is a receipt line enriched with catalog reference fields
// and per-size derived cost figures.
type DecomposedItem struct {
	ReceiptItem
	DrinkName       string
	Group           string
	PriceBySize     decimal.Decimal
	TotalCostBySize decimal.Decimal
	MarginBySize    decimal.Decimal // percent, 0 when the price is 0
	Consumption     []ConsumptionLine
}

// DecomposedReceipt is the pure read-side projection of a stored receipt
// against the compiled drink catalog. Decomposing the same receipt twice
// against an unchanged catalog yields identical output.
type DecomposedReceipt struct {
	Receipt
	Items []DecomposedItem
}

// DecomposeOptions controls the decomposition depth
type DecomposeOptions struct {
	// ExpandProcessed expands processed-ingredient recipe lines into their
	// constituent raw ingredients, scaled by lineQty / pigYield and the
	// size weight. This is what lets aggregation report true raw-material
	// draw-down even when recipes reference semi-prepared batches.
	ExpandProcessed bool
}

// Decompose expands a receipt into cost, margin and ingredient consumption
// per line item. A line referencing a drink code absent from the compiled
// catalog fails the whole receipt; a retired drink cannot be costed.
func Decompose(receipt *Receipt, cat costing.CompiledCatalog, opts DecomposeOptions) (*DecomposedReceipt, error) {
	if receipt == nil {
		return nil, shared.NewValidationError("cannot decompose nil receipt")
	}

	out := &DecomposedReceipt{
		Receipt: *receipt,
		Items:   make([]DecomposedItem, 0, len(receipt.Items)),
	}

	for _, item := range receipt.Items {
		drink, err := cat.Lookup(item.ProductCode)
		if err != nil {
			return nil, err
		}
		weight, sold := drink.WeightAt(receipt.Location, item.Size)
		if !sold {
			return nil, shared.NewReferenceError("drink %s is not sold at %s", item.ProductCode, receipt.Location)
		}

		price := drink.PriceAt(receipt.Location, item.Size)
		cost := drink.EffectiveCost(receipt.Location, item.Size)

		margin := decimal.Zero
		if price.IsPositive() {
			margin = price.Sub(cost).Mul(oneHundred).Div(price)
		}

		out.Items = append(out.Items, DecomposedItem{
			ReceiptItem:     item,
			DrinkName:       drink.Name,
			Group:           drink.Group,
			PriceBySize:     price,
			TotalCostBySize: cost,
			MarginBySize:    margin,
			Consumption:     expandConsumption(drink, weight, opts),
		})
	}

	return out, nil
}

// expandConsumption scales the drink's resolved recipe lines by the size
// weight, optionally unrolling processed ingredients into raw ones.
func expandConsumption(drink *costing.CompiledDrink, weight decimal.Decimal, opts DecomposeOptions) []ConsumptionLine {
	lines := make([]ConsumptionLine, 0, len(drink.Lines))

	for _, line := range drink.Lines {
		if opts.ExpandProcessed && line.Ingredient.Kind == catalog.IngredientKindProcessed {
			pig := line.Ingredient.Processed
			ratio := line.Quantity.Div(pig.YieldQuantity)

			for _, c := range pig.Constituents {
				lines = append(lines, ConsumptionLine{
					IngredientCode: c.RawCode,
					Name:           c.Name,
					Unit:           c.Unit,
					Quantity:       c.QuantityUsed.Mul(ratio).Mul(weight),
					CostPerUnit:    c.CostPerUnit,
					TotalCost:      c.TotalCost.Mul(ratio).Mul(weight),
				})
			}
			continue
		}

		lines = append(lines, ConsumptionLine{
			IngredientCode: line.Ingredient.Code(),
			Name:           line.Ingredient.Name(),
			Unit:           line.Ingredient.Unit(),
			Quantity:       line.Quantity.Mul(weight),
			CostPerUnit:    line.Ingredient.CostPerUnit(),
			TotalCost:      line.TotalCost.Mul(weight),
		})
	}

	return lines
}
