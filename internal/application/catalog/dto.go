package catalog

import (
	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateRawIngredientRequest carries a new raw ingredient
type CreateRawIngredientRequest struct {
	Code      string          `json:"code" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Group     string          `json:"group"`
	Locations []string        `json:"locations" binding:"required,min=1"`
	Cost      decimal.Decimal `json:"cost" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"required"`
}

// UpdateRawIngredientRequest carries a partial update: only non-nil fields
// are applied.
type UpdateRawIngredientRequest struct {
	Name      *string          `json:"name"`
	Group     *string          `json:"group"`
	Locations *[]string        `json:"locations"`
	Cost      *decimal.Decimal `json:"cost"`
	Quantity  *decimal.Decimal `json:"quantity"`
	Unit      *string          `json:"unit"`
	Enabled   *bool            `json:"enabled"`
}

// ConstituentRequest is one bill-of-materials line
type ConstituentRequest struct {
	RawCode      string          `json:"raw_code" binding:"required"`
	QuantityUsed decimal.Decimal `json:"quantity_used" binding:"required"`
}

// CreateProcessedIngredientRequest carries a new processed ingredient
type CreateProcessedIngredientRequest struct {
	Code         string               `json:"code" binding:"required"`
	Name         string               `json:"name" binding:"required"`
	Yield        decimal.Decimal      `json:"yield" binding:"required"`
	Unit         string               `json:"unit" binding:"required"`
	Constituents []ConstituentRequest `json:"constituents" binding:"required,min=2"`
}

// UpdateProcessedIngredientRequest carries a partial update
type UpdateProcessedIngredientRequest struct {
	Name         *string               `json:"name"`
	Yield        *decimal.Decimal      `json:"yield"`
	Unit         *string               `json:"unit"`
	Constituents *[]ConstituentRequest `json:"constituents"`
}

// RecipeLineRequest is one drink recipe line
type RecipeLineRequest struct {
	IngredientCode string          `json:"ingredient_code" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
}

// SizePricesRequest carries the per-size price tiers for one location.
// A zero price means the size is not offered.
type SizePricesRequest struct {
	S decimal.Decimal `json:"s"`
	M decimal.Decimal `json:"m"`
	L decimal.Decimal `json:"l"`
}

// CreateDrinkRequest carries a new drink
type CreateDrinkRequest struct {
	Code      string                       `json:"code" binding:"required"`
	Name      string                       `json:"name" binding:"required"`
	Group     string                       `json:"group"`
	Locations []string                     `json:"locations" binding:"required,min=1"`
	Recipe    []RecipeLineRequest          `json:"recipe" binding:"required,min=1"`
	Prices    map[string]SizePricesRequest `json:"prices" binding:"required"`
}

// UpdateDrinkRequest carries a partial drink update
type UpdateDrinkRequest struct {
	Name    *string                       `json:"name"`
	Group   *string                       `json:"group"`
	Recipe  *[]RecipeLineRequest          `json:"recipe"`
	Prices  *map[string]SizePricesRequest `json:"prices"`
	Enabled *bool                         `json:"enabled"`
}

// CreateFixedCostRequest carries a new fixed monthly cost entry
type CreateFixedCostRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Location      string          `json:"location" binding:"required"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" binding:"required"`
}

// UpdateFixedCostRequest carries a partial fixed cost update
type UpdateFixedCostRequest struct {
	Name          *string          `json:"name"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount"`
}

// RawIngredientResponse is the read model for one raw ingredient. Cost
// fields come back zeroed, not omitted, when the caller cannot view costs.
type RawIngredientResponse struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Group       string          `json:"group"`
	Locations   []string        `json:"locations"`
	Cost        decimal.Decimal `json:"cost"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
	Enabled     bool            `json:"enabled"`
}

// ConstituentResponse is the read model for one resolved constituent line
type ConstituentResponse struct {
	RawCode      string          `json:"raw_code"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// ProcessedIngredientResponse is the read model for one resolved processed
// ingredient.
type ProcessedIngredientResponse struct {
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Yield        decimal.Decimal       `json:"yield"`
	Unit         string                `json:"unit"`
	Constituents []ConstituentResponse `json:"constituents"`
	TotalCost    decimal.Decimal       `json:"total_cost"`
	CostPerUnit  decimal.Decimal       `json:"cost_per_unit"`
}

// LocationCostingResponse is the per-location costing surface of one drink
type LocationCostingResponse struct {
	WeightS   decimal.Decimal `json:"weight_s"`
	WeightM   decimal.Decimal `json:"weight_m"`
	WeightL   decimal.Decimal `json:"weight_l"`
	ExtraCost decimal.Decimal `json:"extra_cost"`
	PriceS    decimal.Decimal `json:"price_s"`
	PriceM    decimal.Decimal `json:"price_m"`
	PriceL    decimal.Decimal `json:"price_l"`
}

// CompiledDrinkResponse is the read model for one compiled drink
type CompiledDrinkResponse struct {
	Code      string                             `json:"code"`
	Name      string                             `json:"name"`
	Group     string                             `json:"group"`
	BaseCost  decimal.Decimal                    `json:"base_cost"`
	Locations map[string]LocationCostingResponse `json:"locations"`
}

// CompileError reports one drink that failed to compile in a batch
type CompileError struct {
	DrinkCode string `json:"drink_code"`
	Message   string `json:"message"`
}

// CompilationResponse is the output of a batch compile: the drinks that
// compiled plus the per-drink failures that did not abort the rest.
type CompilationResponse struct {
	Drinks map[string]CompiledDrinkResponse `json:"drinks"`
	Errors []CompileError                   `json:"errors,omitempty"`
}

// FixedCostResponse is the read model for one fixed cost entry
type FixedCostResponse struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
}

func toLocations(raw []string) ([]catalog.Location, error) {
	out := make([]catalog.Location, 0, len(raw))
	for _, s := range raw {
		loc := catalog.Location(s)
		if !loc.IsValid() {
			return nil, shared.NewValidationError("unknown location code: %s", s)
		}
		out = append(out, loc)
	}
	return out, nil
}

func toRawResponse(ri *catalog.RawIngredient) RawIngredientResponse {
	locs := make([]string, 0, len(ri.Locations))
	for _, l := range ri.Locations {
		locs = append(locs, string(l))
	}
	return RawIngredientResponse{
		Code:        ri.Code,
		Name:        ri.Name,
		Group:       ri.Group,
		Locations:   locs,
		Cost:        ri.Cost,
		Quantity:    ri.Quantity,
		Unit:        ri.Unit,
		CostPerUnit: ri.CostPerUnit,
		Enabled:     ri.Enabled,
	}
}

func toProcessedResponse(pi *catalog.ProcessedIngredient) ProcessedIngredientResponse {
	cons := make([]ConstituentResponse, 0, len(pi.Constituents))
	for _, c := range pi.Constituents {
		cons = append(cons, ConstituentResponse{
			RawCode:      c.RawCode,
			Name:         c.Name,
			Unit:         c.Unit,
			QuantityUsed: c.QuantityUsed,
			CostPerUnit:  c.CostPerUnit,
			TotalCost:    c.TotalCost,
		})
	}
	return ProcessedIngredientResponse{
		Code:         pi.Code,
		Name:         pi.Name,
		Yield:        pi.YieldQuantity,
		Unit:         pi.Unit,
		Constituents: cons,
		TotalCost:    pi.TotalCost,
		CostPerUnit:  pi.CostPerUnit,
	}
}

func toCompiledResponse(cd *costing.CompiledDrink) CompiledDrinkResponse {
	locs := make(map[string]LocationCostingResponse, len(cd.ByLoc))
	for loc, lc := range cd.ByLoc {
		locs[string(loc)] = LocationCostingResponse{
			WeightS:   lc.Weights.S,
			WeightM:   lc.Weights.M,
			WeightL:   lc.Weights.L,
			ExtraCost: lc.ExtraCost,
			PriceS:    lc.Prices.S,
			PriceM:    lc.Prices.M,
			PriceL:    lc.Prices.L,
		}
	}
	return CompiledDrinkResponse{
		Code:      cd.Code,
		Name:      cd.Name,
		Group:     cd.Group,
		BaseCost:  cd.BaseCost,
		Locations: locs,
	}
}
