package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CatalogService handles ingredient, drink and fixed cost operations
type CatalogService struct {
	rawRepo       catalog.RawIngredientRepository
	processedRepo catalog.ProcessedIngredientRepository
	drinkRepo     catalog.DrinkRepository
	fixedRepo     catalog.FixedCostRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	rawRepo catalog.RawIngredientRepository,
	processedRepo catalog.ProcessedIngredientRepository,
	drinkRepo catalog.DrinkRepository,
	fixedRepo catalog.FixedCostRepository,
) *CatalogService {
	return &CatalogService{
		rawRepo:       rawRepo,
		processedRepo: processedRepo,
		drinkRepo:     drinkRepo,
		fixedRepo:     fixedRepo,
	}
}

// repoSource adapts the catalog repositories to the resolver's read
// interface. A missing row comes back as nil rather than an error so the
// resolver can report the dangling reference itself.
type repoSource struct {
	rawRepo       catalog.RawIngredientRepository
	processedRepo catalog.ProcessedIngredientRepository
}

func (s repoSource) RawIngredientByCode(ctx context.Context, code string) (*catalog.RawIngredient, error) {
	rig, err := s.rawRepo.FindByCode(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return rig, err
}

func (s repoSource) ProcessedIngredientByCode(ctx context.Context, code string) (*catalog.ProcessedIngredient, error) {
	pig, err := s.processedRepo.FindByCode(ctx, code)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return pig, err
}

// Resolver returns a cost resolver bound to the caller's role
func (s *CatalogService) Resolver(role costing.Role) *costing.Resolver {
	return costing.NewResolver(repoSource{rawRepo: s.rawRepo, processedRepo: s.processedRepo}, role)
}

// CreateRawIngredient creates a new raw ingredient
func (s *CatalogService) CreateRawIngredient(ctx context.Context, req CreateRawIngredientRequest) (*RawIngredientResponse, error) {
	if _, err := s.rawRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Raw ingredient with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	locs, err := toLocations(req.Locations)
	if err != nil {
		return nil, err
	}

	rig, err := catalog.NewRawIngredient(req.Code, req.Name, req.Group, locs, req.Cost, req.Quantity, req.Unit)
	if err != nil {
		return nil, err
	}
	if err := s.rawRepo.Save(ctx, rig); err != nil {
		return nil, err
	}

	resp := toRawResponse(rig)
	return &resp, nil
}

// UpdateRawIngredient applies a partial update to an existing raw
// ingredient. Nil fields keep their stored value; cost per unit is
// re-derived when cost or quantity changes.
func (s *CatalogService) UpdateRawIngredient(ctx context.Context, code string, req UpdateRawIngredientRequest) (*RawIngredientResponse, error) {
	rig, err := s.rawRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rig.Name = *req.Name
	}
	if req.Group != nil {
		rig.Group = *req.Group
	}
	if req.Locations != nil {
		locs, err := toLocations(*req.Locations)
		if err != nil {
			return nil, err
		}
		rig.Locations = locs
	}
	if req.Cost != nil {
		rig.Cost = *req.Cost
	}
	if req.Quantity != nil {
		if !req.Quantity.IsPositive() {
			return nil, shared.NewComputationGuardError("raw ingredient %s has non-positive quantity", code)
		}
		rig.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		rig.Unit = *req.Unit
	}
	if req.Enabled != nil {
		rig.Enabled = *req.Enabled
	}
	rig.CostPerUnit = rig.Cost.Div(rig.Quantity)

	if err := s.rawRepo.Update(ctx, rig); err != nil {
		return nil, err
	}
	resp := toRawResponse(rig)
	return &resp, nil
}

// GetRawIngredient returns one raw ingredient with costs zeroed for
// callers without cost visibility.
func (s *CatalogService) GetRawIngredient(ctx context.Context, role costing.Role, code string) (*RawIngredientResponse, error) {
	rig, err := s.rawRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := toRawResponse(rig)
	if !role.CanViewCost() {
		resp.Cost = decimal.Zero
		resp.CostPerUnit = decimal.Zero
	}
	return &resp, nil
}

// ListRawIngredients lists raw ingredients the way the POS catalog
// screen orders them: enabled entries first, then group, then name.
// Callers without cost visibility are confined to the enabled entries
// stocked at their locations and get cost fields zeroed.
func (s *CatalogService) ListRawIngredients(ctx context.Context, role costing.Role, includeDisabled bool, locations []catalog.Location) ([]RawIngredientResponse, error) {
	var (
		rigs []*catalog.RawIngredient
		err  error
	)
	if !role.CanViewCost() && len(locations) > 0 {
		rigs, err = s.rawRepo.FindByLocations(ctx, locations)
	} else {
		rigs, err = s.rawRepo.FindAll(ctx, includeDisabled)
	}
	if err != nil {
		return nil, err
	}

	out := make([]RawIngredientResponse, 0, len(rigs))
	for _, rig := range rigs {
		resp := toRawResponse(rig)
		if !role.CanViewCost() {
			resp.Cost = decimal.Zero
			resp.CostPerUnit = decimal.Zero
		}
		out = append(out, resp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Enabled != out[j].Enabled {
			return out[i].Enabled
		}
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CreateProcessedIngredient creates a new processed ingredient. Every
// constituent must reference an existing raw ingredient.
func (s *CatalogService) CreateProcessedIngredient(ctx context.Context, req CreateProcessedIngredientRequest) (*ProcessedIngredientResponse, error) {
	if _, err := s.processedRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Processed ingredient with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	cons := make([]catalog.Constituent, 0, len(req.Constituents))
	for _, c := range req.Constituents {
		if _, err := s.rawRepo.FindByCode(ctx, c.RawCode); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewReferenceError("raw ingredient %s not found", c.RawCode)
			}
			return nil, err
		}
		cons = append(cons, catalog.Constituent{RawCode: c.RawCode, QuantityUsed: c.QuantityUsed})
	}

	pig, err := catalog.NewProcessedIngredient(req.Code, req.Name, req.Yield, req.Unit, cons)
	if err != nil {
		return nil, err
	}
	if err := s.processedRepo.Save(ctx, pig); err != nil {
		return nil, err
	}
	return s.GetProcessedIngredient(ctx, costing.RoleAdmin, pig.Code)
}

// UpdateProcessedIngredient applies a partial update to an existing
// processed ingredient.
func (s *CatalogService) UpdateProcessedIngredient(ctx context.Context, code string, req UpdateProcessedIngredientRequest) (*ProcessedIngredientResponse, error) {
	pig, err := s.processedRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		pig.Name = *req.Name
	}
	if req.Yield != nil {
		if !req.Yield.IsPositive() {
			return nil, shared.NewComputationGuardError("processed ingredient %s has non-positive yield", code)
		}
		pig.YieldQuantity = *req.Yield
	}
	if req.Unit != nil {
		pig.Unit = *req.Unit
	}
	if req.Constituents != nil {
		if len(*req.Constituents) < 2 {
			return nil, shared.NewValidationError("processed ingredient needs at least two constituents")
		}
		cons := make([]catalog.Constituent, 0, len(*req.Constituents))
		for _, c := range *req.Constituents {
			if _, err := s.rawRepo.FindByCode(ctx, c.RawCode); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return nil, shared.NewReferenceError("raw ingredient %s not found", c.RawCode)
				}
				return nil, err
			}
			cons = append(cons, catalog.Constituent{RawCode: c.RawCode, QuantityUsed: c.QuantityUsed})
		}
		pig.Constituents = cons
	}

	if err := s.processedRepo.Update(ctx, pig); err != nil {
		return nil, err
	}
	return s.GetProcessedIngredient(ctx, costing.RoleAdmin, code)
}

// GetProcessedIngredient returns one processed ingredient with its
// constituent costs resolved through the caller's role.
func (s *CatalogService) GetProcessedIngredient(ctx context.Context, role costing.Role, code string) (*ProcessedIngredientResponse, error) {
	pig, err := s.Resolver(role).ResolveProcessed(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := toProcessedResponse(pig)
	return &resp, nil
}

// ListProcessedIngredients returns all processed ingredients, each
// resolved through the caller's role and sorted by name.
func (s *CatalogService) ListProcessedIngredients(ctx context.Context, role costing.Role) ([]ProcessedIngredientResponse, error) {
	pigs, err := s.processedRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resolver := s.Resolver(role)
	out := make([]ProcessedIngredientResponse, 0, len(pigs))
	for _, pig := range pigs {
		resolved, err := resolver.ResolveProcessed(ctx, pig.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, toProcessedResponse(resolved))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// CreateDrink creates a new drink
func (s *CatalogService) CreateDrink(ctx context.Context, req CreateDrinkRequest) (*CompiledDrinkResponse, error) {
	if _, err := s.drinkRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Drink with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	locs, err := toLocations(req.Locations)
	if err != nil {
		return nil, err
	}

	drink, err := catalog.NewDrink(req.Code, req.Name, req.Group, locs, toRecipe(req.Recipe), toPrices(req.Prices))
	if err != nil {
		return nil, err
	}
	if err := s.verifyRecipe(ctx, drink); err != nil {
		return nil, err
	}
	if err := s.drinkRepo.Save(ctx, drink); err != nil {
		return nil, err
	}

	compiled, err := costing.Compile(ctx, drink, s.Resolver(costing.RoleAdmin))
	if err != nil {
		return nil, err
	}
	resp := toCompiledResponse(compiled)
	return &resp, nil
}

// UpdateDrink applies a partial update to an existing drink
func (s *CatalogService) UpdateDrink(ctx context.Context, code string, req UpdateDrinkRequest) (*CompiledDrinkResponse, error) {
	drink, err := s.drinkRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		drink.Name = *req.Name
	}
	if req.Group != nil {
		drink.Group = *req.Group
	}
	if req.Recipe != nil {
		if len(*req.Recipe) == 0 {
			return nil, shared.NewValidationError("drink needs at least one recipe line")
		}
		drink.Recipe = toRecipe(*req.Recipe)
	}
	if req.Prices != nil {
		prices := toPrices(*req.Prices)
		for _, loc := range drink.Locations {
			if _, ok := prices[loc]; !ok {
				return nil, shared.NewValidationError("missing price table for location %s", loc.String())
			}
		}
		drink.Prices = prices
	}
	if req.Enabled != nil {
		drink.Enabled = *req.Enabled
	}

	if err := s.verifyRecipe(ctx, drink); err != nil {
		return nil, err
	}
	if err := s.drinkRepo.Update(ctx, drink); err != nil {
		return nil, err
	}

	compiled, err := costing.Compile(ctx, drink, s.Resolver(costing.RoleAdmin))
	if err != nil {
		return nil, err
	}
	resp := toCompiledResponse(compiled)
	return &resp, nil
}

// verifyRecipe checks that every recipe line references a stored
// ingredient of the right kind.
func (s *CatalogService) verifyRecipe(ctx context.Context, drink *catalog.Drink) error {
	for _, line := range drink.Recipe {
		kind, err := catalog.KindOfCode(line.IngredientCode)
		if err != nil {
			return err
		}
		switch kind {
		case catalog.IngredientKindProcessed:
			_, err = s.processedRepo.FindByCode(ctx, line.IngredientCode)
		default:
			_, err = s.rawRepo.FindByCode(ctx, line.IngredientCode)
		}
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewReferenceError("ingredient %s not found", line.IngredientCode)
			}
			return err
		}
	}
	return nil
}

// Compile compiles every enabled drink through the caller's role. A drink
// whose resolution fails is reported alongside the rest instead of
// aborting the batch.
func (s *CatalogService) Compile(ctx context.Context, role costing.Role) (costing.CompiledCatalog, []CompileError, error) {
	drinks, err := s.drinkRepo.FindEnabled(ctx)
	if err != nil {
		return nil, nil, err
	}

	resolver := s.Resolver(role)
	compiled := make(costing.CompiledCatalog, len(drinks))
	var failures []CompileError
	for _, drink := range drinks {
		cd, err := costing.Compile(ctx, drink, resolver)
		if err != nil {
			failures = append(failures, CompileError{DrinkCode: drink.Code, Message: err.Error()})
			continue
		}
		compiled[drink.Code] = cd
	}
	return compiled, failures, nil
}

// CompileCatalog compiles every enabled drink into its read model
func (s *CatalogService) CompileCatalog(ctx context.Context, role costing.Role) (*CompilationResponse, error) {
	compiled, failures, err := s.Compile(ctx, role)
	if err != nil {
		return nil, err
	}

	resp := CompilationResponse{
		Drinks: make(map[string]CompiledDrinkResponse, len(compiled)),
		Errors: failures,
	}
	for code, cd := range compiled {
		resp.Drinks[code] = toCompiledResponse(cd)
	}
	return &resp, nil
}

// CreateFixedCost creates a new fixed monthly cost entry
func (s *CatalogService) CreateFixedCost(ctx context.Context, req CreateFixedCostRequest) (*FixedCostResponse, error) {
	loc := catalog.Location(req.Location)
	if !loc.IsValid() {
		return nil, shared.NewValidationError("unknown location code: %s", req.Location)
	}

	fc, err := catalog.NewFixedCost(req.Code, req.Name, loc, req.MonthlyAmount)
	if err != nil {
		return nil, err
	}
	if err := s.fixedRepo.Save(ctx, fc); err != nil {
		return nil, err
	}
	return &FixedCostResponse{
		Code:          fc.Code,
		Name:          fc.Name,
		Location:      fc.Location.String(),
		MonthlyAmount: fc.MonthlyAmount,
	}, nil
}

// UpdateFixedCost applies a partial update to a fixed cost entry
func (s *CatalogService) UpdateFixedCost(ctx context.Context, code string, req UpdateFixedCostRequest) (*FixedCostResponse, error) {
	fc, err := s.fixedRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewValidationError("fixed cost name cannot be empty")
		}
		fc.Name = *req.Name
	}
	if req.MonthlyAmount != nil {
		if req.MonthlyAmount.IsNegative() {
			return nil, shared.NewValidationError("fixed cost %s monthly amount cannot be negative", code)
		}
		fc.MonthlyAmount = *req.MonthlyAmount
	}

	if err := s.fixedRepo.Update(ctx, fc); err != nil {
		return nil, err
	}
	return &FixedCostResponse{
		Code:          fc.Code,
		Name:          fc.Name,
		Location:      fc.Location.String(),
		MonthlyAmount: fc.MonthlyAmount,
	}, nil
}

// ListFixedCosts returns all fixed cost entries sorted by code
func (s *CatalogService) ListFixedCosts(ctx context.Context, role costing.Role) ([]FixedCostResponse, error) {
	if !role.CanViewCost() {
		return nil, shared.ErrForbidden
	}

	costs, err := s.fixedRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]FixedCostResponse, 0, len(costs))
	for _, fc := range costs {
		out = append(out, FixedCostResponse{
			Code:          fc.Code,
			Name:          fc.Name,
			Location:      fc.Location.String(),
			MonthlyAmount: fc.MonthlyAmount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func toRecipe(lines []RecipeLineRequest) []catalog.RecipeLine {
	out := make([]catalog.RecipeLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, catalog.RecipeLine{IngredientCode: l.IngredientCode, Quantity: l.Quantity})
	}
	return out
}

func toPrices(prices map[string]SizePricesRequest) map[catalog.Location]catalog.SizePrices {
	out := make(map[catalog.Location]catalog.SizePrices, len(prices))
	for loc, p := range prices {
		out[catalog.Location(loc)] = catalog.SizePrices{S: p.S, M: p.M, L: p.L}
	}
	return out
}
