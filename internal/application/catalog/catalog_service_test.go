package catalog

import (
	"context"
	"testing"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/costing"
	"github.com/haylacafe/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRawIngredientRepository is a mock implementation of RawIngredientRepository
type MockRawIngredientRepository struct {
	mock.Mock
}

func (m *MockRawIngredientRepository) FindByCode(ctx context.Context, code string) (*catalog.RawIngredient, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.RawIngredient), args.Error(1)
}

func (m *MockRawIngredientRepository) FindAll(ctx context.Context, includeDisabled bool) ([]*catalog.RawIngredient, error) {
	args := m.Called(ctx, includeDisabled)
	return args.Get(0).([]*catalog.RawIngredient), args.Error(1)
}

func (m *MockRawIngredientRepository) FindByLocations(ctx context.Context, locations []catalog.Location) ([]*catalog.RawIngredient, error) {
	args := m.Called(ctx, locations)
	return args.Get(0).([]*catalog.RawIngredient), args.Error(1)
}

func (m *MockRawIngredientRepository) Save(ctx context.Context, ingredient *catalog.RawIngredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockRawIngredientRepository) Update(ctx context.Context, ingredient *catalog.RawIngredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

// MockProcessedIngredientRepository is a mock implementation of ProcessedIngredientRepository
type MockProcessedIngredientRepository struct {
	mock.Mock
}

func (m *MockProcessedIngredientRepository) FindByCode(ctx context.Context, code string) (*catalog.ProcessedIngredient, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProcessedIngredient), args.Error(1)
}

func (m *MockProcessedIngredientRepository) FindAll(ctx context.Context) ([]*catalog.ProcessedIngredient, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*catalog.ProcessedIngredient), args.Error(1)
}

func (m *MockProcessedIngredientRepository) Save(ctx context.Context, ingredient *catalog.ProcessedIngredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockProcessedIngredientRepository) Update(ctx context.Context, ingredient *catalog.ProcessedIngredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

// MockDrinkRepository is a mock implementation of DrinkRepository
type MockDrinkRepository struct {
	mock.Mock
}

func (m *MockDrinkRepository) FindByCode(ctx context.Context, code string) (*catalog.Drink, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Drink), args.Error(1)
}

func (m *MockDrinkRepository) FindEnabled(ctx context.Context) ([]*catalog.Drink, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*catalog.Drink), args.Error(1)
}

func (m *MockDrinkRepository) Save(ctx context.Context, drink *catalog.Drink) error {
	args := m.Called(ctx, drink)
	return args.Error(0)
}

func (m *MockDrinkRepository) Update(ctx context.Context, drink *catalog.Drink) error {
	args := m.Called(ctx, drink)
	return args.Error(0)
}

// MockFixedCostRepository is a mock implementation of FixedCostRepository
type MockFixedCostRepository struct {
	mock.Mock
}

func (m *MockFixedCostRepository) FindByCode(ctx context.Context, code string) (*catalog.FixedCost, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.FixedCost), args.Error(1)
}

func (m *MockFixedCostRepository) FindAll(ctx context.Context) ([]*catalog.FixedCost, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*catalog.FixedCost), args.Error(1)
}

func (m *MockFixedCostRepository) FindByLocations(ctx context.Context, locations []catalog.Location) ([]*catalog.FixedCost, error) {
	args := m.Called(ctx, locations)
	return args.Get(0).([]*catalog.FixedCost), args.Error(1)
}

func (m *MockFixedCostRepository) Save(ctx context.Context, cost *catalog.FixedCost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

func (m *MockFixedCostRepository) Update(ctx context.Context, cost *catalog.FixedCost) error {
	args := m.Called(ctx, cost)
	return args.Error(0)
}

func newTestService() (*CatalogService, *MockRawIngredientRepository, *MockProcessedIngredientRepository, *MockDrinkRepository, *MockFixedCostRepository) {
	rawRepo := new(MockRawIngredientRepository)
	processedRepo := new(MockProcessedIngredientRepository)
	drinkRepo := new(MockDrinkRepository)
	fixedRepo := new(MockFixedCostRepository)
	svc := NewCatalogService(rawRepo, processedRepo, drinkRepo, fixedRepo)
	return svc, rawRepo, processedRepo, drinkRepo, fixedRepo
}

func mustRaw(t *testing.T, code string, cost, qty int64) *catalog.RawIngredient {
	t.Helper()
	rig, err := catalog.NewRawIngredient(code, "ingredient "+code, "base",
		[]catalog.Location{catalog.LocationSGN, catalog.LocationNTR},
		decimal.NewFromInt(cost), decimal.NewFromInt(qty), "g")
	require.NoError(t, err)
	return rig
}

func TestCatalogService_CreateRawIngredient(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and derives unit cost", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rawRepo.On("FindByCode", ctx, "RIG001").Return(nil, shared.ErrNotFound)
		rawRepo.On("Save", ctx, mock.AnythingOfType("*catalog.RawIngredient")).Return(nil)

		resp, err := svc.CreateRawIngredient(ctx, CreateRawIngredientRequest{
			Code:      "RIG001",
			Name:      "Robusta beans",
			Group:     "coffee",
			Locations: []string{"SGN", "NTR"},
			Cost:      decimal.NewFromInt(250000),
			Quantity:  decimal.NewFromInt(1000),
			Unit:      "g",
		})
		require.NoError(t, err)
		assert.Equal(t, "RIG001", resp.Code)
		assert.True(t, resp.CostPerUnit.Equal(decimal.NewFromInt(250)))
		rawRepo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rawRepo.On("FindByCode", ctx, "RIG001").Return(mustRaw(t, "RIG001", 100, 10), nil)

		_, err := svc.CreateRawIngredient(ctx, CreateRawIngredientRequest{
			Code:      "RIG001",
			Name:      "Robusta beans",
			Locations: []string{"SGN"},
			Cost:      decimal.NewFromInt(100),
			Quantity:  decimal.NewFromInt(10),
			Unit:      "g",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown location", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rawRepo.On("FindByCode", ctx, "RIG002").Return(nil, shared.ErrNotFound)

		_, err := svc.CreateRawIngredient(ctx, CreateRawIngredientRequest{
			Code:      "RIG002",
			Name:      "Milk",
			Locations: []string{"HAN"},
			Cost:      decimal.NewFromInt(100),
			Quantity:  decimal.NewFromInt(10),
			Unit:      "ml",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})
}

func TestCatalogService_UpdateRawIngredient(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update rederives unit cost", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		stored := mustRaw(t, "RIG001", 250000, 1000)
		rawRepo.On("FindByCode", ctx, "RIG001").Return(stored, nil)
		rawRepo.On("Update", ctx, mock.AnythingOfType("*catalog.RawIngredient")).Return(nil)

		newCost := decimal.NewFromInt(300000)
		resp, err := svc.UpdateRawIngredient(ctx, "RIG001", UpdateRawIngredientRequest{Cost: &newCost})
		require.NoError(t, err)
		assert.True(t, resp.CostPerUnit.Equal(decimal.NewFromInt(300)))
		// untouched fields keep their stored value
		assert.Equal(t, "ingredient RIG001", resp.Name)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rawRepo.On("FindByCode", ctx, "RIG001").Return(mustRaw(t, "RIG001", 100, 10), nil)

		zero := decimal.Zero
		_, err := svc.UpdateRawIngredient(ctx, "RIG001", UpdateRawIngredientRequest{Quantity: &zero})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "COMPUTATION_GUARD", domainErr.Code)
	})
}

func TestCatalogService_ListRawIngredients(t *testing.T) {
	ctx := context.Background()

	t.Run("zeroes costs for non-admin callers", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rigs := []*catalog.RawIngredient{mustRaw(t, "RIG002", 100, 10), mustRaw(t, "RIG001", 200, 10)}
		rawRepo.On("FindAll", ctx, false).Return(rigs, nil)

		out, err := svc.ListRawIngredients(ctx, costing.RoleStaff, false, nil)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "RIG001", out[0].Code, "sorted by name inside the group")
		for _, r := range out {
			assert.True(t, r.Cost.IsZero())
			assert.True(t, r.CostPerUnit.IsZero())
		}
	})

	t.Run("admin sees costs", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rawRepo.On("FindAll", ctx, false).Return([]*catalog.RawIngredient{mustRaw(t, "RIG001", 200, 10)}, nil)

		out, err := svc.ListRawIngredients(ctx, costing.RoleAdmin, false, nil)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, out[0].CostPerUnit.Equal(decimal.NewFromInt(20)))
	})

	t.Run("orders enabled first, then group, then name", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		retired := mustRaw(t, "RIG001", 100, 10)
		retired.Disable()
		dairy := mustRaw(t, "RIG002", 100, 10)
		dairy.Group = "dairy"
		dairy.Name = "condensed milk"
		beans := mustRaw(t, "RIG003", 100, 10)
		beans.Group = "coffee"
		beans.Name = "robusta beans"
		rawRepo.On("FindAll", ctx, true).Return([]*catalog.RawIngredient{retired, dairy, beans}, nil)

		out, err := svc.ListRawIngredients(ctx, costing.RoleAdmin, true, nil)
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, "RIG003", out[0].Code, "coffee sorts before dairy")
		assert.Equal(t, "RIG002", out[1].Code)
		assert.Equal(t, "RIG001", out[2].Code, "disabled entries sink to the bottom")
	})

	t.Run("staff listing narrows to the requested locations", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		ntrOnly := []catalog.Location{catalog.LocationNTR}
		rawRepo.On("FindByLocations", ctx, ntrOnly).
			Return([]*catalog.RawIngredient{mustRaw(t, "RIG001", 200, 10)}, nil)

		out, err := svc.ListRawIngredients(ctx, costing.RoleStaff, false, ntrOnly)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, out[0].Cost.IsZero())
		rawRepo.AssertNotCalled(t, "FindAll", ctx, false)
	})

	t.Run("admin listing ignores the location filter", func(t *testing.T) {
		svc, rawRepo, _, _, _ := newTestService()
		rawRepo.On("FindAll", ctx, false).Return([]*catalog.RawIngredient{mustRaw(t, "RIG001", 200, 10)}, nil)

		out, err := svc.ListRawIngredients(ctx, costing.RoleAdmin, false, []catalog.Location{catalog.LocationNTR})
		require.NoError(t, err)
		require.Len(t, out, 1)
		rawRepo.AssertNotCalled(t, "FindByLocations", ctx, mock.Anything)
	})
}

func TestCatalogService_CreateProcessedIngredient(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects dangling raw reference", func(t *testing.T) {
		svc, rawRepo, processedRepo, _, _ := newTestService()
		processedRepo.On("FindByCode", ctx, "PIG001").Return(nil, shared.ErrNotFound)
		rawRepo.On("FindByCode", ctx, "RIG001").Return(mustRaw(t, "RIG001", 100, 10), nil)
		rawRepo.On("FindByCode", ctx, "RIG099").Return(nil, shared.ErrNotFound)

		_, err := svc.CreateProcessedIngredient(ctx, CreateProcessedIngredientRequest{
			Code:  "PIG001",
			Name:  "Cold brew base",
			Yield: decimal.NewFromInt(900),
			Unit:  "ml",
			Constituents: []ConstituentRequest{
				{RawCode: "RIG001", QuantityUsed: decimal.NewFromInt(100)},
				{RawCode: "RIG099", QuantityUsed: decimal.NewFromInt(800)},
			},
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "REFERENCE_NOT_FOUND", domainErr.Code)
	})
}

func TestCatalogService_Compile(t *testing.T) {
	ctx := context.Background()

	rig := mustRaw(t, "RIG001", 250000, 1000)
	goodDrink, err := catalog.NewDrink("DRK001", "Espresso", "coffee",
		[]catalog.Location{catalog.LocationSGN},
		[]catalog.RecipeLine{{IngredientCode: "RIG001", Quantity: decimal.NewFromInt(18)}},
		map[catalog.Location]catalog.SizePrices{
			catalog.LocationSGN: {M: decimal.NewFromInt(45000)},
		})
	require.NoError(t, err)
	badDrink, err := catalog.NewDrink("DRK002", "Latte", "coffee",
		[]catalog.Location{catalog.LocationSGN},
		[]catalog.RecipeLine{{IngredientCode: "RIG777", Quantity: decimal.NewFromInt(1)}},
		map[catalog.Location]catalog.SizePrices{
			catalog.LocationSGN: {M: decimal.NewFromInt(50000)},
		})
	require.NoError(t, err)

	t.Run("one failing drink does not abort the batch", func(t *testing.T) {
		svc, rawRepo, _, drinkRepo, _ := newTestService()
		drinkRepo.On("FindEnabled", ctx).Return([]*catalog.Drink{goodDrink, badDrink}, nil)
		rawRepo.On("FindByCode", ctx, "RIG001").Return(rig, nil)
		rawRepo.On("FindByCode", ctx, "RIG777").Return(nil, shared.ErrNotFound)

		compiled, failures, err := svc.Compile(ctx, costing.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, compiled, 1)
		require.Contains(t, compiled, "DRK001")
		require.Len(t, failures, 1)
		assert.Equal(t, "DRK002", failures[0].DrinkCode)
		assert.Contains(t, failures[0].Message, "RIG777")
	})
}

func TestCatalogService_ListFixedCosts(t *testing.T) {
	ctx := context.Background()

	t.Run("forbidden for non-admin callers", func(t *testing.T) {
		svc, _, _, _, _ := newTestService()
		_, err := svc.ListFixedCosts(ctx, costing.RoleStaff)
		require.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("admin gets entries sorted by code", func(t *testing.T) {
		svc, _, _, _, fixedRepo := newTestService()
		rent, err := catalog.NewFixedCost("FIX002", "Rent", catalog.LocationSGN, decimal.NewFromInt(30000000))
		require.NoError(t, err)
		wages, err := catalog.NewFixedCost("FIX001", "Wages", catalog.LocationSGN, decimal.NewFromInt(45000000))
		require.NoError(t, err)
		fixedRepo.On("FindAll", ctx).Return([]*catalog.FixedCost{rent, wages}, nil)

		out, err := svc.ListFixedCosts(ctx, costing.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "FIX001", out[0].Code)
	})
}

func TestCatalogService_UpdateFixedCost(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only present fields", func(t *testing.T) {
		svc, _, _, _, fixedRepo := newTestService()
		rent, err := catalog.NewFixedCost("FIX002", "Rent", catalog.LocationSGN, decimal.NewFromInt(30000000))
		require.NoError(t, err)
		fixedRepo.On("FindByCode", ctx, "FIX002").Return(rent, nil)
		fixedRepo.On("Update", ctx, mock.AnythingOfType("*catalog.FixedCost")).Return(nil)

		amount := decimal.NewFromInt(31000000)
		out, err := svc.UpdateFixedCost(ctx, "FIX002", UpdateFixedCostRequest{MonthlyAmount: &amount})
		require.NoError(t, err)
		assert.Equal(t, "Rent", out.Name)
		assert.True(t, out.MonthlyAmount.Equal(amount))
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		svc, _, _, _, fixedRepo := newTestService()
		rent, err := catalog.NewFixedCost("FIX002", "Rent", catalog.LocationSGN, decimal.NewFromInt(30000000))
		require.NoError(t, err)
		fixedRepo.On("FindByCode", ctx, "FIX002").Return(rent, nil)

		amount := decimal.NewFromInt(-1)
		_, err = svc.UpdateFixedCost(ctx, "FIX002", UpdateFixedCostRequest{MonthlyAmount: &amount})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("missing entry surfaces not found", func(t *testing.T) {
		svc, _, _, _, fixedRepo := newTestService()
		fixedRepo.On("FindByCode", ctx, "FIX099").Return(nil, shared.ErrNotFound)

		_, err := svc.UpdateFixedCost(ctx, "FIX099", UpdateFixedCostRequest{})
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
