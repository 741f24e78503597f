package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haylacafe/backend/internal/domain/catalog"
	"github.com/haylacafe/backend/internal/domain/shared"
)

func mustTestFixedCost(t *testing.T, code string, loc catalog.Location) *catalog.FixedCost {
	t.Helper()
	cost, err := catalog.NewFixedCost(code, "Rent", loc, decimal.NewFromInt(31000000))
	require.NoError(t, err)
	return cost
}

func TestGormFixedCostRepository_SaveAndFindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFixedCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustTestFixedCost(t, "FIX002", catalog.LocationNTR)))
	require.NoError(t, repo.Save(ctx, mustTestFixedCost(t, "FIX001", catalog.LocationSGN)))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "FIX001", all[0].Code)
	assert.True(t, all[0].MonthlyAmount.Equal(decimal.NewFromInt(31000000)))
}

func TestGormFixedCostRepository_FindByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFixedCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustTestFixedCost(t, "FIX001", catalog.LocationSGN)))

	found, err := repo.FindByCode(ctx, "FIX001")
	require.NoError(t, err)
	assert.Equal(t, "FIX001", found.Code)
	assert.Equal(t, catalog.LocationSGN, found.Location)

	_, err = repo.FindByCode(ctx, "FIX099")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormFixedCostRepository_FindByLocations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFixedCostRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustTestFixedCost(t, "FIX001", catalog.LocationSGN)))
	require.NoError(t, repo.Save(ctx, mustTestFixedCost(t, "FIX002", catalog.LocationNTR)))

	ntr, err := repo.FindByLocations(ctx, []catalog.Location{catalog.LocationNTR})
	require.NoError(t, err)
	require.Len(t, ntr, 1)
	assert.Equal(t, "FIX002", ntr[0].Code)

	none, err := repo.FindByLocations(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormFixedCostRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFixedCostRepository(db)
	ctx := context.Background()

	cost := mustTestFixedCost(t, "FIX001", catalog.LocationSGN)
	require.NoError(t, repo.Save(ctx, cost))

	cost.MonthlyAmount = decimal.NewFromInt(33000000)
	require.NoError(t, repo.Update(ctx, cost))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].MonthlyAmount.Equal(decimal.NewFromInt(33000000)))
}

func TestGormFixedCostRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormFixedCostRepository(db)

	err := repo.Update(context.Background(), mustTestFixedCost(t, "FIX001", catalog.LocationSGN))

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
