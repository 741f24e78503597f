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

func mustTestProcessed(t *testing.T, code string) *catalog.ProcessedIngredient {
	t.Helper()
	ingredient, err := catalog.NewProcessedIngredient(
		code, "Sữa nền", decimal.NewFromInt(500), "ml",
		[]catalog.Constituent{
			{RawCode: "RIG001", QuantityUsed: decimal.NewFromInt(200)},
			{RawCode: "RIG002", QuantityUsed: decimal.NewFromInt(300)},
		},
	)
	require.NoError(t, err)
	return ingredient
}

func TestGormProcessedIngredientRepository_SaveAndFindByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProcessedIngredientRepository(db)
	ctx := context.Background()

	ingredient := mustTestProcessed(t, "PIG001")
	require.NoError(t, repo.Save(ctx, ingredient))

	found, err := repo.FindByCode(ctx, "PIG001")
	require.NoError(t, err)
	assert.Equal(t, ingredient.ID, found.ID)
	assert.True(t, found.YieldQuantity.Equal(decimal.NewFromInt(500)))
	require.Len(t, found.Constituents, 2)
	assert.Equal(t, "RIG001", found.Constituents[0].RawCode)
	assert.True(t, found.Constituents[1].QuantityUsed.Equal(decimal.NewFromInt(300)))
}

func TestGormProcessedIngredientRepository_FindByCode_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProcessedIngredientRepository(db)

	found, err := repo.FindByCode(context.Background(), "PIG999")

	assert.Nil(t, found)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProcessedIngredientRepository_FindAll_SortedByCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProcessedIngredientRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, mustTestProcessed(t, "PIG002")))
	require.NoError(t, repo.Save(ctx, mustTestProcessed(t, "PIG001")))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "PIG001", all[0].Code)
	assert.Equal(t, "PIG002", all[1].Code)
}

func TestGormProcessedIngredientRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProcessedIngredientRepository(db)
	ctx := context.Background()

	ingredient := mustTestProcessed(t, "PIG001")
	require.NoError(t, repo.Save(ctx, ingredient))

	ingredient.YieldQuantity = decimal.NewFromInt(600)
	require.NoError(t, repo.Update(ctx, ingredient))

	found, err := repo.FindByCode(ctx, "PIG001")
	require.NoError(t, err)
	assert.True(t, found.YieldQuantity.Equal(decimal.NewFromInt(600)))
}

func TestGormProcessedIngredientRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProcessedIngredientRepository(db)

	err := repo.Update(context.Background(), mustTestProcessed(t, "PIG001"))

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
