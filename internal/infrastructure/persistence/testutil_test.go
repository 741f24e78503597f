package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/haylacafe/backend/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory SQLite database and migrates every
// persistence model into it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.RawIngredientModel{},
		&models.ProcessedIngredientModel{},
		&models.DrinkModel{},
		&models.FixedCostModel{},
		&models.ReceiptModel{},
		&models.ReceiptItemModel{},
		&models.StockEventModel{},
	)
	require.NoError(t, err)

	return db
}
