package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPrices() map[Location]SizePrices {
	return map[Location]SizePrices{
		LocationSGN: {M: decimal.NewFromInt(25000)},
		LocationNTR: {M: decimal.NewFromInt(30000), L: decimal.NewFromInt(35000)},
	}
}

func TestNewDrink(t *testing.T) {
	recipe := []RecipeLine{
		{IngredientCode: "PIG001", Quantity: decimal.NewFromInt(2)},
		{IngredientCode: "RIG005", Quantity: decimal.NewFromInt(30)},
	}

	t.Run("creates drink with valid inputs", func(t *testing.T) {
		drk, err := NewDrink("DRK01", "Cà phê sữa", "Coffee", AllLocations(), recipe, validPrices())

		require.NoError(t, err)
		assert.Equal(t, "DRK01", drk.Code)
		assert.True(t, drk.Enabled)
		assert.True(t, drk.PriceAt(LocationNTR, SizeL).Equal(decimal.NewFromInt(35000)))
		assert.True(t, drk.PriceAt(LocationNTR, SizeS).IsZero())
	})

	t.Run("rejects empty recipe", func(t *testing.T) {
		_, err := NewDrink("DRK02", "Trà đá", "Tea", AllLocations(), nil, validPrices())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one recipe line")
	})

	t.Run("rejects recipe line without ingredient prefix", func(t *testing.T) {
		bad := []RecipeLine{{IngredientCode: "XYZ01", Quantity: decimal.NewFromInt(1)}}
		_, err := NewDrink("DRK03", "Trà đá", "Tea", AllLocations(), bad, validPrices())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no RIG/PIG prefix")
	})

	t.Run("rejects missing price table for a location", func(t *testing.T) {
		prices := map[Location]SizePrices{LocationSGN: {M: decimal.NewFromInt(25000)}}
		_, err := NewDrink("DRK04", "Trà đá", "Tea", AllLocations(), recipe, prices)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no price table")
	})
}
