package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStock(t *testing.T) {
	inv := Inventory{StockQuantity: 10}

	require.NoError(t, inv.AddStock(5, true))
	assert.Equal(t, 15, inv.StockQuantity)
	assert.NotNil(t, inv.LastRestockDate)
}

func TestAddStock_SansDateReassort(t *testing.T) {
	inv := Inventory{StockQuantity: 10}

	// retour client: le stock remonte mais ce n'est pas un réassort
	require.NoError(t, inv.AddStock(2, false))
	assert.Equal(t, 12, inv.StockQuantity)
	assert.Nil(t, inv.LastRestockDate)
}

func TestAddStock_QuantiteNegative(t *testing.T) {
	inv := Inventory{StockQuantity: 10}

	err := inv.AddStock(-1, true)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
	assert.Equal(t, 10, inv.StockQuantity)
}

func TestRemoveStock(t *testing.T) {
	inv := Inventory{StockQuantity: 10}

	require.NoError(t, inv.RemoveStock(4))
	assert.Equal(t, 6, inv.StockQuantity)
	assert.NotNil(t, inv.LastSoldDate)
}

func TestRemoveStock_Insuffisant(t *testing.T) {
	inv := Inventory{StockQuantity: 3}

	err := inv.RemoveStock(5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	// aucun état partiel
	assert.Equal(t, 3, inv.StockQuantity)
	assert.Nil(t, inv.LastSoldDate)
}

func TestSetStock(t *testing.T) {
	inv := Inventory{StockQuantity: 10}

	// diminution: pas de date de réassort
	require.NoError(t, inv.SetStock(5))
	assert.Equal(t, 5, inv.StockQuantity)
	assert.Nil(t, inv.LastRestockDate)

	// augmentation: date de réassort mise à jour
	require.NoError(t, inv.SetStock(20))
	assert.Equal(t, 20, inv.StockQuantity)
	assert.NotNil(t, inv.LastRestockDate)

	assert.ErrorIs(t, inv.SetStock(-1), ErrNegativeQuantity)
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		min      int
		expected string
	}{
		{"épuisé", 0, 5, StockStatusOut},
		{"négatif traité comme épuisé", -2, 5, StockStatusOut},
		{"faible au seuil exact", 5, 5, StockStatusLow},
		{"moyen", 8, 5, StockStatusMedium},
		{"moyen au double exact", 10, 5, StockStatusMedium},
		{"élevé", 11, 5, StockStatusHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Inventory{StockQuantity: tt.quantity, MinStockLevel: tt.min}
			assert.Equal(t, tt.expected, inv.StockStatus())
		})
	}
}

func TestIsLowStock(t *testing.T) {
	assert.True(t, Inventory{StockQuantity: 3, MinStockLevel: 5}.IsLowStock())
	// épuisé n'est pas "faible"
	assert.False(t, Inventory{StockQuantity: 0, MinStockLevel: 5}.IsLowStock())
	assert.False(t, Inventory{StockQuantity: 10, MinStockLevel: 5}.IsLowStock())
}

func TestDaysSinceRestock(t *testing.T) {
	inv := Inventory{}
	assert.Nil(t, inv.DaysSinceRestock())
	assert.Nil(t, inv.DaysSinceSale())

	past := time.Now().Add(-47 * time.Hour)
	inv.LastRestockDate = &past

	days := inv.DaysSinceRestock()
	require.NotNil(t, days)
	assert.Equal(t, 2, *days)
}

func TestSoftDeleteActivate(t *testing.T) {
	inv := Inventory{Status: StatusActive}

	inv.SoftDelete()
	assert.Equal(t, StatusArchived, inv.Status)
	assert.False(t, inv.IsActive())

	inv.Activate()
	assert.Equal(t, StatusActive, inv.Status)
	assert.True(t, inv.IsActive())
}
