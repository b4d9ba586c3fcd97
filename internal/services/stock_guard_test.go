package services_test

import (
	"testing"

	"checkout/internal/models"
	"checkout/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(lines ...models.CartSnapshotLine) *models.CartSnapshot {
	return &models.CartSnapshot{OwnerID: "user-1", Items: lines}
}

func lineOf(productID string, quantity, stock int, active bool) models.CartSnapshotLine {
	return models.CartSnapshotLine{
		CartLine: models.CartLine{ProductID: productID, Quantity: quantity},
		Product:  models.Product{ID: productID, Name: "Product " + productID, Price: 1000, StockQuantity: stock, IsActive: active},
	}
}

func TestStockGuard_Check(t *testing.T) {
	guard := services.StockGuard{}

	t.Run("within stock", func(t *testing.T) {
		assert.NoError(t, guard.Check(snapshotOf(lineOf("p1", 2, 5, true), lineOf("p2", 1, 1, true))))
	})

	t.Run("exactly the remaining stock", func(t *testing.T) {
		assert.NoError(t, guard.Check(snapshotOf(lineOf("p1", 3, 3, true))))
	})

	t.Run("first short line is reported", func(t *testing.T) {
		err := guard.Check(snapshotOf(lineOf("p1", 1, 5, true), lineOf("p2", 4, 2, true), lineOf("p3", 9, 0, true)))
		var stockErr *services.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "p2", stockErr.ProductID)
		assert.Equal(t, 4, stockErr.Requested)
		assert.Equal(t, 2, stockErr.Available)
	})

	t.Run("inactive product", func(t *testing.T) {
		err := guard.Check(snapshotOf(lineOf("p1", 1, 5, false)))
		var unavailable *services.ProductUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Equal(t, "p1", unavailable.ProductID)
	})
}
