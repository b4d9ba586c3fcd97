package services_test

import (
	"context"
	"testing"

	"checkout/internal/models"
	"checkout/internal/repositories"
	"checkout/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService() (*services.CartService, *repositories.MockCartRepository, *repositories.MockProductRepository) {
	carts := repositories.NewMockCartRepository()
	products := repositories.NewMockProductRepository()
	return services.NewCartService(carts, products), carts, products
}

func TestCartService_AddItemMergesExistingLine(t *testing.T) {
	ctx := context.Background()
	service, _, products := newCartService()
	seedProduct(t, products, "p1", 1000, 10)

	first, err := service.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)
	second, err := service.AddItem(ctx, "user-1", "p1", 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	count, err := service.ItemCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCartService_AddItemRejects(t *testing.T) {
	ctx := context.Background()
	service, _, products := newCartService()
	seedProduct(t, products, "p1", 1000, 10)
	require.NoError(t, products.Create(ctx, &models.Product{ID: "retired", Name: "Retired", Price: 500, StockQuantity: 3}))

	_, err := service.AddItem(ctx, "user-1", "p1", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	_, err = service.AddItem(ctx, "user-1", "missing", 1)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = service.AddItem(ctx, "user-1", "retired", 1)
	var unavailable *services.ProductUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestCartService_SnapshotTotals(t *testing.T) {
	ctx := context.Background()
	service, _, products := newCartService()
	seedProduct(t, products, "p1", 1000, 10)
	seedProduct(t, products, "p2", 2500, 10)

	_, err := service.AddItem(ctx, "user-1", "p1", 2)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "user-1", "p2", 1)
	require.NoError(t, err)
	_, err = service.AddItem(ctx, "user-2", "p2", 4)
	require.NoError(t, err)

	snapshot, err := service.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, snapshot.Items, 2)
	assert.Equal(t, 3, snapshot.TotalItems)
	assert.Equal(t, int64(4500), snapshot.TotalPrice)
	assert.False(t, snapshot.CapturedAt.IsZero())
}

func TestCartService_SnapshotOfEmptyCart(t *testing.T) {
	service, _, _ := newCartService()

	snapshot, err := service.Snapshot(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, snapshot.IsEmpty())
	assert.Equal(t, int64(0), snapshot.TotalPrice)
}

func TestCartService_SnapshotSkipsVanishedProducts(t *testing.T) {
	ctx := context.Background()
	service, carts, products := newCartService()
	seedProduct(t, products, "p1", 1000, 10)

	_, err := service.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)
	require.NoError(t, carts.Create(ctx, &models.CartLine{OwnerID: "user-1", ProductID: "gone", Quantity: 2}))

	snapshot, err := service.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, "p1", snapshot.Items[0].Product.ID)
	assert.Equal(t, int64(1000), snapshot.TotalPrice)
}

func TestCartService_UpdateAndRemoveAreOwnerScoped(t *testing.T) {
	ctx := context.Background()
	service, _, products := newCartService()
	seedProduct(t, products, "p1", 1000, 10)

	line, err := service.AddItem(ctx, "user-1", "p1", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, service.UpdateItem(ctx, "user-1", line.ID, 0), services.ErrInvalidQuantity)
	assert.ErrorIs(t, service.UpdateItem(ctx, "user-2", line.ID, 3), services.ErrCartItemNotFound)
	assert.ErrorIs(t, service.RemoveItem(ctx, "user-2", line.ID), services.ErrCartItemNotFound)

	require.NoError(t, service.UpdateItem(ctx, "user-1", line.ID, 4))
	snapshot, err := service.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.TotalItems)

	require.NoError(t, service.RemoveItem(ctx, "user-1", line.ID))
	snapshot, err = service.Snapshot(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, snapshot.IsEmpty())
}
