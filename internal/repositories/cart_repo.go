package repositories

import (
	"context"

	"checkout/internal/models"
)

// CartRepository defines the interface for cart line data access. Every query is scoped to an owner.
type CartRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.CartLine, error)
	GetByID(ctx context.Context, id, ownerID string) (*models.CartLine, error)
	GetByProduct(ctx context.Context, ownerID, productID string) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, id, ownerID string, quantity int) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
