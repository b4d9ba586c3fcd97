package repositories

import (
	"context"

	"checkout/internal/models"
)

// ProductRepository defines read access to the catalog. Create exists for seeding only.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}
