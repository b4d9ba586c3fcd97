package repositories

import (
	"context"

	"checkout/internal/models"
)

// OrderRepository defines the interface for order and order line data access.
// Each method is a single store call; there is no enclosing transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	// GetByIDForOwner returns the header only; ErrNotFound when absent or owned by someone else.
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*models.Order, error)
	// ListByOwner returns headers that have at least one line, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Order, error)
	ListLines(ctx context.Context, orderID string) ([]models.OrderLine, error)
	// TransitionStatus sets status to `to` only while it is still `from`.
	TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error
}
