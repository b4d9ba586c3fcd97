package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"checkout/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	lines  map[string][]models.OrderLine
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		lines:  make(map[string][]models.OrderLine),
	}
}

// Create adds a new order header.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	stored := *order
	stored.Lines = nil
	r.orders[order.ID] = stored
	return nil
}

// CreateLines appends lines to their orders.
func (r *MockOrderRepository) CreateLines(_ context.Context, lines []models.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for i := range lines {
		if lines[i].ID == "" {
			lines[i].ID = uuid.New().String()
		}
		lines[i].CreatedAt = now
		r.lines[lines[i].OrderID] = append(r.lines[lines[i].OrderID], lines[i])
	}
	return nil
}

// GetByIDForOwner returns an order header by ID for its owner.
func (r *MockOrderRepository) GetByIDForOwner(_ context.Context, id, ownerID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok || order.OwnerID != ownerID {
		return nil, fmt.Errorf("order with ID %s not found: %w", id, ErrNotFound)
	}
	return &order, nil
}

// ListByOwner returns the owner's orders that have lines, newest first.
func (r *MockOrderRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0)
	for id, order := range r.orders {
		if order.OwnerID != ownerID || len(r.lines[id]) == 0 {
			continue
		}
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// ListLines returns a copy of the order's lines.
func (r *MockOrderRepository) ListLines(_ context.Context, orderID string) ([]models.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]models.OrderLine, len(r.lines[orderID]))
	copy(lines, r.lines[orderID])
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Position < lines[j].Position
	})
	return lines, nil
}

// HeaderCount returns how many order headers the owner has, including those without lines.
func (r *MockOrderRepository) HeaderCount(ownerID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, order := range r.orders {
		if order.OwnerID == ownerID {
			count++
		}
	}
	return count
}

// TransitionStatus updates the status if it still equals from.
func (r *MockOrderRepository) TransitionStatus(_ context.Context, id string, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return fmt.Errorf("order %s is not %s: %w", id, from, ErrStatusConflict)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
