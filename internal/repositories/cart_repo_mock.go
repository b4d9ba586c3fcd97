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

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	lines map[string]models.CartLine
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		lines: make(map[string]models.CartLine),
	}
}

func (r *MockCartRepository) ListByOwner(_ context.Context, ownerID string) ([]models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]models.CartLine, 0)
	for _, line := range r.lines {
		if line.OwnerID == ownerID {
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].CreatedAt.After(lines[j].CreatedAt)
	})
	return lines, nil
}

func (r *MockCartRepository) GetByID(_ context.Context, id, ownerID string) (*models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	line, ok := r.lines[id]
	if !ok || line.OwnerID != ownerID {
		return nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	return &line, nil
}

func (r *MockCartRepository) GetByProduct(_ context.Context, ownerID, productID string) (*models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, line := range r.lines {
		if line.OwnerID == ownerID && line.ProductID == productID {
			return &line, nil
		}
	}
	return nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
}

// Create adds a line, enforcing the same (owner, product) uniqueness as the table.
func (r *MockCartRepository) Create(_ context.Context, line *models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.lines {
		if existing.OwnerID == line.OwnerID && existing.ProductID == line.ProductID {
			return fmt.Errorf("cart item for product %s already exists", line.ProductID)
		}
	}
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	now := time.Now()
	line.CreatedAt = now
	line.UpdatedAt = now
	r.lines[line.ID] = *line
	return nil
}

func (r *MockCartRepository) UpdateQuantity(_ context.Context, id, ownerID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok || line.OwnerID != ownerID {
		return fmt.Errorf("cart item %s not found for update: %w", id, ErrNotFound)
	}
	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	r.lines[id] = line
	return nil
}

func (r *MockCartRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok || line.OwnerID != ownerID {
		return fmt.Errorf("cart item %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.lines, id)
	return nil
}

func (r *MockCartRepository) DeleteByOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, line := range r.lines {
		if line.OwnerID == ownerID {
			delete(r.lines, id)
		}
	}
	return nil
}

func (r *MockCartRepository) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, line := range r.lines {
		if line.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
