package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// ListByOwner returns the owner's cart lines, newest first.
func (r *GORMCartRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return lines, nil
}

func (r *GORMCartRepository) GetByID(ctx context.Context, id, ownerID string) (*models.CartLine, error) {
	return r.first(ctx, "id = ? AND owner_id = ?", id, ownerID)
}

func (r *GORMCartRepository) GetByProduct(ctx context.Context, ownerID, productID string) (*models.CartLine, error) {
	return r.first(ctx, "owner_id = ? AND product_id = ?", ownerID, productID)
}

func (r *GORMCartRepository) first(ctx context.Context, query string, args ...interface{}) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.WithContext(ctx).Where(query, args...).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &line, nil
}

// Create inserts a new cart line. The (owner, product) unique index rejects duplicates.
func (r *GORMCartRepository) Create(ctx context.Context, line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an owned line.
func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, id, ownerID string, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(map[string]interface{}{"quantity": quantity, "updated_at": time.Now()})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes an owned line.
func (r *GORMCartRepository) Delete(ctx context.Context, id, ownerID string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartLine{}, "id = ? AND owner_id = ?", id, ownerID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByOwner empties the owner's cart. An already empty cart is not an error.
func (r *GORMCartRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.CartLine{}, "owner_id = ?", ownerID).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CartLine{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}
