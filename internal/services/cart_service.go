package services

import (
	"context"
	"errors"
	"log"
	"time"

	"checkout/internal/models"
	"checkout/internal/repositories"
)

// CartService handles cart reads and mutations for the owning buyer.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Snapshot reads the owner's cart joined with live product data and totals it.
// An empty cart is returned as an empty snapshot, not an error.
func (s *CartService) Snapshot(ctx context.Context, ownerID string) (*models.CartSnapshot, error) {
	lines, err := s.cartRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dataAccess("read cart", err)
	}

	snapshot := &models.CartSnapshot{
		OwnerID:    ownerID,
		Items:      make([]models.CartSnapshotLine, 0, len(lines)),
		CapturedAt: time.Now(),
	}
	for _, line := range lines {
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				log.Printf("Cart item %s of %s references missing product %s, skipping", line.ID, ownerID, line.ProductID)
				continue
			}
			return nil, dataAccess("read product", err)
		}
		item := models.CartSnapshotLine{CartLine: line, Product: *product}
		snapshot.Items = append(snapshot.Items, item)
		snapshot.TotalItems += item.Quantity
		snapshot.TotalPrice += item.Subtotal()
	}
	return snapshot, nil
}

// AddItem puts quantity units of a product in the cart, merging into an existing line.
func (s *CartService) AddItem(ctx context.Context, ownerID, productID string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, dataAccess("read product", err)
	}
	if !product.IsActive {
		return nil, &ProductUnavailableError{ProductID: product.ID, ProductName: product.Name}
	}

	merged, err := s.mergeInto(ctx, ownerID, productID, quantity)
	if err != nil {
		return nil, err
	}
	if merged != nil {
		return merged, nil
	}

	line := &models.CartLine{OwnerID: ownerID, ProductID: productID, Quantity: quantity}
	if err := s.cartRepo.Create(ctx, line); err != nil {
		// a concurrent add may have inserted the line first; the unique index rejected ours
		merged, mergeErr := s.mergeInto(ctx, ownerID, productID, quantity)
		if mergeErr != nil {
			return nil, mergeErr
		}
		if merged != nil {
			return merged, nil
		}
		return nil, dataAccess("add cart item", err)
	}
	return line, nil
}

// mergeInto adds quantity to the existing line for the product. It returns (nil, nil) when there is none.
func (s *CartService) mergeInto(ctx context.Context, ownerID, productID string, quantity int) (*models.CartLine, error) {
	existing, err := s.cartRepo.GetByProduct(ctx, ownerID, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, dataAccess("read cart item", err)
	}
	newQuantity := existing.Quantity + quantity
	if err := s.cartRepo.UpdateQuantity(ctx, existing.ID, ownerID, newQuantity); err != nil {
		return nil, dataAccess("update cart item", err)
	}
	existing.Quantity = newQuantity
	return existing, nil
}

// UpdateItem sets the quantity of one of the owner's lines.
func (s *CartService) UpdateItem(ctx context.Context, ownerID, lineID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if err := s.cartRepo.UpdateQuantity(ctx, lineID, ownerID, quantity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return dataAccess("update cart item", err)
	}
	return nil
}

// RemoveItem deletes one of the owner's lines.
func (s *CartService) RemoveItem(ctx context.Context, ownerID, lineID string) error {
	if err := s.cartRepo.Delete(ctx, lineID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return dataAccess("remove cart item", err)
	}
	return nil
}

// ItemCount returns the number of distinct lines in the cart.
func (s *CartService) ItemCount(ctx context.Context, ownerID string) (int64, error) {
	count, err := s.cartRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, dataAccess("count cart items", err)
	}
	return count, nil
}

// Clear deletes every line of the owner's cart.
func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if err := s.cartRepo.DeleteByOwner(ctx, ownerID); err != nil {
		return dataAccess("clear cart", err)
	}
	return nil
}
