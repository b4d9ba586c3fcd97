package services

import "checkout/internal/models"

// StockGuard rejects a cart snapshot that asks for more than the catalog holds.
// The check uses the stock read into the snapshot and reserves nothing.
type StockGuard struct{}

// Check returns the first violation found, in snapshot order, or nil.
func (StockGuard) Check(snapshot *models.CartSnapshot) error {
	for _, item := range snapshot.Items {
		if !item.Product.IsActive {
			return &ProductUnavailableError{ProductID: item.Product.ID, ProductName: item.Product.Name}
		}
		if item.Quantity > item.Product.StockQuantity {
			return &InsufficientStockError{
				ProductID:   item.Product.ID,
				ProductName: item.Product.Name,
				Requested:   item.Quantity,
				Available:   item.Product.StockQuantity,
			}
		}
	}
	return nil
}
