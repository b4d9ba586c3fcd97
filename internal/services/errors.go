package services

import (
	"errors"
	"fmt"
	"strings"

	"checkout/internal/models"
)

var (
	ErrUnauthenticated      = errors.New("authentication required")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderInProgress      = errors.New("an order is already being created for this cart")
	ErrPaymentInProgress    = errors.New("a payment confirmation is already running for this order")
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserExists           = errors.New("user already exists")
)

// ValidationError lists the fields of an input that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, field+": "+reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// InsufficientStockError is returned by the stock guard for the first short line.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested: %d, available: %d)", e.ProductName, e.Requested, e.Available)
}

// ProductUnavailableError is returned when a cart line points at a deactivated product.
type ProductUnavailableError struct {
	ProductID   string
	ProductName string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s is no longer available", e.ProductName)
}

// OrderCreationError reports a failed materialization. When Orphaned is set the
// header OrderID was written without its lines.
type OrderCreationError struct {
	OrderID  string
	Orphaned bool
	Err      error
}

func (e *OrderCreationError) Error() string {
	if e.Orphaned {
		return fmt.Sprintf("order creation failed, order %s left without lines: %v", e.OrderID, e.Err)
	}
	return fmt.Sprintf("order creation failed: %v", e.Err)
}

func (e *OrderCreationError) Unwrap() error { return e.Err }

// AmountMismatchError means the amount presented for payment differs from the stored total.
type AmountMismatchError struct {
	Expected  int64
	Presented int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment amount %d does not match order total %d", e.Presented, e.Expected)
}

// OrderAlreadyFinalizedError is returned when confirming an order that left pending.
type OrderAlreadyFinalizedError struct {
	OrderID string
	Status  models.OrderStatus
}

func (e *OrderAlreadyFinalizedError) Error() string {
	return fmt.Sprintf("order %s is already %s", e.OrderID, e.Status)
}

// DataAccessError wraps an unexpected store failure.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed during %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

func dataAccess(op string, err error) error {
	return &DataAccessError{Op: op, Err: err}
}
