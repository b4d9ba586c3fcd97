package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"checkout/internal/locks"
	"checkout/internal/metrics"
	"checkout/internal/models"
	"checkout/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const defaultOrderLockTTL = 30 * time.Second

// CreateOrderRequest carries the buyer's input for turning the cart into an order.
type CreateOrderRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	Note            string                 `json:"note" validate:"max=500"`
}

// OrderReceipt is returned once an order has been materialized.
type OrderReceipt struct {
	OrderID     string             `json:"order_id"`
	TotalAmount int64              `json:"total_amount"`
	Status      models.OrderStatus `json:"status"`
}

// OrderService materializes carts into orders and serves order reads.
type OrderService struct {
	orderRepo repositories.OrderRepository
	carts     *CartService
	guard     StockGuard
	locker    locks.Locker
	lockTTL   time.Duration
	publisher EventPublisher
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

// NewOrderService creates a new OrderService. locker, publisher and m may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, carts *CartService, locker locks.Locker, publisher EventPublisher, m *metrics.Metrics) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		carts:     carts,
		locker:    locker,
		lockTTL:   defaultOrderLockTTL,
		publisher: publisher,
		metrics:   m,
		validate:  validator.New(),
	}
}

// SetLockTTL bounds how long one owner's materialization may hold the lock.
func (s *OrderService) SetLockTTL(ttl time.Duration) {
	if ttl > 0 {
		s.lockTTL = ttl
	}
}

// CreateOrder snapshots the cart, checks stock, then writes header, lines and
// cart deletion as three separate store calls, in that order.
func (s *OrderService) CreateOrder(ctx context.Context, ownerID string, req CreateOrderRequest) (*OrderReceipt, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	req.ShippingAddress = NormalizeAddress(req.ShippingAddress)
	req.Note = strings.TrimSpace(req.Note)
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "order:create:"+ownerID, s.lockTTL)
		if err != nil {
			if errors.Is(err, locks.ErrLockHeld) {
				s.metrics.OrderFailed("in_progress")
				return nil, ErrOrderInProgress
			}
			return nil, dataAccess("acquire order lock", err)
		}
		defer release()
	}

	snapshot, err := s.carts.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if snapshot.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if err := s.guard.Check(snapshot); err != nil {
		s.metrics.OrderFailed("stock")
		return nil, err
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		TotalAmount:     snapshot.TotalPrice,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		Note:            req.Note,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		log.Printf("Error creating order header for %s: %v", ownerID, err)
		s.metrics.OrderFailed("header")
		return nil, &OrderCreationError{Err: err}
	}

	lines := make([]models.OrderLine, 0, len(snapshot.Items))
	for i, item := range snapshot.Items {
		lines = append(lines, models.OrderLine{
			OrderID:     order.ID,
			Position:    i,
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Product.Price,
		})
	}
	if err := s.orderRepo.CreateLines(ctx, lines); err != nil {
		s.compensateOrphan(ctx, order, err)
		return nil, &OrderCreationError{OrderID: order.ID, Orphaned: true, Err: err}
	}

	if err := s.carts.Clear(ctx, ownerID); err != nil {
		// the order is complete; leftover cart rows are harmless
		log.Printf("Warning: order %s created but cart of %s not cleared: %v", order.ID, ownerID, err)
		s.metrics.CartClearFailed()
	}

	s.metrics.OrderCreated()
	publishOrderEvent(s.publisher, models.EventOrderCreated, order)
	log.Printf("Order %s created for %s (total %d, %d lines)", order.ID, ownerID, order.TotalAmount, len(lines))

	return &OrderReceipt{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
	}, nil
}

// compensateOrphan cancels a header whose lines could not be written so it can never be paid.
func (s *OrderService) compensateOrphan(ctx context.Context, order *models.Order, cause error) {
	s.metrics.OrderFailed("lines")
	s.metrics.OrderOrphaned()
	log.Printf("ALERT orphaned order: order=%s owner=%s step=insert_lines err=%v", order.ID, order.OwnerID, cause)

	if err := s.orderRepo.TransitionStatus(ctx, order.ID, models.OrderStatusPending, models.OrderStatusCancelled); err != nil {
		log.Printf("ALERT orphaned order not cancelled: order=%s owner=%s err=%v", order.ID, order.OwnerID, err)
	}
}

func (s *OrderService) validateRequest(req CreateOrderRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate order request: %w", err)
	}
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("failed on the '%s' tag", e.Tag())
	}
	return &ValidationError{Fields: fields}
}

// ListOrders returns the owner's orders, newest first. Headers without lines are excluded.
func (s *OrderService) ListOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	orders, err := s.orderRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dataAccess("list orders", err)
	}
	return orders, nil
}

// GetOrder returns an order with its lines. Absent, foreign and orphaned orders all read as ErrOrderNotFound.
func (s *OrderService) GetOrder(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	order, err := s.orderRepo.GetByIDForOwner(ctx, orderID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, dataAccess("read order", err)
	}
	lines, err := s.orderRepo.ListLines(ctx, order.ID)
	if err != nil {
		return nil, dataAccess("read order lines", err)
	}
	if len(lines) == 0 {
		return nil, ErrOrderNotFound
	}
	order.Lines = lines
	return order, nil
}

// NormalizeAddress trims every field and reduces the phone number to digits and a leading '+'.
func NormalizeAddress(a models.ShippingAddress) models.ShippingAddress {
	a.Name = strings.TrimSpace(a.Name)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Address = strings.TrimSpace(a.Address)
	a.AddressDetail = strings.TrimSpace(a.AddressDetail)

	phone := strings.TrimSpace(a.Phone)
	var b strings.Builder
	for i, r := range phone {
		if unicode.IsDigit(r) || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	a.Phone = b.String()
	return a
}
