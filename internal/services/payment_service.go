package services

import (
	"context"
	"errors"
	"log"
	"time"

	"checkout/internal/locks"
	"checkout/internal/metrics"
	"checkout/internal/models"
	"checkout/internal/repositories"
	"checkout/pkg/gateway"
)

const confirmLockTTL = 30 * time.Second

// PaymentGateway authorizes a payment with the external gateway.
type PaymentGateway interface {
	Confirm(ctx context.Context, req gateway.ConfirmRequest) (*gateway.Authorization, error)
}

// ConfirmPaymentRequest is what the buyer's client sends back after the gateway redirect.
type ConfirmPaymentRequest struct {
	PaymentKey string
	OrderID    string
	Amount     int64
}

// PaymentService reconciles an order's status with the gateway's verdict.
// It is the only writer of the confirmed and cancelled statuses.
type PaymentService struct {
	orderRepo repositories.OrderRepository
	gateway   PaymentGateway
	locker    locks.Locker
	publisher EventPublisher
	metrics   *metrics.Metrics
}

// NewPaymentService creates a new PaymentService. A nil gw makes every confirmation fail with
// ErrGatewayNotConfigured; locker, publisher and m may be nil.
func NewPaymentService(orderRepo repositories.OrderRepository, gw PaymentGateway, locker locks.Locker, publisher EventPublisher, m *metrics.Metrics) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		gateway:   gw,
		locker:    locker,
		publisher: publisher,
		metrics:   m,
	}
}

// Confirm validates the order and amount, calls the gateway once and records the outcome.
// Once the gateway has answered, its outcome is returned even if the status write fails.
func (s *PaymentService) Confirm(ctx context.Context, ownerID string, req ConfirmPaymentRequest) (*models.PaymentAuthorization, error) {
	if ownerID == "" {
		return nil, ErrUnauthenticated
	}
	if s.gateway == nil {
		log.Printf("Payment gateway is not configured, cannot confirm order %s", req.OrderID)
		return nil, ErrGatewayNotConfigured
	}

	// at most one gateway call per order at a time
	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, "order:confirm:"+req.OrderID, confirmLockTTL)
		if err != nil {
			if errors.Is(err, locks.ErrLockHeld) {
				s.metrics.PaymentOutcome("in_progress")
				return nil, ErrPaymentInProgress
			}
			return nil, dataAccess("acquire payment lock", err)
		}
		defer release()
	}

	order, err := s.loadPayableOrder(ctx, ownerID, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.Status.IsFinal() {
		s.metrics.PaymentOutcome("already_finalized")
		return nil, &OrderAlreadyFinalizedError{OrderID: order.ID, Status: order.Status}
	}
	if req.Amount != order.TotalAmount {
		log.Printf("Amount mismatch on order %s: presented %d, stored %d", order.ID, req.Amount, order.TotalAmount)
		s.metrics.PaymentOutcome("amount_mismatch")
		return nil, &AmountMismatchError{Expected: order.TotalAmount, Presented: req.Amount}
	}

	auth, err := s.gateway.Confirm(ctx, gateway.ConfirmRequest{
		PaymentKey: req.PaymentKey,
		OrderID:    order.ID,
		Amount:     order.TotalAmount,
	})
	if err != nil {
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			log.Printf("Payment for order %s rejected: %s %s", order.ID, rejected.Code, rejected.Message)
			s.metrics.PaymentOutcome("rejected")
			s.finalize(ctx, order, models.OrderStatusCancelled, models.EventOrderCancelled)
			return nil, err
		}
		// transport failure: the charge may not have happened, leave the order pending for a retry
		log.Printf("Payment gateway unavailable for order %s: %v", order.ID, err)
		s.metrics.PaymentOutcome("unavailable")
		return nil, err
	}

	s.metrics.PaymentOutcome("confirmed")
	s.finalize(ctx, order, models.OrderStatusConfirmed, models.EventOrderConfirmed)

	return &models.PaymentAuthorization{
		PaymentKey: auth.PaymentKey,
		OrderID:    auth.OrderID,
		Amount:     auth.TotalAmount,
		Method:     auth.Method,
		ApprovedAt: auth.ApprovedAt,
	}, nil
}

func (s *PaymentService) loadPayableOrder(ctx context.Context, ownerID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForOwner(ctx, orderID, ownerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, dataAccess("read order", err)
	}
	// a header without lines is an orphan of a failed materialization and must never be charged
	lines, err := s.orderRepo.ListLines(ctx, order.ID)
	if err != nil {
		return nil, dataAccess("read order lines", err)
	}
	if len(lines) == 0 {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// finalize moves a pending order to status. A failed write is an operational alert, not a user error.
func (s *PaymentService) finalize(ctx context.Context, order *models.Order, status models.OrderStatus, eventType string) {
	// the gateway has already answered, so the write must outlive a cancelled request
	writeCtx := context.WithoutCancel(ctx)
	if err := s.orderRepo.TransitionStatus(writeCtx, order.ID, models.OrderStatusPending, status); err != nil {
		s.metrics.StatusDiverged()
		log.Printf("ALERT order status divergence: order=%s owner=%s gateway_outcome=%s err=%v", order.ID, order.OwnerID, status, err)
		return
	}
	order.Status = status
	publishOrderEvent(s.publisher, eventType, order)
}
