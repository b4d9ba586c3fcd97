package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"checkout/internal/models"
	"checkout/internal/services"
	"checkout/pkg/gateway"

	"github.com/stretchr/testify/assert"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		code     string
		noDetail bool
	}{
		{name: "unauthenticated", err: services.ErrUnauthenticated, status: http.StatusUnauthorized},
		{name: "empty cart", err: services.ErrEmptyCart, status: http.StatusBadRequest},
		{name: "insufficient stock", err: &services.InsufficientStockError{ProductName: "Mug", Requested: 3, Available: 1}, status: http.StatusConflict, code: "INSUFFICIENT_STOCK"},
		{name: "order not found", err: fmt.Errorf("read: %w", services.ErrOrderNotFound), status: http.StatusNotFound},
		{name: "order in progress", err: services.ErrOrderInProgress, status: http.StatusConflict, code: "ORDER_IN_PROGRESS"},
		{name: "orphaned order", err: &services.OrderCreationError{OrderID: "o1", Orphaned: true, Err: errors.New("pq: relation order_items does not exist")}, status: http.StatusInternalServerError, noDetail: true},
		{name: "amount mismatch", err: &services.AmountMismatchError{Expected: 4500, Presented: 100}, status: http.StatusBadRequest, code: "AMOUNT_MISMATCH"},
		{name: "already finalized", err: &services.OrderAlreadyFinalizedError{OrderID: "o1", Status: models.OrderStatusConfirmed}, status: http.StatusConflict, code: "ORDER_ALREADY_FINALIZED"},
		{name: "gateway not configured", err: services.ErrGatewayNotConfigured, status: http.StatusInternalServerError},
		{name: "gateway rejected", err: &gateway.RejectedError{StatusCode: 403, Code: "FORBIDDEN_REQUEST", Message: "no"}, status: http.StatusForbidden, code: "FORBIDDEN_REQUEST"},
		{name: "gateway unavailable", err: &gateway.UnavailableError{Err: context.DeadlineExceeded}, status: http.StatusBadGateway, code: "GATEWAY_UNAVAILABLE"},
		{name: "data access", err: &services.DataAccessError{Op: "read order", Err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}, status: http.StatusInternalServerError, noDetail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := describeError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			if tt.code != "" {
				assert.Equal(t, tt.code, body["errorCode"])
			}
			if tt.noDetail {
				assert.NotContains(t, body["error"], "pq:")
				assert.NotContains(t, body["error"], "10.0.0.5")
			}
		})
	}
}
