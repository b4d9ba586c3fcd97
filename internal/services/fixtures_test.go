package services_test

import (
	"context"
	"io"
	"log"
	"os"
	"testing"

	"checkout/internal/models"
	"checkout/internal/repositories"
	"checkout/pkg/gateway"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// MockGateway is a mock implementation of services.PaymentGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Confirm(ctx context.Context, req gateway.ConfirmRequest) (*gateway.Authorization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Authorization), args.Error(1)
}

// faultyOrderRepository injects store failures into the in-memory order repository.
// Like a real store it refuses writes on a cancelled context.
type faultyOrderRepository struct {
	*repositories.MockOrderRepository
	createLinesErr error
	transitionErr  error
}

func (r *faultyOrderRepository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if r.createLinesErr != nil {
		return r.createLinesErr
	}
	return r.MockOrderRepository.CreateLines(ctx, lines)
}

func (r *faultyOrderRepository) TransitionStatus(ctx context.Context, id string, from, to models.OrderStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.transitionErr != nil {
		return r.transitionErr
	}
	return r.MockOrderRepository.TransitionStatus(ctx, id, from, to)
}

// faultyCartRepository injects store failures into the in-memory cart repository.
type faultyCartRepository struct {
	*repositories.MockCartRepository
	deleteByOwnerErr error
}

func (r *faultyCartRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if r.deleteByOwnerErr != nil {
		return r.deleteByOwnerErr
	}
	return r.MockCartRepository.DeleteByOwner(ctx, ownerID)
}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Name:       "Kim Minji",
		Phone:      "010-1234-5678",
		PostalCode: "06236",
		Address:    "123 Teheran-ro, Gangnam-gu",
	}
}

func seedProduct(t *testing.T, repo *repositories.MockProductRepository, id string, price int64, stock int) {
	t.Helper()
	err := repo.Create(context.Background(), &models.Product{
		ID:            id,
		Name:          "Product " + id,
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	})
	if err != nil {
		t.Fatalf("seed product %s: %v", id, err)
	}
}
