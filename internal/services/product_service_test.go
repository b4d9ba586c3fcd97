package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"checkout/internal/models"
	"checkout/internal/repositories"
	"checkout/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expected := []models.Product{
		{ID: "1", Name: "Laptop", Price: 1200000, StockQuantity: 10, IsActive: true},
		{ID: "2", Name: "Mouse", Price: 25000, StockQuantity: 50, IsActive: true},
	}
	mockRepo.On("GetAll", ctx).Return(expected, nil).Once()

	products, err := service.GetAllProducts(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, products)

	mockRepo.On("GetAll", ctx).Return(nil, fmt.Errorf("connection refused")).Once()
	_, err = service.GetAllProducts(ctx)
	var dataErr *services.DataAccessError
	assert.ErrorAs(t, err, &dataErr)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	laptop := &models.Product{ID: "1", Name: "Laptop", Price: 1200000, StockQuantity: 10, IsActive: true}
	mockRepo.On("GetByID", ctx, "1").Return(laptop, nil).Once()
	mockRepo.On("GetByID", ctx, "404").Return(nil, fmt.Errorf("product with ID 404 not found: %w", repositories.ErrNotFound)).Once()
	mockRepo.On("GetByID", ctx, "500").Return(nil, errors.New("timeout")).Once()

	product, err := service.GetProductByID(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, laptop, product)

	_, err = service.GetProductByID(ctx, "404")
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = service.GetProductByID(ctx, "500")
	assert.NotErrorIs(t, err, services.ErrProductNotFound)
	assert.Error(t, err)
}
