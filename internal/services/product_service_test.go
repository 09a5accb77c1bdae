package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"inventory/internal/models"
	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
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

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) SeedIfEmpty(ctx context.Context, products []models.Product) (int, error) {
	args := m.Called(ctx, products)
	return args.Int(0), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(eventType string, body []byte) error {
	args := m.Called(eventType, body)
	return args.Error(0)
}

func newService(repo *MockProductRepository, pub *MockPublisher) *services.ProductService {
	if pub == nil {
		return services.NewProductService(repo, validation.MustNew(), nil)
	}
	return services.NewProductService(repo, validation.MustNew(), pub)
}

func TestProductService_GetAllProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	expectedProducts := []models.Product{
		{ID: 1, Name: "mobile", Price: 4, Quantity: 4},
		{ID: 5, Name: "laptop", Price: 10, Quantity: 2},
	}
	mockRepo.On("GetAll", ctx).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	expectedProduct := &models.Product{ID: 1, Name: "mobile", Price: 4, Quantity: 4}
	mockRepo.On("GetByID", ctx, 1).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", ctx, 99).Return(nil, fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	product, err = service.GetProductByID(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	payload := models.ProductPayload{ID: 10, Name: "tablet", Price: 5, Description: "x", Quantity: 1}
	expected := payload.ToProduct()

	mockRepo.On("Create", ctx, &expected).Return(nil).Once()
	mockPub.On("Publish", models.EventProductCreated, mock.MatchedBy(func(body []byte) bool {
		var event models.ProductEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return false
		}
		return event.ProductID == 10 && event.Product != nil && *event.Product == payload && event.EventID != ""
	})).Return(nil).Once()

	product, err := service.CreateProduct(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, expected, *product)

	// conflict is passed through and nothing is published
	mockRepo.On("Create", ctx, &expected).Return(fmt.Errorf("product with ID 10: %w", repositories.ErrProductConflict)).Once()
	_, err = service.CreateProduct(ctx, payload)
	assert.ErrorIs(t, err, repositories.ErrProductConflict)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_CreateProduct_Invalid(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	invalid := []models.ProductPayload{
		{ID: 11, Name: "admin tools", Price: 5, Description: "x", Quantity: 1},
		{ID: 12, Name: "   ", Price: 5, Quantity: 1},
		{ID: 13, Name: "tablet", Price: 5, Quantity: -1},
		{ID: 14, Name: "tablet", Price: -5, Quantity: 1},
	}
	for _, payload := range invalid {
		_, err := service.CreateProduct(ctx, payload)
		var fieldErr *validation.InvalidFieldError
		assert.True(t, errors.As(err, &fieldErr), "payload %d", payload.ID)
	}

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockPub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestProductService_CreateProduct_PublishFailureIgnored(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockPub.On("Publish", models.EventProductCreated, mock.Anything).Return(errors.New("broker down")).Once()

	product, err := service.CreateProduct(ctx, models.ProductPayload{ID: 3, Name: "charger", Quantity: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, product.ID)
	mockPub.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	// body id differs from the path id; the path id wins
	payload := models.ProductPayload{ID: 77, Name: "mobile pro", Price: 12, Description: "flagship", Quantity: 9}
	expected := &models.Product{ID: 1, Name: "mobile pro", Price: 12, Description: "flagship", Quantity: 9}

	mockRepo.On("Update", ctx, expected).Return(nil).Once()
	mockPub.On("Publish", models.EventProductUpdated, mock.Anything).Return(nil).Once()

	product, err := service.UpdateProduct(ctx, 1, payload)
	require.NoError(t, err)
	assert.Equal(t, expected, product)

	notFound := &models.Product{ID: 99, Name: "mobile pro", Price: 12, Description: "flagship", Quantity: 9}
	mockRepo.On("Update", ctx, notFound).Return(fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	_, err = service.UpdateProduct(ctx, 99, payload)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	_, err = service.UpdateProduct(ctx, 1, models.ProductPayload{Name: "tablet", Quantity: -2})
	var fieldErr *validation.InvalidFieldError
	assert.True(t, errors.As(err, &fieldErr))

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	mockPub := new(MockPublisher)
	service := newService(mockRepo, mockPub)

	mockRepo.On("Delete", ctx, 1).Return(nil).Once()
	mockPub.On("Publish", models.EventProductDeleted, mock.MatchedBy(func(body []byte) bool {
		var event models.ProductEvent
		return json.Unmarshal(body, &event) == nil && event.ProductID == 1 && event.Product == nil
	})).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, 1))

	mockRepo.On("Delete", ctx, 99).Return(fmt.Errorf("product with ID 99: %w", repositories.ErrProductNotFound)).Once()
	err := service.DeleteProduct(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestProductService_SeedProducts(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	seeds := models.DefaultSeedProducts()

	mockRepo.On("Count", ctx).Return(int64(0), nil).Once()
	mockRepo.On("SeedIfEmpty", ctx, mock.MatchedBy(func(products []models.Product) bool {
		return len(products) == 3 && products[0].ID == 1 && products[1].ID == 2 && products[2].ID == 5
	})).Return(3, nil).Once()

	inserted, err := service.SeedProducts(ctx, seeds)
	assert.NoError(t, err)
	assert.Equal(t, 3, inserted)

	mockRepo.On("Count", ctx).Return(int64(3), nil).Once()
	inserted, err = service.SeedProducts(ctx, seeds)
	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)

	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "SeedIfEmpty", 1)
}

func TestProductService_SeedProducts_InvalidSeed(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	service := newService(mockRepo, nil)

	seeds := []models.ProductPayload{
		{ID: 1, Name: "mobile", Quantity: 1},
		{ID: 2, Name: "admin console", Quantity: 1},
	}
	_, err := service.SeedProducts(ctx, seeds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid seed product 2")
	mockRepo.AssertNotCalled(t, "Count", mock.Anything)
	mockRepo.AssertNotCalled(t, "SeedIfEmpty", mock.Anything, mock.Anything)
}
