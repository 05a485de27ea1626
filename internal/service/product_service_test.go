package service

import (
	"context"
	"testing"
	"time"

	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) CreateVariant(ctx context.Context, variant *model.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, page, limit int) ([]model.Product, int, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func newProductService(t *testing.T) (ProductService, *MockProductRepository) {
	t.Helper()
	repo := new(MockProductRepository)
	return NewProductService(repo, zerolog.Nop()), repo
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	ctx := context.Background()
	svc, repo := newProductService(t)

	repo.On("CreateProduct", ctx, mock.AnythingOfType("*model.Product")).Return(nil)

	product, err := svc.CreateProduct(ctx, &model.CreateProductRequest{
		CategoryID:  uuid.New(),
		Name:        "Linen Shirt",
		Description: "Breathable summer shirt",
	})

	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", product.Name)
	assert.NotEqual(t, uuid.Nil, product.ID)
	repo.AssertExpectations(t)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newProductService(t)

	_, err := svc.CreateProduct(ctx, &model.CreateProductRequest{CategoryID: uuid.New()})
	require.Error(t, err)

	_, err = svc.CreateProduct(ctx, &model.CreateProductRequest{Name: "No category"})
	require.Error(t, err)

	repo.AssertNotCalled(t, "CreateProduct")
}

func TestProductService_CreateVariant_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	svc, repo := newProductService(t)

	productID := uuid.New()
	repo.On("GetByID", ctx, productID).Return(nil, nil)

	_, err := svc.CreateVariant(ctx, productID, &model.CreateVariantRequest{Color: "navy", Size: "M"})

	require.Error(t, err)
	repo.AssertNotCalled(t, "CreateVariant")
}

func TestProductService_List_DefaultsPagination(t *testing.T) {
	ctx := context.Background()
	svc, repo := newProductService(t)

	products := []model.Product{{ID: uuid.New(), Name: "Linen Shirt", CreatedAt: time.Now()}}
	repo.On("List", ctx, 1, 20).Return(products, 1, nil)

	list, err := svc.List(ctx, 0, -5)

	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Len(t, list.Items, 1)
}
