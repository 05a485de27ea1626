package service

import (
	"context"
	"testing"

	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (CartService, *MockCartRepository, *MockInventoryRepository) {
	t.Helper()
	cartRepo := new(MockCartRepository)
	invRepo := new(MockInventoryRepository)
	return NewCartService(cartRepo, invRepo, zerolog.Nop()), cartRepo, invRepo
}

func TestCartService_Add_Success(t *testing.T) {
	ctx := context.Background()
	svc, cartRepo, invRepo := newCartService(t)

	userID := uuid.New()
	inventoryID := uuid.New()

	invRepo.On("GetByID", ctx, inventoryID).Return(&model.Inventory{ID: inventoryID, Quantity: 5, Price: 100}, nil)
	cartRepo.On("Upsert", ctx, mock.AnythingOfType("*model.CartItem")).Return(nil)

	item, err := svc.Add(ctx, userID, &model.AddToCartRequest{InventoryID: inventoryID, Quantity: 2})

	require.NoError(t, err)
	assert.Equal(t, userID, item.UserID)
	assert.Equal(t, 2, item.Quantity)
	cartRepo.AssertExpectations(t)
}

func TestCartService_Add_UnknownInventory(t *testing.T) {
	ctx := context.Background()
	svc, cartRepo, invRepo := newCartService(t)

	inventoryID := uuid.New()
	invRepo.On("GetByID", ctx, inventoryID).Return(nil, nil)

	_, err := svc.Add(ctx, uuid.New(), &model.AddToCartRequest{InventoryID: inventoryID, Quantity: 1})

	assert.ErrorIs(t, err, model.ErrInventoryNotFound)
	cartRepo.AssertNotCalled(t, "Upsert")
}

func TestCartService_Add_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc, cartRepo, invRepo := newCartService(t)

	_, err := svc.Add(ctx, uuid.New(), &model.AddToCartRequest{InventoryID: uuid.New(), Quantity: 0})

	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	invRepo.AssertNotCalled(t, "GetByID")
	cartRepo.AssertNotCalled(t, "Upsert")
}

func TestCartService_UpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc, cartRepo, _ := newCartService(t)

	userID := uuid.New()
	itemID := uuid.New()
	cartRepo.On("UpdateQuantity", ctx, userID, itemID, 4).Return(nil)

	require.NoError(t, svc.UpdateQuantity(ctx, userID, itemID, 4))
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, userID, itemID, 0), model.ErrInvalidQuantity)
}

func TestCartService_List(t *testing.T) {
	ctx := context.Background()
	svc, cartRepo, _ := newCartService(t)

	userID := uuid.New()
	items := []model.CartItem{{ID: uuid.New(), UserID: userID, Quantity: 1}}
	cartRepo.On("ListByUser", ctx, userID).Return(items, nil)

	got, err := svc.List(ctx, userID)

	require.NoError(t, err)
	assert.Len(t, got, 1)
}
