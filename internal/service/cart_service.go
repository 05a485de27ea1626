package service

import (
	"context"
	"fmt"
	"time"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	logger        zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(cartRepo repository.CartRepository, inventoryRepo repository.InventoryRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger.With().Str("service", "cart").Logger(),
	}
}

// Add puts an inventory line in the user's cart, merging quantities when the
// line is already present. The cart holds intent only: stock is validated at
// order time, not here.
func (s *cartService) Add(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error) {
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	inv, err := s.inventoryRepo.GetByID(ctx, req.InventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if inv == nil {
		return nil, model.ErrInventoryNotFound
	}

	now := time.Now()
	item := &model.CartItem{
		ID:          uuid.New(),
		UserID:      userID,
		InventoryID: req.InventoryID,
		Quantity:    req.Quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	return item, nil
}

// UpdateQuantity replaces the quantity of a cart line.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}
	return s.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity)
}

// Remove deletes a cart line.
func (s *cartService) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, userID, itemID)
}

// List retrieves the user's cart lines.
func (s *cartService) List(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	items, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return items, nil
}
