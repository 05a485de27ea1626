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

// inventoryService implements InventoryService.
type inventoryService struct {
	repo   repository.InventoryRepository
	logger zerolog.Logger
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(repo repository.InventoryRepository, logger zerolog.Logger) InventoryService {
	return &inventoryService{
		repo:   repo,
		logger: logger.With().Str("service", "inventory").Logger(),
	}
}

// Create creates a new inventory line.
func (s *inventoryService) Create(ctx context.Context, req *model.CreateInventoryRequest) (*model.Inventory, error) {
	if req.VariantID == uuid.Nil {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Variant id is required")
	}
	if req.Quantity < 0 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Quantity cannot be negative")
	}
	if req.Price <= 0 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Price must be greater than zero")
	}

	now := time.Now()
	inv := &model.Inventory{
		ID:        uuid.New(),
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		Price:     req.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to create inventory line: %w", err)
	}

	s.logger.Info().
		Str("inventory_id", inv.ID.String()).
		Int("quantity", inv.Quantity).
		Msg("inventory line created")

	return inv, nil
}

// GetByID retrieves an inventory line with its computed remaining stock.
func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.InventoryDetail, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory line: %w", err)
	}
	if inv == nil {
		return nil, nil
	}

	sold, err := s.repo.SoldQuantity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory line: %w", err)
	}

	return &model.InventoryDetail{Inventory: *inv, Available: inv.Quantity - sold}, nil
}

// List retrieves inventory lines with pagination, remaining stock included.
func (s *inventoryService) List(ctx context.Context, page, limit int) (*model.InventoryList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	inventories, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory lines: %w", err)
	}

	items := make([]model.InventoryDetail, len(inventories))
	for i, inv := range inventories {
		sold, err := s.repo.SoldQuantity(ctx, inv.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list inventory lines: %w", err)
		}
		items[i] = model.InventoryDetail{Inventory: inv, Available: inv.Quantity - sold}
	}

	return &model.InventoryList{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// AddDiscount adds a discount window to an inventory line.
func (s *inventoryService) AddDiscount(ctx context.Context, inventoryID uuid.UUID, req *model.CreateDiscountRequest) (*model.Discount, error) {
	if req.Percentage < 0 || req.Percentage > 100 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Percentage must be between 0 and 100")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, model.NewDomainError(model.ErrCodeValidation, "End date cannot precede start date")
	}
	if (req.StartHour == nil) != (req.EndHour == nil) {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Start and end hour must be set together")
	}
	if req.StartHour != nil {
		if *req.StartHour < 0 || *req.StartHour > 23 || *req.EndHour < 0 || *req.EndHour > 23 {
			return nil, model.NewDomainError(model.ErrCodeValidation, "Hours must be between 0 and 23")
		}
		if *req.EndHour < *req.StartHour {
			return nil, model.NewDomainError(model.ErrCodeValidation, "End hour cannot precede start hour")
		}
	}

	inv, err := s.repo.GetByID(ctx, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to add discount: %w", err)
	}
	if inv == nil {
		return nil, model.ErrInventoryNotFound
	}

	d := &model.Discount{
		ID:          uuid.New(),
		InventoryID: inventoryID,
		Percentage:  req.Percentage,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartHour:   req.StartHour,
		EndHour:     req.EndHour,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.AddDiscount(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to add discount: %w", err)
	}

	s.logger.Info().
		Str("inventory_id", inventoryID.String()).
		Float64("percentage", d.Percentage).
		Msg("discount added")

	return d, nil
}
