package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// CreateCategory creates a new category.
func (s *productService) CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Category name is required")
	}

	category := &model.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	if err := s.productRepo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// CreateProduct creates a new product under an existing category.
func (s *productService) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Product name is required")
	}
	if req.CategoryID == uuid.Nil {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Category id is required")
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Msg("product created")

	return product, nil
}

// CreateVariant adds a colour/size variant to an existing product.
func (s *productService) CreateVariant(ctx context.Context, productID uuid.UUID, req *model.CreateVariantRequest) (*model.Variant, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}
	if product == nil {
		return nil, model.NewDomainError(model.ErrCodeNotFound, "Product not found")
	}

	variant := &model.Variant{
		ID:        uuid.New(),
		ProductID: productID,
		Color:     req.Color,
		Size:      req.Size,
		CreatedAt: time.Now(),
	}

	if err := s.productRepo.CreateVariant(ctx, variant); err != nil {
		return nil, fmt.Errorf("failed to create variant: %w", err)
	}

	return variant, nil
}

// List retrieves products with pagination.
func (s *productService) List(ctx context.Context, page, limit int) (*model.ProductList, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	products, total, err := s.productRepo.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &model.ProductList{Items: products, Total: total, Page: page, Limit: limit}, nil
}

// GetByID retrieves a single product by ID. Returns nil when absent.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}
