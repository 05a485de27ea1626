package service

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// CreateCategory creates a new category.
	CreateCategory(ctx context.Context, req *model.CreateCategoryRequest) (*model.Category, error)

	// CreateProduct creates a new product under an existing category.
	CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// CreateVariant adds a colour/size variant to an existing product.
	CreateVariant(ctx context.Context, productID uuid.UUID, req *model.CreateVariantRequest) (*model.Variant, error)

	// List retrieves products with pagination.
	List(ctx context.Context, page, limit int) (*model.ProductList, error)

	// GetByID retrieves a single product by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// InventoryService defines operations for inventory lines and their discounts.
type InventoryService interface {
	// Create creates a new inventory line.
	Create(ctx context.Context, req *model.CreateInventoryRequest) (*model.Inventory, error)

	// GetByID retrieves an inventory line with its computed remaining stock.
	// Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.InventoryDetail, error)

	// List retrieves inventory lines with pagination.
	List(ctx context.Context, page, limit int) (*model.InventoryList, error)

	// AddDiscount adds a discount window to an inventory line.
	AddDiscount(ctx context.Context, inventoryID uuid.UUID, req *model.CreateDiscountRequest) (*model.Discount, error)
}

// SaleService defines the sale/order lifecycle operations.
type SaleService interface {
	// CreateSale records an in-person point-of-sale transaction. The sale is
	// created COMPLETED and a receipt is stored as a side effect.
	CreateSale(ctx context.Context, req *model.CreateSaleRequest) (*model.Sale, error)

	// CreateOrder records an online order: the sale is created PENDING, the
	// placing user's cart is cleared, and a payment charge is initiated.
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error)

	// GetByID retrieves a sale by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// List retrieves sales matching the filter.
	List(ctx context.Context, filter model.SaleFilter) (*model.SaleList, error)

	// Cancel cancels the sale with a mandatory reason. The buyer is notified
	// when someone other than the buyer cancelled.
	Cancel(ctx context.Context, id uuid.UUID, reason, actorEmail string) error

	// SetDelivering moves a non-terminal sale to DELIVERING.
	SetDelivering(ctx context.Context, id uuid.UUID) error

	// SetCompleted moves a non-terminal sale to COMPLETED.
	SetCompleted(ctx context.Context, id uuid.UUID) error

	// RequestRefund records the buyer's refund request.
	RequestRefund(ctx context.Context, id uuid.UUID, message string) error

	// CompleteRefund applies the admin decision on a refund request.
	CompleteRefund(ctx context.Context, id uuid.UUID, message string, action model.RefundAction) error
}

// PaymentService initiates charges and reconciles provider callbacks.
type PaymentService interface {
	// Initiate computes the sale's discounted total, charges the client's
	// payment account and stores the returned external reference.
	Initiate(ctx context.Context, saleID uuid.UUID) (string, error)

	// HandleCallback reconciles an asynchronous provider callback onto the
	// sale identified by the external reference.
	HandleCallback(ctx context.Context, externalRef, status string) error
}

// Notifier is the notification sink called from lifecycle transitions.
// Callers treat failures as best-effort: log and move on.
type Notifier interface {
	// Notify persists one notification per target user.
	Notify(ctx context.Context, userIDs []uuid.UUID, title, message string, htmlBody *string, typ model.NotificationType) error
}

// NotificationService defines the user-facing notification operations.
type NotificationService interface {
	Notifier

	// ListForUser retrieves a user's notifications, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID, page, limit int) (*model.NotificationList, error)

	// MarkRead marks one notification of the user as read.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	// MarkAllRead marks all of the user's notifications as read.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// CartService defines cart operations for the authenticated user.
type CartService interface {
	// Add puts an inventory line in the user's cart, merging quantities.
	Add(ctx context.Context, userID uuid.UUID, req *model.AddToCartRequest) (*model.CartItem, error)

	// UpdateQuantity replaces the quantity of a cart line.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	// Remove deletes a cart line.
	Remove(ctx context.Context, userID, itemID uuid.UUID) error

	// List retrieves the user's cart lines.
	List(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
}

// UserService defines account registration and credential login.
type UserService interface {
	// Register creates a new CLIENT account and returns a signed token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and returns a signed token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
}
