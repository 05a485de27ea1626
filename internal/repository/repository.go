package repository

import (
	"context"

	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines data access for the catalogue.
type ProductRepository interface {
	// CreateCategory inserts a new category.
	CreateCategory(ctx context.Context, category *model.Category) error

	// CreateProduct inserts a new product.
	CreateProduct(ctx context.Context, product *model.Product) error

	// CreateVariant inserts a new product variant.
	CreateVariant(ctx context.Context, variant *model.Variant) error

	// List retrieves products with pagination, variants included.
	List(ctx context.Context, page, limit int) ([]model.Product, int, error)

	// GetByID retrieves a single product with its variants.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// InventoryRepository defines data access for inventory lines and their
// discount windows.
type InventoryRepository interface {
	// Create inserts a new inventory line.
	Create(ctx context.Context, inv *model.Inventory) error

	// GetByID retrieves an inventory line with its discounts.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error)

	// List retrieves inventory lines with pagination, discounts included.
	List(ctx context.Context, page, limit int) ([]model.Inventory, int, error)

	// AddDiscount inserts a discount window on an inventory line.
	AddDiscount(ctx context.Context, d *model.Discount) error

	// SoldQuantity sums all recorded sale-item quantities referencing the
	// inventory line, regardless of sale status.
	SoldQuantity(ctx context.Context, id uuid.UUID) (int, error)

	// LockLine loads an inventory line inside the given transaction with a
	// row lock held until commit, together with its total sold quantity.
	// Used to make the availability check and the sale insertion atomic.
	LockLine(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, int, error)
}

// SaleRepository defines data access for sales, their items and client
// snapshots. Creation is transactional: the service begins the transaction,
// the write methods participate in it.
type SaleRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// NextNumber reserves the next sale number from the database sequence.
	NextNumber(ctx context.Context, tx pgx.Tx) (string, error)

	// CreateSale inserts a new sale within the provided transaction.
	CreateSale(ctx context.Context, tx pgx.Tx, sale *model.Sale) error

	// CreateSaleItems inserts the sale's items within the provided transaction.
	CreateSaleItems(ctx context.Context, tx pgx.Tx, items []model.SaleItem) error

	// CreateSaleClient inserts the sale's client snapshot within the provided
	// transaction.
	CreateSaleClient(ctx context.Context, tx pgx.Tx, client *model.SaleClient) error

	// GetByID retrieves a sale with its items and client snapshot.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// GetByTransactionRef retrieves a sale by its external payment reference.
	GetByTransactionRef(ctx context.Context, ref string) (*model.Sale, error)

	// List retrieves sales matching the filter, newest first.
	List(ctx context.Context, filter model.SaleFilter) ([]model.Sale, int, error)

	// UpdateStatus overwrites the sale status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.SaleStatus) error

	// Cancel sets the sale to CANCELLED with the given reason.
	Cancel(ctx context.Context, id uuid.UUID, reason string) error

	// MarkPaymentPending stores the external reference and moves the sale to
	// PAYMENT_PENDING.
	MarkPaymentPending(ctx context.Context, id uuid.UUID, transactionRef string) error

	// RequestRefund sets the sale to REFUND_REQUESTED with the buyer's reason.
	RequestRefund(ctx context.Context, id uuid.UUID, reason string) error

	// AcceptRefund sets the sale to REFUNDED and records the admin response.
	AcceptRefund(ctx context.Context, id uuid.UUID, response string) error

	// RejectRefund records the admin response without changing the status.
	RejectRefund(ctx context.Context, id uuid.UUID, response string) error
}

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by id. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// CartRepository defines data access for cart lines.
type CartRepository interface {
	// Upsert inserts a cart line or adds to the quantity of an existing one.
	Upsert(ctx context.Context, item *model.CartItem) error

	// UpdateQuantity replaces the quantity of a cart line owned by the user.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	// Delete removes a cart line owned by the user.
	Delete(ctx context.Context, userID, itemID uuid.UUID) error

	// ListByUser retrieves all cart lines of a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	// DeleteByUserEmail removes all cart lines of the user with the given
	// email. Used when that user places an order.
	DeleteByUserEmail(ctx context.Context, email string) error
}

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	// CreateBatch inserts notifications for multiple users in one round trip.
	CreateBatch(ctx context.Context, notifications []model.Notification) error

	// ListByUser retrieves a user's notifications, newest first, paginated.
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Notification, int, error)

	// MarkRead marks one notification of the user as read.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	// MarkAllRead marks all unread notifications of the user as read.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
