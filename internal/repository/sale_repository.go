package repository

import (
	"context"
	"fmt"

	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// saleRepository implements SaleRepository using PostgreSQL.
type saleRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSaleRepository creates a new PostgreSQL-backed sale repository.
func NewSaleRepository(pool *pgxpool.Pool, logger zerolog.Logger) SaleRepository {
	return &saleRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "sale").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *saleRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// NextNumber reserves the next sale number from the database sequence.
// Sequential creations produce gap-free, strictly increasing numbers;
// concurrent creations cannot collide because the sequence is atomic.
func (r *saleRepository) NextNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var n int64
	if err := tx.QueryRow(ctx, `SELECT nextval('sale_number_seq')`).Scan(&n); err != nil {
		r.logger.Error().Err(err).Msg("failed to reserve sale number")
		return "", fmt.Errorf("failed to reserve sale number: %w", err)
	}
	return fmt.Sprintf("SALE-%05d", n), nil
}

// CreateSale inserts a new sale within the provided transaction.
func (r *saleRepository) CreateSale(ctx context.Context, tx pgx.Tx, sale *model.Sale) error {
	query := `
		INSERT INTO sales (id, number, status, type, payment_method, transaction_ref,
			cancel_reason, refund_reason, refund_response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := tx.Exec(ctx, query,
		sale.ID, sale.Number, sale.Status, sale.Type, sale.PaymentMethod,
		sale.TransactionRef, sale.CancelReason, sale.RefundReason, sale.RefundResponse,
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("sale_id", sale.ID.String()).
			Msg("failed to create sale")
		return fmt.Errorf("failed to create sale: %w", err)
	}

	r.logger.Debug().
		Str("sale_id", sale.ID.String()).
		Str("number", sale.Number).
		Msg("sale created")

	return nil
}

// CreateSaleItems inserts the sale's items within the provided transaction.
func (r *saleRepository) CreateSaleItems(ctx context.Context, tx pgx.Tx, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO sale_items (id, sale_id, inventory_id, quantity, amount)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.SaleID, item.InventoryID, item.Quantity, item.Amount)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("sale_id", items[i].SaleID.String()).
				Str("inventory_id", items[i].InventoryID.String()).
				Msg("failed to create sale item")
			return fmt.Errorf("failed to create sale item: %w", err)
		}
	}

	return nil
}

// CreateSaleClient inserts the sale's client snapshot within the provided transaction.
func (r *saleRepository) CreateSaleClient(ctx context.Context, tx pgx.Tx, client *model.SaleClient) error {
	query := `
		INSERT INTO sale_clients (id, sale_id, name, email, phone, address, city, country, payment_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.Exec(ctx, query,
		client.ID, client.SaleID, client.Name, client.Email, client.Phone,
		client.Address, client.City, client.Country, client.PaymentInfo,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("sale_id", client.SaleID.String()).
			Msg("failed to create sale client")
		return fmt.Errorf("failed to create sale client: %w", err)
	}

	return nil
}

const saleColumns = `id, number, status, type, payment_method, transaction_ref,
	cancel_reason, refund_reason, refund_response, created_at, updated_at`

func scanSale(row pgx.Row) (*model.Sale, error) {
	var sale model.Sale
	err := row.Scan(
		&sale.ID, &sale.Number, &sale.Status, &sale.Type, &sale.PaymentMethod,
		&sale.TransactionRef, &sale.CancelReason, &sale.RefundReason, &sale.RefundResponse,
		&sale.CreatedAt, &sale.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetByID retrieves a sale with its items and client snapshot.
func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("sale_id", id.String()).Msg("sale not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("sale_id", id.String()).Msg("failed to query sale")
		return nil, fmt.Errorf("failed to query sale: %w", err)
	}

	if err := r.loadAssociations(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// GetByTransactionRef retrieves a sale by its external payment reference.
func (r *saleRepository) GetByTransactionRef(ctx context.Context, ref string) (*model.Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE transaction_ref = $1`, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("transaction_ref", ref).Msg("sale not found for reference")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("transaction_ref", ref).Msg("failed to query sale by reference")
		return nil, fmt.Errorf("failed to query sale by reference: %w", err)
	}

	if err := r.loadAssociations(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// loadAssociations populates the sale's items and client snapshot.
func (r *saleRepository) loadAssociations(ctx context.Context, sale *model.Sale) error {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sale_id, inventory_id, quantity, amount
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id
	`, sale.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("sale_id", sale.ID.String()).Msg("failed to query sale items")
		return fmt.Errorf("failed to query sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.InventoryID, &item.Quantity, &item.Amount); err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating sale items: %w", err)
	}

	var client model.SaleClient
	err = r.pool.QueryRow(ctx, `
		SELECT id, sale_id, name, email, phone, address, city, country, payment_info
		FROM sale_clients
		WHERE sale_id = $1
	`, sale.ID).Scan(
		&client.ID, &client.SaleID, &client.Name, &client.Email, &client.Phone,
		&client.Address, &client.City, &client.Country, &client.PaymentInfo,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Point-of-sale records may carry no client snapshot.
			return nil
		}
		return fmt.Errorf("failed to query sale client: %w", err)
	}

	sale.Client = &client
	return nil
}

// List retrieves sales matching the filter, newest first.
func (r *saleRepository) List(ctx context.Context, filter model.SaleFilter) ([]model.Sale, int, error) {
	where := " WHERE 1=1"
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND s.type = $%d", len(args))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM sale_clients sc WHERE sc.sale_id = s.id AND sc.email = $%d)", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales s"+where, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count sales")
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`
		SELECT s.id, s.number, s.status, s.type, s.payment_method, s.transaction_ref,
			s.cancel_reason, s.refund_reason, s.refund_response, s.created_at, s.updated_at
		FROM sales s%s
		ORDER BY s.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query sales")
		return nil, 0, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var sale model.Sale
		err := rows.Scan(
			&sale.ID, &sale.Number, &sale.Status, &sale.Type, &sale.PaymentMethod,
			&sale.TransactionRef, &sale.CancelReason, &sale.RefundReason, &sale.RefundResponse,
			&sale.CreatedAt, &sale.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating sales: %w", err)
	}

	for i := range sales {
		if err := r.loadAssociations(ctx, &sales[i]); err != nil {
			return nil, 0, err
		}
	}

	return sales, total, nil
}

// updateSale runs an UPDATE and maps "no rows touched" to ErrSaleNotFound.
func (r *saleRepository) updateSale(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to update sale")
		return fmt.Errorf("failed to update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSaleNotFound
	}
	return nil
}

// UpdateStatus overwrites the sale status.
func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.SaleStatus) error {
	return r.updateSale(ctx, `
		UPDATE sales SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
}

// Cancel sets the sale to CANCELLED with the given reason.
func (r *saleRepository) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateSale(ctx, `
		UPDATE sales SET status = $2, cancel_reason = $3, updated_at = NOW() WHERE id = $1
	`, id, model.SaleStatusCancelled, reason)
}

// MarkPaymentPending stores the external reference and moves the sale to PAYMENT_PENDING.
func (r *saleRepository) MarkPaymentPending(ctx context.Context, id uuid.UUID, transactionRef string) error {
	return r.updateSale(ctx, `
		UPDATE sales SET status = $2, transaction_ref = $3, updated_at = NOW() WHERE id = $1
	`, id, model.SaleStatusPaymentPending, transactionRef)
}

// RequestRefund sets the sale to REFUND_REQUESTED with the buyer's reason.
func (r *saleRepository) RequestRefund(ctx context.Context, id uuid.UUID, reason string) error {
	return r.updateSale(ctx, `
		UPDATE sales SET status = $2, refund_reason = $3, updated_at = NOW() WHERE id = $1
	`, id, model.SaleStatusRefundRequested, reason)
}

// AcceptRefund sets the sale to REFUNDED and records the admin response.
func (r *saleRepository) AcceptRefund(ctx context.Context, id uuid.UUID, response string) error {
	return r.updateSale(ctx, `
		UPDATE sales SET status = $2, refund_response = $3, updated_at = NOW() WHERE id = $1
	`, id, model.SaleStatusRefunded, response)
}

// RejectRefund records the admin response without changing the status.
func (r *saleRepository) RejectRefund(ctx context.Context, id uuid.UUID, response string) error {
	return r.updateSale(ctx, `
		UPDATE sales SET refund_response = $2, updated_at = NOW() WHERE id = $1
	`, id, response)
}
