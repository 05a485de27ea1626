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

// inventoryRepository implements InventoryRepository using PostgreSQL.
type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// Create inserts a new inventory line.
func (r *inventoryRepository) Create(ctx context.Context, inv *model.Inventory) error {
	query := `
		INSERT INTO inventories (id, variant_id, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		inv.ID, inv.VariantID, inv.Quantity, inv.Price, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("inventory_id", inv.ID.String()).
			Msg("failed to create inventory line")
		return fmt.Errorf("failed to create inventory line: %w", err)
	}

	return nil
}

// GetByID retrieves an inventory line with its discounts.
func (r *inventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Inventory, error) {
	var inv model.Inventory
	err := r.pool.QueryRow(ctx, `
		SELECT id, variant_id, quantity, price, created_at, updated_at
		FROM inventories
		WHERE id = $1
	`, id).Scan(&inv.ID, &inv.VariantID, &inv.Quantity, &inv.Price, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("inventory_id", id.String()).Msg("inventory line not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("inventory_id", id.String()).Msg("failed to query inventory line")
		return nil, fmt.Errorf("failed to query inventory line: %w", err)
	}

	discounts, err := r.loadDiscounts(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Discounts = discounts

	return &inv, nil
}

// List retrieves inventory lines with pagination, discounts included.
func (r *inventoryRepository) List(ctx context.Context, page, limit int) ([]model.Inventory, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventories`).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count inventory lines")
		return nil, 0, fmt.Errorf("failed to count inventory lines: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, `
		SELECT id, variant_id, quantity, price, created_at, updated_at
		FROM inventories
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query inventory lines")
		return nil, 0, fmt.Errorf("failed to query inventory lines: %w", err)
	}
	defer rows.Close()

	var inventories []model.Inventory
	for rows.Next() {
		var inv model.Inventory
		if err := rows.Scan(&inv.ID, &inv.VariantID, &inv.Quantity, &inv.Price, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan inventory line: %w", err)
		}
		inventories = append(inventories, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating inventory lines: %w", err)
	}

	for i := range inventories {
		discounts, err := r.loadDiscounts(ctx, inventories[i].ID)
		if err != nil {
			return nil, 0, err
		}
		inventories[i].Discounts = discounts
	}

	return inventories, total, nil
}

// AddDiscount inserts a discount window on an inventory line.
func (r *inventoryRepository) AddDiscount(ctx context.Context, d *model.Discount) error {
	query := `
		INSERT INTO discounts (id, inventory_id, percentage, start_date, end_date, start_hour, end_hour, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		d.ID, d.InventoryID, d.Percentage, d.StartDate, d.EndDate, d.StartHour, d.EndHour, d.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("inventory_id", d.InventoryID.String()).
			Msg("failed to create discount")
		return fmt.Errorf("failed to create discount: %w", err)
	}

	return nil
}

// SoldQuantity sums all recorded sale-item quantities referencing the
// inventory line, regardless of sale status.
func (r *inventoryRepository) SoldQuantity(ctx context.Context, id uuid.UUID) (int, error) {
	var sold int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM sale_items WHERE inventory_id = $1
	`, id).Scan(&sold)
	if err != nil {
		r.logger.Error().Err(err).Str("inventory_id", id.String()).Msg("failed to sum sold quantity")
		return 0, fmt.Errorf("failed to sum sold quantity: %w", err)
	}
	return sold, nil
}

// LockLine loads an inventory line inside the given transaction with a row
// lock held until commit, together with its total sold quantity. The lock
// serialises concurrent availability checks on the same line.
func (r *inventoryRepository) LockLine(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Inventory, int, error) {
	var inv model.Inventory
	err := tx.QueryRow(ctx, `
		SELECT id, variant_id, quantity, price, created_at, updated_at
		FROM inventories
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&inv.ID, &inv.VariantID, &inv.Quantity, &inv.Price, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, 0, nil
		}
		r.logger.Error().Err(err).Str("inventory_id", id.String()).Msg("failed to lock inventory line")
		return nil, 0, fmt.Errorf("failed to lock inventory line: %w", err)
	}

	var sold int
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0) FROM sale_items WHERE inventory_id = $1
	`, id).Scan(&sold)
	if err != nil {
		r.logger.Error().Err(err).Str("inventory_id", id.String()).Msg("failed to sum sold quantity")
		return nil, 0, fmt.Errorf("failed to sum sold quantity: %w", err)
	}

	discounts, err := r.loadDiscounts(ctx, inv.ID)
	if err != nil {
		return nil, 0, err
	}
	inv.Discounts = discounts

	return &inv, sold, nil
}

func (r *inventoryRepository) loadDiscounts(ctx context.Context, inventoryID uuid.UUID) ([]model.Discount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, inventory_id, percentage, start_date, end_date, start_hour, end_hour, created_at
		FROM discounts
		WHERE inventory_id = $1
		ORDER BY created_at
	`, inventoryID)
	if err != nil {
		r.logger.Error().Err(err).Str("inventory_id", inventoryID.String()).Msg("failed to query discounts")
		return nil, fmt.Errorf("failed to query discounts: %w", err)
	}
	defer rows.Close()

	var discounts []model.Discount
	for rows.Next() {
		var d model.Discount
		if err := rows.Scan(&d.ID, &d.InventoryID, &d.Percentage, &d.StartDate, &d.EndDate, &d.StartHour, &d.EndHour, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		discounts = append(discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discounts: %w", err)
	}

	return discounts, nil
}
