package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"boutique/internal/database"
	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and applies
// the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedInventory creates a category, product, variant and one inventory line
// with the given stock and unit price, returning the inventory ID.
func SeedInventory(t *testing.T, pool *pgxpool.Pool, quantity int, price float64) uuid.UUID {
	t.Helper()

	ctx := context.Background()

	categoryID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()
	inventoryID := uuid.New()

	statements := []struct {
		sql  string
		args []any
	}{
		{
			sql:  "INSERT INTO categories (id, name) VALUES ($1, $2)",
			args: []any{categoryID, "Category " + categoryID.String()[:8]},
		},
		{
			sql:  "INSERT INTO products (id, category_id, name, description) VALUES ($1, $2, $3, $4)",
			args: []any{productID, categoryID, "Test Product", "integration fixture"},
		},
		{
			sql:  "INSERT INTO variants (id, product_id, color, size) VALUES ($1, $2, $3, $4)",
			args: []any{variantID, productID, "black", "M"},
		},
		{
			sql:  "INSERT INTO inventories (id, variant_id, quantity, price) VALUES ($1, $2, $3, $4)",
			args: []any{inventoryID, variantID, quantity, price},
		},
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt.sql, stmt.args...); err != nil {
			t.Fatalf("failed to seed inventory: %v", err)
		}
	}

	return inventoryID
}

// SeedDiscount attaches an always-active percentage discount to the inventory
// line.
func SeedDiscount(t *testing.T, pool *pgxpool.Pool, inventoryID uuid.UUID, percentage float64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO discounts (id, inventory_id, percentage, start_date, end_date) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), inventoryID, percentage,
		time.Now().Add(-24*time.Hour), time.Now().Add(24*time.Hour),
	)
	if err != nil {
		t.Fatalf("failed to seed discount: %v", err)
	}
}

// SeedUser inserts a user with the given role and a pre-hashed password,
// returning the user.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email, passwordHash string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		Phone:        "+250700000001",
		PasswordHash: passwordHash,
		Role:         role,
	}

	_, err := pool.Exec(context.Background(),
		"INSERT INTO users (id, name, email, phone, password_hash, role) VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}

	return user
}

// CleanupDB removes all rows from every application table.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"notifications", "cart_items", "sale_clients", "sale_items", "sales",
		"discounts", "inventories", "variants", "products", "categories", "users",
	}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
	if _, err := pool.Exec(ctx, "ALTER SEQUENCE sale_number_seq RESTART WITH 1"); err != nil {
		t.Logf("failed to reset sale number sequence: %v", err)
	}
}
