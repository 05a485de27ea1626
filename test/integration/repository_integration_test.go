package integration

import (
	"context"
	"testing"
	"time"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewSaleRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("NextNumber is sequential and gapless within a run", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		first, err := repo.NextNumber(ctx, tx)
		require.NoError(t, err)
		second, err := repo.NextNumber(ctx, tx)
		require.NoError(t, err)

		assert.Equal(t, "SALE-00001", first)
		assert.Equal(t, "SALE-00002", second)
	})

	t.Run("Create and load with items and client", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)

		sale := createSale(t, repo, inventoryID, 3, 3000, &model.SaleClient{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "+250700000001",
		})

		loaded, err := repo.GetByID(ctx, sale.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, sale.Number, loaded.Number)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 3, loaded.Items[0].Quantity)
		assert.InDelta(t, 3000, loaded.Items[0].Amount, 0.001)
		require.NotNil(t, loaded.Client)
		assert.Equal(t, "jane@example.com", loaded.Client.Email)
	})

	t.Run("GetByID returns nil for unknown sale", func(t *testing.T) {
		loaded, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("GetByTransactionRef finds the sale", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)

		sale := createSale(t, repo, inventoryID, 1, 1000, nil)
		require.NoError(t, repo.MarkPaymentPending(ctx, sale.ID, "TXN-INT-1"))

		loaded, err := repo.GetByTransactionRef(ctx, "TXN-INT-1")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, sale.ID, loaded.ID)
		assert.Equal(t, model.SaleStatusPaymentPending, loaded.Status)

		missing, err := repo.GetByTransactionRef(ctx, "TXN-GHOST")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("List filters by status and client email", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 50, 1000)

		createSale(t, repo, inventoryID, 1, 1000, &model.SaleClient{Name: "Jane", Email: "jane@example.com"})
		other := createSale(t, repo, inventoryID, 1, 1000, &model.SaleClient{Name: "Bob", Email: "bob@example.com"})
		require.NoError(t, repo.Cancel(ctx, other.ID, "test"))

		sales, total, err := repo.List(ctx, model.SaleFilter{Status: "PENDING", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, sales, 1)

		sales, total, err = repo.List(ctx, model.SaleFilter{Email: "bob@example.com", Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, other.ID, sales[0].ID)
	})

	t.Run("Cancel is a status mutation, not a delete", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)

		sale := createSale(t, repo, inventoryID, 1, 1000, nil)
		require.NoError(t, repo.Cancel(ctx, sale.ID, "changed my mind"))

		loaded, err := repo.GetByID(ctx, sale.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, model.SaleStatusCancelled, loaded.Status)
		require.NotNil(t, loaded.CancelReason)
		assert.Equal(t, "changed my mind", *loaded.CancelReason)
	})

	t.Run("Refund lifecycle mutations", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)

		sale := createSale(t, repo, inventoryID, 1, 1000, nil)

		require.NoError(t, repo.RequestRefund(ctx, sale.ID, "arrived damaged"))
		loaded, err := repo.GetByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SaleStatusRefundRequested, loaded.Status)

		require.NoError(t, repo.AcceptRefund(ctx, sale.ID, "approved"))
		loaded, err = repo.GetByID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SaleStatusRefunded, loaded.Status)
		require.NotNil(t, loaded.RefundResponse)
		assert.Equal(t, "approved", *loaded.RefundResponse)
	})

	t.Run("Update on unknown sale reports not found", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, uuid.New(), model.SaleStatusCompleted)
		assert.ErrorIs(t, err, model.ErrSaleNotFound)
	})
}

func TestInventoryRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewInventoryRepository(testDB.Pool, logger)
	saleRepo := repository.NewSaleRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("SoldQuantity nets recorded sale items", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)

		sold, err := repo.SoldQuantity(ctx, inventoryID)
		require.NoError(t, err)
		assert.Equal(t, 0, sold)

		createSale(t, saleRepo, inventoryID, 3, 3000, nil)

		sold, err = repo.SoldQuantity(ctx, inventoryID)
		require.NoError(t, err)
		assert.Equal(t, 3, sold)
	})

	t.Run("LockLine loads the line and its sold total", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)
		createSale(t, saleRepo, inventoryID, 2, 2000, nil)

		tx, err := saleRepo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		inv, sold, err := repo.LockLine(ctx, tx, inventoryID)
		require.NoError(t, err)
		require.NotNil(t, inv)
		assert.Equal(t, 5, inv.Quantity)
		assert.Equal(t, 2, sold)
	})

	t.Run("LockLine returns nil for unknown line", func(t *testing.T) {
		tx, err := saleRepo.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		inv, sold, err := repo.LockLine(ctx, tx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, inv)
		assert.Equal(t, 0, sold)
	})

	t.Run("GetByID loads discounts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 5, 1000)
		SeedDiscount(t, testDB.Pool, inventoryID, 25)

		inv, err := repo.GetByID(ctx, inventoryID)
		require.NoError(t, err)
		require.NotNil(t, inv)
		require.Len(t, inv.Discounts, 1)
		assert.InDelta(t, 25, inv.Discounts[0].Percentage, 0.001)
	})
}

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCartRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Upsert merges quantities for the same line", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 10, 1000)
		user := SeedUser(t, testDB.Pool, "buyer@example.com", "hash", model.RoleClient)

		first := &model.CartItem{ID: uuid.New(), UserID: user.ID, InventoryID: inventoryID, Quantity: 2}
		require.NoError(t, repo.Upsert(ctx, first))

		second := &model.CartItem{ID: uuid.New(), UserID: user.ID, InventoryID: inventoryID, Quantity: 3}
		require.NoError(t, repo.Upsert(ctx, second))

		items, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("DeleteByUserEmail clears the user's cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 10, 1000)
		user := SeedUser(t, testDB.Pool, "buyer@example.com", "hash", model.RoleClient)

		item := &model.CartItem{ID: uuid.New(), UserID: user.ID, InventoryID: inventoryID, Quantity: 2}
		require.NoError(t, repo.Upsert(ctx, item))

		require.NoError(t, repo.DeleteByUserEmail(ctx, "buyer@example.com"))

		items, err := repo.ListByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("UpdateQuantity on another user's line reports not found", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		inventoryID := SeedInventory(t, testDB.Pool, 10, 1000)
		owner := SeedUser(t, testDB.Pool, "owner@example.com", "hash", model.RoleClient)
		intruder := SeedUser(t, testDB.Pool, "intruder@example.com", "hash", model.RoleClient)

		item := &model.CartItem{ID: uuid.New(), UserID: owner.ID, InventoryID: inventoryID, Quantity: 2}
		require.NoError(t, repo.Upsert(ctx, item))

		err := repo.UpdateQuantity(ctx, intruder.ID, item.ID, 7)
		assert.ErrorIs(t, err, model.ErrCartItemNotFound)
	})
}

func TestNotificationRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewNotificationRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("CreateBatch then list, mark read", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		user := SeedUser(t, testDB.Pool, "buyer@example.com", "hash", model.RoleClient)

		notifications := []model.Notification{
			{ID: uuid.New(), UserID: user.ID, Title: "Order on its way", Message: "m1", Type: model.NotificationInfo, CreatedAt: time.Now()},
			{ID: uuid.New(), UserID: user.ID, Title: "Order completed", Message: "m2", Type: model.NotificationSuccess, CreatedAt: time.Now()},
		}
		require.NoError(t, repo.CreateBatch(ctx, notifications))

		items, total, err := repo.ListByUser(ctx, user.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, items, 2)
		assert.False(t, items[0].Read)

		require.NoError(t, repo.MarkRead(ctx, user.ID, notifications[0].ID))
		require.NoError(t, repo.MarkAllRead(ctx, user.ID))

		items, _, err = repo.ListByUser(ctx, user.ID, 1, 10)
		require.NoError(t, err)
		for _, n := range items {
			assert.True(t, n.Read)
		}
	})

	t.Run("MarkRead on another user's notification reports not found", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		user := SeedUser(t, testDB.Pool, "buyer@example.com", "hash", model.RoleClient)

		err := repo.MarkRead(ctx, user.ID, uuid.New())
		assert.ErrorIs(t, err, model.ErrNotificationNotFound)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewUserRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Create then fetch by email", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		user := &model.User{
			ID:           uuid.New(),
			Name:         "Jane Doe",
			Email:        "jane@example.com",
			Phone:        "+250700000001",
			PasswordHash: "hash",
			Role:         model.RoleClient,
		}
		require.NoError(t, repo.Create(ctx, user))

		loaded, err := repo.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, user.ID, loaded.ID)
		assert.Equal(t, model.RoleClient, loaded.Role)
	})

	t.Run("GetByEmail returns nil for unknown email", func(t *testing.T) {
		loaded, err := repo.GetByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}

// createSale persists a minimal sale with one item through the transactional
// repository API, the same way the sale service does.
func createSale(t *testing.T, repo repository.SaleRepository, inventoryID uuid.UUID, quantity int, amount float64, client *model.SaleClient) *model.Sale {
	t.Helper()

	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	number, err := repo.NextNumber(ctx, tx)
	require.NoError(t, err)

	sale := &model.Sale{
		ID:            uuid.New(),
		Number:        number,
		Status:        model.SaleStatusPending,
		Type:          model.SaleTypeOrder,
		PaymentMethod: "ONLINE",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, repo.CreateSale(ctx, tx, sale))

	items := []model.SaleItem{{
		ID:          uuid.New(),
		SaleID:      sale.ID,
		InventoryID: inventoryID,
		Quantity:    quantity,
		Amount:      amount,
	}}
	require.NoError(t, repo.CreateSaleItems(ctx, tx, items))

	if client != nil {
		client.ID = uuid.New()
		client.SaleID = sale.ID
		require.NoError(t, repo.CreateSaleClient(ctx, tx, client))
	}

	require.NoError(t, tx.Commit(ctx))
	return sale
}
