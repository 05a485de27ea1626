package receipt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boutique/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSale() *model.Sale {
	return &model.Sale{
		ID:     uuid.New(),
		Number: "SALE-00042",
		Status: model.SaleStatusCompleted,
		Type:   model.SaleTypeSale,
		Items: []model.SaleItem{
			{InventoryID: uuid.New(), Quantity: 2, Amount: 1500},
			{InventoryID: uuid.New(), Quantity: 1, Amount: 750},
		},
		Client: &model.SaleClient{
			Name:  "Jane Doe",
			Email: "jane@example.com",
			Phone: "+250700000001",
		},
	}
}

func TestRender(t *testing.T) {
	sale := testSale()
	at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	body := string(Render(sale, at))

	assert.Contains(t, body, "SALE-00042")
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "2250.00") // 1500 + 750
}

func TestRender_NoClient(t *testing.T) {
	sale := testSale()
	sale.Client = nil

	body := string(Render(sale, time.Now()))

	assert.Contains(t, body, "SALE-00042")
	assert.NotContains(t, body, "Client:")
}

func TestFileStore_Put(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, zerolog.Nop())

	location, err := store.Put(context.Background(), "SALE-00042.txt", []byte("receipt body"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "SALE-00042.txt"), location)

	stored, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "receipt body", string(stored))
}

func TestKey(t *testing.T) {
	sale := testSale()
	assert.Equal(t, "SALE-00042.txt", Key(sale))
}
