package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one inventory line held in a user's cart.
type CartItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"-" db:"user_id"`
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id"`
	Quantity    int       `json:"quantity" db:"quantity"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// AddToCartRequest represents the payload for adding an item to the cart.
type AddToCartRequest struct {
	InventoryID uuid.UUID `json:"inventoryId"`
	Quantity    int       `json:"quantity"`
}

// UpdateCartItemRequest represents the payload for changing a cart quantity.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
