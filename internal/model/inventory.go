package model

import (
	"time"

	"github.com/google/uuid"
)

// Inventory is a stocked unit of a product variant with its own declared
// quantity and unit price. Remaining stock is never stored: it is computed by
// netting the declared quantity against all recorded sale-item quantities.
type Inventory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	VariantID uuid.UUID `json:"variantId" db:"variant_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Discounts []Discount `json:"discounts,omitempty" db:"-"`
}

// Discount is a time-windowed percentage markdown on one inventory line.
// The date window is inclusive on both ends; the optional hour bounds narrow
// it to an hour-of-day sub-window.
type Discount struct {
	ID          uuid.UUID `json:"id" db:"id"`
	InventoryID uuid.UUID `json:"inventoryId" db:"inventory_id"`
	Percentage  float64   `json:"percentage" db:"percentage"`
	StartDate   time.Time `json:"startDate" db:"start_date"`
	EndDate     time.Time `json:"endDate" db:"end_date"`
	StartHour   *int      `json:"startHour,omitempty" db:"start_hour"`
	EndHour     *int      `json:"endHour,omitempty" db:"end_hour"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// InventoryDetail is an inventory line together with its computed remaining
// stock. Remaining stock is derived at read time, never stored.
type InventoryDetail struct {
	Inventory
	Available int `json:"available"`
}

// InventoryList is a paginated inventory listing.
type InventoryList struct {
	Items []InventoryDetail `json:"items"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// CreateInventoryRequest represents the payload for creating an inventory line.
type CreateInventoryRequest struct {
	VariantID uuid.UUID `json:"variantId"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// CreateDiscountRequest represents the payload for adding a discount window.
type CreateDiscountRequest struct {
	Percentage float64   `json:"percentage"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	StartHour  *int      `json:"startHour,omitempty"`
	EndHour    *int      `json:"endHour,omitempty"`
}
