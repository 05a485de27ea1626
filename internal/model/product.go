package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products in the catalogue.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Product represents a product in the catalogue.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CategoryID  uuid.UUID `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Variants []Variant `json:"variants,omitempty" db:"-"`
}

// Variant is a concrete colour/size combination of a product. Stock is held
// per variant on its inventory line, not on the product.
type Variant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Color     string    `json:"color" db:"color"`
	Size      string    `json:"size" db:"size"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateCategoryRequest represents the payload for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CreateProductRequest represents the payload for creating a product.
type CreateProductRequest struct {
	CategoryID  uuid.UUID `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// CreateVariantRequest represents the payload for adding a variant.
type CreateVariantRequest struct {
	Color string `json:"color"`
	Size  string `json:"size"`
}

// ProductList is a paginated product listing.
type ProductList struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}
