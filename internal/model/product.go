package model

import "time"

// Product represents an item in the catalogue.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	ImageURL      *string   `json:"image_url" db:"image_url"`
	Category      *string   `json:"category" db:"category"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	// Category matches case-insensitively.
	Category string
	// Search matches name, description or category as a case-insensitive substring.
	Search string
	Limit  int
	Offset int
}
