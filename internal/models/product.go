package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a catalog product as supplied by the catalog service.
// The core never mutates products; it only filters, sorts and prices them.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating,omitempty"` // 0-5, zero when unrated
	ReviewCount int             `json:"review_count"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// CategoryAll selects every category in a FilterSpec.
const CategoryAll = "All"

// Categories is the fixed set of product categories the storefront knows.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Home & Garden",
	"Sports",
	"Books",
	"Toys",
	"Beauty",
	"Food",
}
