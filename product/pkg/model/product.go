package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Variant is a purchasable variation of a product with its own price. IDs are
// free-form strings chosen by the catalog admin (sku style).
type Variant struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	Sizes       []string        `json:"sizes"`
	MinQuantity int32           `json:"min_quantity"`
	MaxQuantity int32           `json:"max_quantity"`
	Inventory   int32           `json:"inventory"`
	Status      Status          `json:"status"`
	Variants    []Variant       `json:"variants"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Variant returns the variant with the given id, or nil when the product does
// not carry it.
func (p *Product) Variant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// CategoryCount is one entry of the category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
