package request

import (
	"github.com/shopspring/decimal"
)

type Variant struct {
	ID    string          `json:"id"    validate:"required"`
	Title string          `json:"title" validate:"required"`
	Price decimal.Decimal `json:"price" validate:"required"`
}

type CreateProduct struct {
	Name        string          `json:"name"     validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"    validate:"required"`
	Image       string          `json:"image"`
	Images      []string        `json:"images"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	Sizes       []string        `json:"sizes"`
	MinQuantity int32           `json:"min_quantity" validate:"omitempty,gt=0"`
	MaxQuantity int32           `json:"max_quantity" validate:"omitempty,gtefield=MinQuantity"`
	Inventory   int32           `json:"inventory"    validate:"omitempty,gte=0"`
	Variants    []Variant       `json:"variants"     validate:"omitempty,dive"`
}

// UpdateProduct updates only the fields that are set; absent fields keep
// their value. Unknown fields are rejected when the request body is decoded.
type UpdateProduct struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Images      *[]string        `json:"images"`
	Description *string          `json:"description"`
	Features    *[]string        `json:"features"`
	Sizes       *[]string        `json:"sizes"`
	MinQuantity *int32           `json:"min_quantity" validate:"omitempty,gt=0"`
	MaxQuantity *int32           `json:"max_quantity" validate:"omitempty,gt=0"`
	Inventory   *int32           `json:"inventory"    validate:"omitempty,gte=0"`
	Variants    *[]Variant       `json:"variants"     validate:"omitempty,dive"`
}

type FindProducts struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Search   string `json:"search"`
	Skip     int    `json:"skip"  validate:"omitempty,gte=0"`
	Limit    int    `json:"limit" validate:"omitempty,gt=0"`
}
