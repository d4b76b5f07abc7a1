package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusOrdered    Status = "ordered"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
)

// ValidStatus reports membership in the status set. Transitions are not
// ordered: any status may replace any other.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusOrdered, StatusProcessing, StatusCompleted:
		return true
	}
	return false
}

// DesignSurcharge is the flat per-design-unit price added on top of the
// template base price, independent of design size.
var DesignSurcharge = decimal.RequireFromString("0.50")

// Design is one placed image asset on a gang sheet. Width and Height are
// canvas units derived from the original pixel dimensions at upload time;
// X and Y are assigned by the uploader or by auto-nesting.
type Design struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Src            string  `json:"src"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	OriginalWidth  int     `json:"original_width"`
	OriginalHeight int     `json:"original_height"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       float64 `json:"rotation"`
	Quantity       int32   `json:"quantity"`
}

// GangSheet is one custom print-layout job. Width and Height are the sheet
// dimensions in inches from the template. Version backs optimistic saves.
type GangSheet struct {
	ID           uuid.UUID       `json:"id"`
	UserID       string          `json:"user_id,omitempty"`
	TemplateID   string          `json:"template_id"`
	TemplateName string          `json:"template_name"`
	Width        float64         `json:"width"`
	Height       float64         `json:"height"`
	BasePrice    decimal.Decimal `json:"base_price"`
	Designs      []Design        `json:"designs"`
	Status       Status          `json:"status"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CalculateTotalPrice recomputes and stores the derived total:
// base price + surcharge per design unit. Must be called after every design
// mutation.
func (s *GangSheet) CalculateTotalPrice() decimal.Decimal {
	var designCount int64
	for _, design := range s.Designs {
		designCount += int64(design.Quantity)
	}
	s.TotalPrice = s.BasePrice.Add(DesignSurcharge.Mul(decimal.NewFromInt(designCount)))
	return s.TotalPrice
}

func (s GangSheet) Clone() *GangSheet {
	clone := s
	clone.Designs = make([]Design, len(s.Designs))
	copy(clone.Designs, s.Designs)
	return &clone
}

// Template is a fixed sheet size offering.
type Template struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Price      decimal.Decimal `json:"price"`
	MaxDesigns int             `json:"max_designs"`
}

// Templates returns the sheet sizes the storefront sells.
func Templates() []Template {
	return []Template{
		{
			ID:         "template_12x16",
			Name:       "12x16 Standard Sheet",
			Width:      12,
			Height:     16,
			Price:      decimal.RequireFromString("18.99"),
			MaxDesigns: 50,
		},
		{
			ID:         "template_22x24",
			Name:       "22x24 Large Sheet",
			Width:      22,
			Height:     24,
			Price:      decimal.RequireFromString("45.99"),
			MaxDesigns: 100,
		},
		{
			ID:         "template_8x11",
			Name:       "8.5x11 Small Sheet",
			Width:      8.5,
			Height:     11,
			Price:      decimal.RequireFromString("12.99"),
			MaxDesigns: 25,
		},
	}
}
