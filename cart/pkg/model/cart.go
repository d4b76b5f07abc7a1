package model

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one entry in a session cart. It references either a catalog
// product variant or a gang sheet, never both. Display fields and price are
// snapshotted when the line is created and never re-read from the catalog.
type CartLine struct {
	ID          uuid.UUID         `json:"id"`
	ProductID   *uuid.UUID        `json:"product_id,omitempty"`
	VariantID   string            `json:"variant_id,omitempty"`
	GangSheetID *uuid.UUID        `json:"gang_sheet_id,omitempty"`
	Name        string            `json:"name"`
	Price       decimal.Decimal   `json:"price"`
	Image       string            `json:"image,omitempty"`
	Description string            `json:"description,omitempty"`
	Quantity    int32             `json:"quantity"`
	Options     map[string]string `json:"options,omitempty"`
}

// SameReference reports whether both lines point at the same purchasable
// thing, ignoring options and quantity.
func (l CartLine) SameReference(o CartLine) bool {
	if l.ProductID != nil && o.ProductID != nil {
		return *l.ProductID == *o.ProductID && l.VariantID == o.VariantID
	}
	if l.GangSheetID != nil && o.GangSheetID != nil {
		return *l.GangSheetID == *o.GangSheetID
	}
	return false
}

// Matches is the merge predicate: same reference and structurally equal
// option bags.
func (l CartLine) Matches(o CartLine) bool {
	return l.SameReference(o) && maps.Equal(l.Options, o.Options)
}

func (l CartLine) Clone() CartLine {
	clone := l
	if l.ProductID != nil {
		id := *l.ProductID
		clone.ProductID = &id
	}
	if l.GangSheetID != nil {
		id := *l.GangSheetID
		clone.GangSheetID = &id
	}
	if l.Options != nil {
		clone.Options = maps.Clone(l.Options)
	}
	return clone
}

// Cart is the per-session line list. Version is bumped by the store on every
// successful save; a stale version fails the save.
type Cart struct {
	SessionID string     `json:"session_id"`
	UserID    string     `json:"user_id,omitempty"`
	Lines     []CartLine `json:"items"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewCart(sessionID, userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID: sessionID,
		UserID:    userID,
		Lines:     []CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c Cart) Clone() *Cart {
	clone := c
	clone.Lines = make([]CartLine, len(c.Lines))
	for i, line := range c.Lines {
		clone.Lines[i] = line.Clone()
	}
	return &clone
}

func (c Cart) TotalItems() int32 {
	var n int32
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Totals is the derived pricing summary for a cart.
type Totals struct {
	TotalItems            int32           `json:"total_items"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	Shipping              decimal.Decimal `json:"shipping"`
	Tax                   decimal.Decimal `json:"tax"`
	Total                 decimal.Decimal `json:"total"`
	FreeShippingThreshold decimal.Decimal `json:"free_shipping_threshold"`
	FreeShippingRemaining decimal.Decimal `json:"free_shipping_remaining"`
}
