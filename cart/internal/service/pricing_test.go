package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/presmtech/storefront/cart/pkg/model"
)

func cartWith(lines ...model.CartLine) *model.Cart {
	cart := model.NewCart("session", "")
	cart.Lines = lines
	return cart
}

func line(price string, quantity int32) model.CartLine {
	return model.CartLine{
		ID:       uuid.New(),
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name             string
		cart             *model.Cart
		expectedSubtotal string
		expectedShipping string
		expectedTax      string
		expectedTotal    string
	}{
		{
			name:             "given empty cart should charge flat shipping on zero subtotal",
			cart:             cartWith(),
			expectedSubtotal: "0",
			expectedShipping: "9.99",
			expectedTax:      "0",
			expectedTotal:    "9.99",
		},
		{
			name:             "given subtotal below threshold should charge flat shipping",
			cart:             cartWith(line("74.99", 1)),
			expectedSubtotal: "74.99",
			expectedShipping: "9.99",
			expectedTax:      "5.9992",
			expectedTotal:    "90.9792",
		},
		{
			name:             "given subtotal exactly at threshold should ship free",
			cart:             cartWith(line("75.00", 1)),
			expectedSubtotal: "75.00",
			expectedShipping: "0",
			expectedTax:      "6.00",
			expectedTotal:    "81.00",
		},
		{
			name:             "given subtotal above threshold should ship free",
			cart:             cartWith(line("25.00", 2), line("30.00", 1)),
			expectedSubtotal: "80.00",
			expectedShipping: "0",
			expectedTax:      "6.40",
			expectedTotal:    "86.40",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.cart)
			assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString(tt.expectedSubtotal)),
				"subtotal=%s", totals.Subtotal)
			assert.True(t, totals.Shipping.Equal(decimal.RequireFromString(tt.expectedShipping)),
				"shipping=%s", totals.Shipping)
			assert.True(t, totals.Tax.Equal(decimal.RequireFromString(tt.expectedTax)),
				"tax=%s", totals.Tax)
			assert.True(t, totals.Total.Equal(decimal.RequireFromString(tt.expectedTotal)),
				"total=%s", totals.Total)
		})
	}
}

func TestComputeTotalsFreeShippingRemaining(t *testing.T) {
	totals := ComputeTotals(cartWith(line("50.00", 1)))
	assert.True(t, totals.FreeShippingRemaining.Equal(decimal.RequireFromString("25.00")),
		"remaining=%s", totals.FreeShippingRemaining)

	totals = ComputeTotals(cartWith(line("100.00", 1)))
	assert.True(t, totals.FreeShippingRemaining.IsZero(),
		"remaining=%s", totals.FreeShippingRemaining)
}

func TestComputeTotalsRoundFigures(t *testing.T) {
	totals := ComputeTotals(cartWith(line("100.00", 1)))
	assert.True(t, totals.Shipping.IsZero(), "shipping=%s", totals.Shipping)
	assert.True(t, totals.Tax.Equal(decimal.RequireFromString("8.00")),
		"tax=%s", totals.Tax)
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("108.00")),
		"total=%s", totals.Total)
}

func TestComputeTotalsCountsItems(t *testing.T) {
	totals := ComputeTotals(cartWith(line("10.00", 3), line("5.00", 2)))
	assert.Equal(t, int32(5), totals.TotalItems)
}
