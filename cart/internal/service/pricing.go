package service

import (
	"github.com/shopspring/decimal"

	"github.com/presmtech/storefront/cart/pkg/model"
)

// Fixed business policy carried over from the storefront: free shipping from
// 75.00 (inclusive), flat 9.99 below it, 8% tax on the subtotal.
var (
	freeShippingThreshold = decimal.RequireFromString("75.00")
	flatShippingRate      = decimal.RequireFromString("9.99")
	taxRate               = decimal.RequireFromString("0.08")
)

// ComputeTotals derives the pricing summary for a cart. Pure function, no
// side effects on the cart.
func ComputeTotals(cart *model.Cart) model.Totals {
	subtotal := decimal.Zero
	for _, line := range cart.Lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	shipping := flatShippingRate
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate)
	total := subtotal.Add(shipping).Add(tax)

	remaining := freeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return model.Totals{
		TotalItems:            cart.TotalItems(),
		Subtotal:              subtotal,
		Shipping:              shipping,
		Tax:                   tax,
		Total:                 total,
		FreeShippingThreshold: freeShippingThreshold,
		FreeShippingRemaining: remaining,
	}
}
