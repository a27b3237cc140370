// Package pricing derives order totals from line items. The same function
// backs the cart view, guest quotes, payment intents and persisted orders, so
// displayed and stored totals cannot drift apart.
package pricing

import (
	"github.com/shopspring/decimal"
)

var (
	// FreeShippingThreshold is exclusive: a subtotal must exceed it.
	FreeShippingThreshold = decimal.NewFromInt(2999)
	FlatShippingFee       = decimal.NewFromInt(99)
	// GSTRate is a flat 18% applied to the subtotal only.
	GSTRate = decimal.RequireFromString("0.18")
)

// Line is a priced quantity of one product.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total is the line total, unit price times quantity.
func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Summary struct {
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// Calculate computes subtotal, shipping, tax and total. Tax is rounded
// half-up to two decimal places.
func Calculate(lines []Line) Summary {
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
		count += l.Quantity
	}

	shipping := FlatShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(GSTRate).Round(2)

	return Summary{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       tax,
		Total:     subtotal.Add(shipping).Add(tax),
		ItemCount: count,
	}
}
