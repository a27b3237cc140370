// Package payment creates payment intents for checkout.
package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "inr"

// Result describes a created payment intent.
type Result struct {
	ID           string          `json:"id"`
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
}

// Gateway authorizes an amount with a payment provider.
type Gateway interface {
	Authorize(ctx context.Context, amount decimal.Decimal, currency string) (*Result, error)
}

// NormalizeCurrency lowercases an ISO currency code, falling back to inr.
func NormalizeCurrency(currency string) string {
	c := strings.ToLower(strings.TrimSpace(currency))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// MinorUnits converts an amount to the smallest currency unit (paise, cents).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
