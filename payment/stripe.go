package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/paymentintent"
)

// StripeGateway creates real PaymentIntents through the Stripe API.
type StripeGateway struct {
	client paymentintent.Client
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{
		client: paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (g *StripeGateway) Authorize(ctx context.Context, amount decimal.Decimal, currency string) (*Result, error) {
	currency = NormalizeCurrency(currency)
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(amount)),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := g.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Result{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       decimal.New(pi.Amount, -2),
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}
