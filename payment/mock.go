package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockGateway issues fake intents without contacting a provider.
type MockGateway struct {
	now func() time.Time
}

func NewMockGateway() *MockGateway {
	return &MockGateway{now: time.Now}
}

func (g *MockGateway) Authorize(ctx context.Context, amount decimal.Decimal, currency string) (*Result, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount.StringFixed(2))
	}
	id := fmt.Sprintf("pi_mock_%d", g.now().UnixMilli())
	secret := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return &Result{
		ID:           id,
		ClientSecret: id + "_secret_" + secret,
		Amount:       amount,
		Currency:     NormalizeCurrency(currency),
		Status:       "requires_payment_method",
	}, nil
}
