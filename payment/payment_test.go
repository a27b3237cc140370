package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayAuthorize(t *testing.T) {
	// Arrange
	g := NewMockGateway()
	g.now = func() time.Time { return time.UnixMilli(1718000000000) }

	// Act
	res, err := g.Authorize(context.Background(), decimal.RequireFromString("2459.00"), "")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pi_mock_1718000000000", res.ID)
	assert.True(t, strings.HasPrefix(res.ClientSecret, "pi_mock_1718000000000_secret_"))
	assert.Len(t, strings.TrimPrefix(res.ClientSecret, "pi_mock_1718000000000_secret_"), 9)
	assert.Equal(t, "inr", res.Currency)
	assert.Equal(t, "requires_payment_method", res.Status)
	assert.True(t, res.Amount.Equal(decimal.RequireFromString("2459")))
}

func TestMockGatewayRejectsZero(t *testing.T) {
	_, err := NewMockGateway().Authorize(context.Background(), decimal.Zero, "usd")

	assert.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	testCases := []struct {
		amount   string
		expected int64
	}{
		{"2459.00", 245900},
		{"0.01", 1},
		{"10.255", 1026},
		{"99", 9900},
	}

	for _, tc := range testCases {
		t.Run(tc.amount, func(t *testing.T) {
			assert.Equal(t, tc.expected, MinorUnits(decimal.RequireFromString(tc.amount)))
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "inr", NormalizeCurrency("  "))
	assert.Equal(t, "usd", NormalizeCurrency("USD"))
}
