package calc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestShippingCost(t *testing.T) {
	cases := []struct {
		subtotal string
		want     string
	}{
		{"0", "10"},
		{"50", "10"},
		{"99.99", "10"},
		{"100", "0"},
		{"100.01", "0"},
		{"250", "0"},
	}
	for _, tc := range cases {
		subtotal := decimal.RequireFromString(tc.subtotal)
		want := decimal.RequireFromString(tc.want)
		require.True(t, ShippingCost(subtotal).Equal(want), "subtotal %s", tc.subtotal)
	}
}

func TestOrderTotal(t *testing.T) {
	require.True(t, OrderTotal(decimal.RequireFromString("95")).Equal(decimal.RequireFromString("105")))
	require.True(t, OrderTotal(decimal.RequireFromString("100")).Equal(decimal.RequireFromString("100")))
	require.True(t, OrderTotal(decimal.RequireFromString("150")).Equal(decimal.RequireFromString("150")))
}
