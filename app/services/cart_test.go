package services

import (
	"context"
	"testing"

	"github.com/drbijoux/storefront/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func line(id, productID, price string, qty int) CartLine {
	return CartLine{
		ID:        id,
		ProductID: productID,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestCartAggregateAddMerges(t *testing.T) {
	cart := NewCart(nil, "")

	cart.AddItem(line("l1", "p1", "40.00", 2))
	cart.AddItem(line("l2", "p1", "40.00", 1))
	cart.AddItem(line("l3", "p2", "15.00", 1))

	require.Len(t, cart.Lines(), 2)
	require.Equal(t, 4, cart.TotalItems())
	require.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("135.00")), "got %s", cart.TotalPrice())
}

func TestCartAggregateTotalsTrackMutations(t *testing.T) {
	cart := NewCart(nil, "")

	cart.AddItem(line("l1", "p1", "40.00", 2))
	cart.AddItem(line("l2", "p2", "15.00", 1))
	require.Equal(t, 3, cart.TotalItems())
	require.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("95.00")))

	cart.UpdateQuantity("l1", 1)
	require.Equal(t, 2, cart.TotalItems())
	require.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("55.00")))

	cart.RemoveItem("l2")
	require.Equal(t, 1, cart.TotalItems())
	require.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("40.00")))

	cart.Clear()
	require.True(t, cart.IsEmpty())
	require.Equal(t, 0, cart.TotalItems())
	require.True(t, cart.TotalPrice().IsZero())
}

func TestCartAggregateInitializeAdoptsServerRows(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewCartService(store.CartItems(), store.Products())
	ctx := context.Background()

	product := seedProduct(t, store, "Signet Ring", "89.00")
	_, err := svc.AddItem(ctx, "user-1", product.ID, 3)
	require.NoError(t, err)

	cart := NewCart(svc, "user-1")
	require.True(t, cart.IsEmpty())

	require.NoError(t, cart.Initialize(ctx))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 3, lines[0].Quantity)
	require.Equal(t, "Signet Ring", lines[0].Name)
	require.True(t, cart.TotalPrice().Equal(decimal.RequireFromString("267.00")))
}
