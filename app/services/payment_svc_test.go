package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func paymentFixture(t *testing.T) (*PaymentService, *repositories.MemoryStore, *models.User) {
	t.Helper()
	store := repositories.NewMemoryStore()
	svc := NewPaymentService(store.Users(), store.CartItems(), store.Orders(), nil, true, "")

	user := &models.User{Email: "shopper@example.com", Password: "secret123"}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return svc, store, user
}

func TestCreateIntentDisabledProcessor(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewPaymentService(store.Users(), store.CartItems(), store.Orders(), nil, false, "")

	_, err := svc.CreateIntent(context.Background(), "user-1", nil)
	require.ErrorIs(t, err, ErrProcessorNotConfigured)
}

func TestCreateIntentUnknownUser(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewPaymentService(store.Users(), store.CartItems(), store.Orders(), nil, true, "")

	_, err := svc.CreateIntent(context.Background(), "no-such-user", nil)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateIntentEmptyCart(t *testing.T) {
	svc, _, user := paymentFixture(t)

	_, err := svc.CreateIntent(context.Background(), user.ID, nil)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestSettleMaterializesOrder(t *testing.T) {
	svc, store, user := paymentFixture(t)
	ctx := context.Background()

	product := seedProduct(t, store, "Pearl Necklace", "120.00")
	cartSvc := NewCartService(store.CartItems(), store.Products())
	_, err := cartSvc.AddItem(ctx, user.ID, product.ID, 2)
	require.NoError(t, err)

	shipping := validShipping()
	require.NoError(t, svc.Settle(ctx, user.ID, "pi_123", decimal.RequireFromString("240.00"), shipping))

	orders, err := store.Orders().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	order := orders[0]
	require.Equal(t, models.OrderStatusPaid, order.Status)
	require.Equal(t, "pi_123", order.StripePaymentIntentID)
	require.True(t, order.Total.Equal(decimal.RequireFromString("240.00")))
	require.Equal(t, shipping, order.Shipping)
	require.Len(t, order.Items, 1)
	require.Equal(t, 2, order.Items[0].Quantity)
	require.True(t, order.Items[0].Price.Equal(product.Price), "item price is snapshotted")

	items, err := store.CartItems().GetByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, items, "cart clears at settlement")
}

func TestSettleIsIdempotentPerIntent(t *testing.T) {
	svc, store, user := paymentFixture(t)
	ctx := context.Background()

	product := seedProduct(t, store, "Gold Ring", "89.00")
	cartSvc := NewCartService(store.CartItems(), store.Products())
	_, err := cartSvc.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	amount := decimal.RequireFromString("99.00")
	require.NoError(t, svc.Settle(ctx, user.ID, "pi_replay", amount, validShipping()))

	// The processor retries the same event; no second order appears.
	require.NoError(t, svc.Settle(ctx, user.ID, "pi_replay", amount, validShipping()))

	orders, err := store.Orders().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestSettleEmptyCartIsNoop(t *testing.T) {
	svc, store, user := paymentFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Settle(ctx, user.ID, "pi_empty", decimal.RequireFromString("10.00"), validShipping()))

	orders, err := store.Orders().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestHandleWebhookWithoutSecretSettles(t *testing.T) {
	svc, store, user := paymentFixture(t)
	ctx := context.Background()

	product := seedProduct(t, store, "Hoops", "45.00")
	cartSvc := NewCartService(store.CartItems(), store.Products())
	_, err := cartSvc.AddItem(ctx, user.ID, product.ID, 1)
	require.NoError(t, err)

	payload := []byte(fmt.Sprintf(`{
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_dev",
				"amount": 5500,
				"metadata": {"user_id": %q}
			}
		}
	}`, user.ID))

	require.NoError(t, svc.HandleWebhook(ctx, payload, ""))

	orders, err := store.Orders().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.True(t, orders[0].Total.Equal(decimal.RequireFromString("55.00")))
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	svc, store, user := paymentFixture(t)
	ctx := context.Background()

	payload := []byte(`{"type": "payment_intent.created", "data": {"object": {"id": "pi_x"}}}`)
	require.NoError(t, svc.HandleWebhook(ctx, payload, ""))

	orders, err := store.Orders().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestHandleWebhookBadSignature(t *testing.T) {
	store := repositories.NewMemoryStore()
	svc := NewPaymentService(store.Users(), store.CartItems(), store.Orders(), nil, true, "whsec_test")

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "bad-signature")
	require.ErrorIs(t, err, ErrInvalidSignature)
}
