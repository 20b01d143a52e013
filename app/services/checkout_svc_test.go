package services

import (
	"context"
	"errors"
	"testing"

	"github.com/drbijoux/storefront/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubIntentCreator struct {
	calls  int
	err    error
	result *PaymentIntentResult
}

func (s *stubIntentCreator) CreateIntent(ctx context.Context, userID string, shipping *models.ShippingInfo) (*PaymentIntentResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func validShipping() models.ShippingInfo {
	return models.ShippingInfo{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Address:    "12 Rue de la Paix",
		City:       "Paris",
		PostalCode: "75002",
		Country:    "FR",
		Phone:      "+33123456789",
	}
}

func checkoutFixture(t *testing.T, payments IntentCreator) *Checkout {
	t.Helper()
	cart := NewCart(nil, "")
	cart.AddItem(line("l1", "p1", "40.00", 2))
	cart.AddItem(line("l2", "p2", "15.00", 1))
	return NewCheckout(cart, "user-1", payments)
}

func TestCheckoutHappyPath(t *testing.T) {
	stub := &stubIntentCreator{result: &PaymentIntentResult{
		ClientSecret: "pi_secret",
		Amount:       decimal.RequireFromString("105.00"),
	}}
	co := checkoutFixture(t, stub)

	require.Equal(t, StateCartReview, co.State())
	require.True(t, co.Subtotal().Equal(decimal.RequireFromString("95.00")))
	require.True(t, co.ShippingCost().Equal(decimal.RequireFromString("10")))
	require.True(t, co.Total().Equal(decimal.RequireFromString("105.00")))

	require.NoError(t, co.ProceedToShipping())
	require.Equal(t, StateShipping, co.State())

	require.NoError(t, co.SubmitShipping(context.Background(), validShipping()))
	require.Equal(t, StatePayment, co.State())
	require.Equal(t, "pi_secret", co.ClientSecret())
	require.Equal(t, 1, stub.calls)

	require.NoError(t, co.ConfirmPayment(true))
	require.Equal(t, StateConfirmation, co.State())
	require.True(t, co.cart.IsEmpty(), "cart clears on confirmation")
}

func TestCheckoutEmptyCartBlocksProgress(t *testing.T) {
	co := NewCheckout(NewCart(nil, ""), "user-1", &stubIntentCreator{})
	require.ErrorIs(t, co.ProceedToShipping(), ErrEmptyCart)
	require.Equal(t, StateCartReview, co.State())
}

func TestCheckoutInvalidShippingKeepsState(t *testing.T) {
	stub := &stubIntentCreator{}
	co := checkoutFixture(t, stub)
	require.NoError(t, co.ProceedToShipping())

	shipping := validShipping()
	shipping.Email = "not-an-email"
	require.Error(t, co.SubmitShipping(context.Background(), shipping))
	require.Equal(t, StateShipping, co.State())
	require.Zero(t, stub.calls, "processor is not called for invalid shipping")
}

func TestCheckoutProcessorFailureKeepsState(t *testing.T) {
	stub := &stubIntentCreator{err: errors.New("processor down")}
	co := checkoutFixture(t, stub)
	require.NoError(t, co.ProceedToShipping())

	require.Error(t, co.SubmitShipping(context.Background(), validShipping()))
	require.Equal(t, StateShipping, co.State())
	require.Empty(t, co.ClientSecret())
}

func TestCheckoutFailedPaymentAllowsRetry(t *testing.T) {
	stub := &stubIntentCreator{result: &PaymentIntentResult{ClientSecret: "pi_secret"}}
	co := checkoutFixture(t, stub)
	require.NoError(t, co.ProceedToShipping())
	require.NoError(t, co.SubmitShipping(context.Background(), validShipping()))

	require.ErrorIs(t, co.ConfirmPayment(false), ErrPaymentRequired)
	require.Equal(t, StatePayment, co.State())
	require.False(t, co.cart.IsEmpty())

	require.NoError(t, co.ConfirmPayment(true))
	require.Equal(t, StateConfirmation, co.State())
}

func TestCheckoutBackTransitions(t *testing.T) {
	stub := &stubIntentCreator{result: &PaymentIntentResult{ClientSecret: "pi_secret"}}
	co := checkoutFixture(t, stub)

	require.ErrorIs(t, co.Back(), ErrInvalidState)

	require.NoError(t, co.ProceedToShipping())
	require.NoError(t, co.Back())
	require.Equal(t, StateCartReview, co.State())

	require.NoError(t, co.ProceedToShipping())
	require.NoError(t, co.SubmitShipping(context.Background(), validShipping()))
	require.NoError(t, co.Back())
	require.Equal(t, StateShipping, co.State())
}

func TestCheckoutConfirmationIsTerminal(t *testing.T) {
	stub := &stubIntentCreator{result: &PaymentIntentResult{ClientSecret: "pi_secret"}}
	co := checkoutFixture(t, stub)
	require.NoError(t, co.ProceedToShipping())
	require.NoError(t, co.SubmitShipping(context.Background(), validShipping()))
	require.NoError(t, co.ConfirmPayment(true))

	require.ErrorIs(t, co.Back(), ErrCheckoutDone)
	require.ErrorIs(t, co.ProceedToShipping(), ErrInvalidState)
	require.ErrorIs(t, co.ConfirmPayment(true), ErrInvalidState)
}

func TestCheckoutOutOfOrderTransitions(t *testing.T) {
	stub := &stubIntentCreator{}
	co := checkoutFixture(t, stub)

	require.ErrorIs(t, co.SubmitShipping(context.Background(), validShipping()), ErrInvalidState)
	require.ErrorIs(t, co.ConfirmPayment(true), ErrInvalidState)
	require.Equal(t, StateCartReview, co.State())
}
