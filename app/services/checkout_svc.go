package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CheckoutState string

const (
	StateCartReview   CheckoutState = "cart_review"
	StateShipping     CheckoutState = "shipping"
	StatePayment      CheckoutState = "payment"
	StateConfirmation CheckoutState = "confirmation"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidState    = errors.New("transition not allowed from current state")
	ErrCheckoutDone    = errors.New("checkout already confirmed")
	ErrPaymentRequired = errors.New("payment has not been confirmed by the processor")
)

// IntentCreator requests a payment-intent from the processor for the given
// user's current cart. PaymentService is the production implementation.
type IntentCreator interface {
	CreateIntent(ctx context.Context, userID string, shipping *models.ShippingInfo) (*PaymentIntentResult, error)
}

var checkoutValidate = validator.New()

// Checkout drives the four-stage checkout flow:
//
//	CART_REVIEW → SHIPPING → PAYMENT → CONFIRMATION
//
// Transitions are strictly linear; "back" steps to the immediate
// predecessor only, and CONFIRMATION is terminal. A failed transition
// leaves the state unchanged so the shopper can retry without losing
// entered data.
type Checkout struct {
	state    CheckoutState
	cart     *Cart
	userID   string
	payments IntentCreator

	shipping     *models.ShippingInfo
	clientSecret string
	amount       decimal.Decimal
}

func NewCheckout(cart *Cart, userID string, payments IntentCreator) *Checkout {
	return &Checkout{
		state:    StateCartReview,
		cart:     cart,
		userID:   userID,
		payments: payments,
	}
}

func (co *Checkout) State() CheckoutState { return co.state }

// Shipping returns the captured shipping snapshot, nil until the shipping
// step has been completed.
func (co *Checkout) Shipping() *models.ShippingInfo { return co.shipping }

func (co *Checkout) ClientSecret() string { return co.clientSecret }

// Subtotal, ShippingCost and Total feed the review screens; the same
// calc.OrderTotal rule later feeds the payment-intent amount.
func (co *Checkout) Subtotal() decimal.Decimal { return co.cart.TotalPrice() }

func (co *Checkout) ShippingCost() decimal.Decimal { return calc.ShippingCost(co.cart.TotalPrice()) }

func (co *Checkout) Total() decimal.Decimal { return calc.OrderTotal(co.cart.TotalPrice()) }

// ProceedToShipping leaves cart review. An empty cart blocks progress.
func (co *Checkout) ProceedToShipping() error {
	if co.state != StateCartReview {
		return ErrInvalidState
	}
	if co.cart.IsEmpty() {
		return ErrEmptyCart
	}
	co.state = StateShipping
	return nil
}

// SubmitShipping validates the shipping form and, on success, requests a
// payment-intent for the shipping-adjusted cart total. Validation or
// processor failure aborts the transition with the state unchanged.
func (co *Checkout) SubmitShipping(ctx context.Context, shipping models.ShippingInfo) error {
	if co.state != StateShipping {
		return ErrInvalidState
	}

	if err := checkoutValidate.Struct(shipping); err != nil {
		return fmt.Errorf("shipping details invalid: %w", err)
	}

	result, err := co.payments.CreateIntent(ctx, co.userID, &shipping)
	if err != nil {
		return err
	}

	co.shipping = &shipping
	co.clientSecret = result.ClientSecret
	co.amount = result.Amount
	co.state = StatePayment
	return nil
}

// ConfirmPayment moves to confirmation once the processor has reported
// success, then clears the cart. A failed confirmation keeps the flow in
// the payment step for retry.
func (co *Checkout) ConfirmPayment(succeeded bool) error {
	if co.state != StatePayment {
		return ErrInvalidState
	}
	if !succeeded {
		return ErrPaymentRequired
	}
	co.state = StateConfirmation
	co.cart.Clear()
	return nil
}

// Back steps to the immediately preceding state. Confirmation is terminal
// and cart review has no predecessor.
func (co *Checkout) Back() error {
	switch co.state {
	case StatePayment:
		co.state = StateShipping
		return nil
	case StateShipping:
		co.state = StateCartReview
		return nil
	case StateConfirmation:
		return ErrCheckoutDone
	default:
		return ErrInvalidState
	}
}
