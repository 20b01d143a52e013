package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/drbijoux/storefront/app/utils/calc"
	"github.com/drbijoux/storefront/app/utils/format"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrProcessorNotConfigured = errors.New("payment processor is not configured")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidSignature       = errors.New("webhook signature verification failed")
)

// PaymentIntentResult carries what the storefront needs to finish a charge
// client-side.
type PaymentIntentResult struct {
	ClientSecret string
	Amount       decimal.Decimal
}

// PaymentService handles the two payment entry points: synchronous intent
// creation before the shopper pays, and asynchronous webhook settlement
// after the processor confirms the charge.
type PaymentService struct {
	userRepo     repositories.UserRepositoryImpl
	cartItemRepo repositories.CartItemRepositoryImpl
	orderRepo    repositories.OrderRepositoryImpl
	mailer       *Mailer

	enabled       bool
	webhookSecret string
}

func NewPaymentService(
	userRepo repositories.UserRepositoryImpl,
	cartItemRepo repositories.CartItemRepositoryImpl,
	orderRepo repositories.OrderRepositoryImpl,
	mailer *Mailer,
	enabled bool,
	webhookSecret string,
) *PaymentService {
	return &PaymentService{
		userRepo:      userRepo,
		cartItemRepo:  cartItemRepo,
		orderRepo:     orderRepo,
		mailer:        mailer,
		enabled:       enabled,
		webhookSecret: webhookSecret,
	}
}

// CreateIntent computes the shipping-adjusted charge for the user's current
// cart, lazily provisions a processor customer record, and requests a
// payment-intent. The shipping snapshot travels in the intent metadata so
// settlement can freeze it onto the order.
func (s *PaymentService) CreateIntent(ctx context.Context, userID string, shipping *models.ShippingInfo) (*PaymentIntentResult, error) {
	if !s.enabled {
		return nil, ErrProcessorNotConfigured
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	items, err := s.cartItemRepo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	_, subtotal := CartTotals(items)
	total := calc.OrderTotal(subtotal)

	customerID := user.StripeCustomerID
	if customerID == "" {
		params := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
		}
		if user.Name != "" {
			params.Name = stripe.String(user.Name)
		}
		cust, err := customer.New(params)
		if err != nil {
			return nil, fmt.Errorf("failed to create processor customer: %w", err)
		}
		customerID = cust.ID
		if err := s.userRepo.UpdateStripeCustomerID(ctx, user.ID, customerID); err != nil {
			return nil, fmt.Errorf("failed to store processor customer id: %w", err)
		}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toCents(total)),
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		Customer: stripe.String(customerID),
	}
	params.AddMetadata("user_id", user.ID)
	if shipping != nil {
		if raw, err := json.Marshal(shipping); err == nil {
			params.AddMetadata("shipping", string(raw))
		}
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	log.Printf("PaymentService: created intent %s for user %s, amount %s", intent.ID, user.ID, total.StringFixed(2))
	return &PaymentIntentResult{
		ClientSecret: intent.ClientSecret,
		Amount:       total,
	}, nil
}

// HandleWebhook verifies and dispatches a processor event. Only
// payment_intent.succeeded triggers settlement; every other event type is
// acknowledged so the processor does not retry-storm.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.enabled {
		return ErrProcessorNotConfigured
	}

	var event stripe.Event
	if s.webhookSecret == "" {
		// Only reachable outside production; ValidateProduction refuses to
		// start with an empty webhook secret otherwise.
		log.Println("Warning: PaymentService: STRIPE_WEBHOOK_SECRET not set, skipping signature verification")
		if err := json.Unmarshal(payload, &event); err != nil {
			return fmt.Errorf("failed to parse webhook payload: %w", err)
		}
	} else {
		verified, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
		if err != nil {
			log.Printf("PaymentService: webhook signature verification failed: %v", err)
			return ErrInvalidSignature
		}
		event = verified
	}

	if event.Type != "payment_intent.succeeded" {
		log.Printf("PaymentService: ignoring webhook event type %s", event.Type)
		return nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return fmt.Errorf("failed to parse payment intent from event: %w", err)
	}

	userID := intent.Metadata["user_id"]
	if userID == "" {
		log.Printf("PaymentService: intent %s has no user_id metadata, nothing to settle", intent.ID)
		return nil
	}

	var shipping models.ShippingInfo
	if raw := intent.Metadata["shipping"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &shipping); err != nil {
			log.Printf("PaymentService: intent %s has malformed shipping metadata: %v", intent.ID, err)
		}
	}

	amount := decimal.New(intent.Amount, -2)
	return s.Settle(ctx, userID, intent.ID, amount, shipping)
}

// Settle converts a confirmed payment into a persisted order: one Order row
// snapshotting the total and shipping, one OrderItem per cart line
// snapshotting the product price, and a cleared cart, all in a single
// transaction. Settlement is idempotent per payment-intent id, so a
// replayed event never materializes a second order.
func (s *PaymentService) Settle(ctx context.Context, userID, intentID string, amount decimal.Decimal, shipping models.ShippingInfo) error {
	existing, err := s.orderRepo.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		return fmt.Errorf("failed to check for settled intent: %w", err)
	}
	if existing != nil {
		log.Printf("PaymentService: intent %s already settled as order %s, skipping", intentID, existing.ID)
		return nil
	}

	items, err := s.cartItemRepo.GetByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load cart for settlement: %w", err)
	}
	if len(items) == 0 {
		log.Printf("PaymentService: intent %s succeeded but cart for user %s is empty, nothing to settle", intentID, userID)
		return nil
	}

	order := &models.Order{
		UserID:                &userID,
		StripePaymentIntentID: intentID,
		Status:                models.OrderStatusPaid,
		Total:                 amount,
		Shipping:              shipping,
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		oi := models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			oi.Price = item.Product.Price
		}
		orderItems = append(orderItems, oi)
	}

	if err := s.orderRepo.CreateFromCart(ctx, order, orderItems, userID); err != nil {
		return fmt.Errorf("failed to materialize order for intent %s: %w", intentID, err)
	}

	log.Printf("PaymentService: settled intent %s as order %s (%d items, total %s)", intentID, order.ID, len(orderItems), amount.StringFixed(2))
	s.sendConfirmation(ctx, userID, order.ID, amount)
	return nil
}

// sendConfirmation emails the shopper their order summary. Best-effort: a
// mail failure never rolls back a settled order.
func (s *PaymentService) sendConfirmation(ctx context.Context, userID, orderID string, amount decimal.Decimal) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		return
	}
	body := BuildOrderConfirmationEmailBody(orderID, format.FormatEUR(amount))
	if err := s.mailer.SendHTMLEmail(user.Email, "Your order is confirmed", body); err != nil {
		log.Printf("PaymentService: failed to send confirmation for order %s: %v", orderID, err)
	}
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
