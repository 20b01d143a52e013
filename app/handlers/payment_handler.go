package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/services"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

// Stripe's documented webhook payload cap.
const maxWebhookBody = 64 * 1024

type PaymentHandler struct {
	render         *render.Render
	paymentService *services.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(r *render.Render, paymentService *services.PaymentService, validator *validator.Validate) *PaymentHandler {
	return &PaymentHandler{render: r, paymentService: paymentService, validator: validator}
}

type CreateIntentForm struct {
	Shipping *models.ShippingInfo `json:"shipping"`
}

// CreateIntent prices the authenticated user's cart and returns the
// processor client secret the storefront needs to collect the card.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())

	var form CreateIntentForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil && err != io.EOF {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if form.Shipping != nil {
		if err := h.validator.Struct(*form.Shipping); err != nil {
			_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
				"message": "Shipping details invalid",
				"errors":  helpers.ValidationErrors(err),
			})
			return
		}
	}

	result, err := h.paymentService.CreateIntent(r.Context(), userID, form.Shipping)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProcessorNotConfigured):
			message(h.render, w, http.StatusServiceUnavailable, "Payments are not configured")
		case errors.Is(err, services.ErrEmptyCart):
			message(h.render, w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, services.ErrUserNotFound):
			message(h.render, w, http.StatusUnauthorized, "Unauthorized")
		default:
			log.Printf("PaymentHandler.CreateIntent: %v", err)
			message(h.render, w, http.StatusInternalServerError, "Failed to create payment intent")
		}
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"clientSecret": result.ClientSecret,
		"amount":       result.Amount,
	})
}

// Webhook receives processor events. Settlement failures return 500 so the
// processor retries; settlement is idempotent so retries are safe.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		message(h.render, w, http.StatusBadRequest, "Failed to read payload")
		return
	}

	err = h.paymentService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			message(h.render, w, http.StatusBadRequest, "Invalid signature")
		case errors.Is(err, services.ErrProcessorNotConfigured):
			message(h.render, w, http.StatusServiceUnavailable, "Payments are not configured")
		default:
			log.Printf("PaymentHandler.Webhook: %v", err)
			message(h.render, w, http.StatusInternalServerError, "Failed to process event")
		}
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]bool{"received": true})
}
