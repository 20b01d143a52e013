package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
)

type NewsletterHandler struct {
	render         *render.Render
	newsletterRepo repositories.NewsletterRepositoryImpl
	validator      *validator.Validate
}

func NewNewsletterHandler(r *render.Render, newsletterRepo repositories.NewsletterRepositoryImpl, validator *validator.Validate) *NewsletterHandler {
	return &NewsletterHandler{render: r, newsletterRepo: newsletterRepo, validator: validator}
}

type SubscribeForm struct {
	Email string `json:"email" validate:"required,email"`
}

// Subscribe is idempotent: an already-subscribed email gets the same
// success answer as a new one.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var form SubscribeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		message(h.render, w, http.StatusBadRequest, "A valid email is required")
		return
	}

	existing, err := h.newsletterRepo.FindByEmail(r.Context(), form.Email)
	if err != nil {
		log.Printf("NewsletterHandler.Subscribe: lookup failed for %s: %v", form.Email, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}
	if existing != nil {
		message(h.render, w, http.StatusOK, "Subscribed")
		return
	}

	if err := h.newsletterRepo.Create(r.Context(), &models.NewsletterSubscriber{Email: form.Email}); err != nil {
		log.Printf("NewsletterHandler.Subscribe: failed to create subscriber: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}
	message(h.render, w, http.StatusCreated, "Subscribed")
}
