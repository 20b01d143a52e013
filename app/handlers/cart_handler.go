package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/services"
	"github.com/drbijoux/storefront/app/utils/calc"
	"github.com/drbijoux/storefront/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

// CartHandler serves both guests and authenticated shoppers: the owner id is
// the user id when a token is present, otherwise a per-browser guest cart id
// held in a cookie.
type CartHandler struct {
	render      *render.Render
	cartService *services.CartService
	cartSession *sessions.CartSession
}

func NewCartHandler(r *render.Render, cartService *services.CartService, cartSession *sessions.CartSession) *CartHandler {
	return &CartHandler{render: r, cartService: cartService, cartSession: cartSession}
}

type cartResponse struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Shipping   decimal.Decimal   `json:"shipping"`
	Total      decimal.Decimal   `json:"total"`
}

func buildCartResponse(items []models.CartItem) cartResponse {
	totalItems, subtotal := services.CartTotals(items)
	if items == nil {
		items = []models.CartItem{}
	}
	return cartResponse{
		Items:      items,
		TotalItems: totalItems,
		Subtotal:   subtotal,
		Shipping:   calc.ShippingCost(subtotal),
		Total:      calc.OrderTotal(subtotal),
	}
}

func (h *CartHandler) ownerID(w http.ResponseWriter, r *http.Request) (string, error) {
	if userID := helpers.UserID(r.Context()); userID != "" {
		return userID, nil
	}
	return h.cartSession.GetCartID(w, r)
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(w, r)
	if err != nil {
		log.Printf("CartHandler.Get: failed to resolve cart owner: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load cart")
		return
	}

	items, err := h.cartService.GetCart(r.Context(), owner)
	if err != nil {
		log.Printf("CartHandler.Get: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, buildCartResponse(items))
}

type AddCartItemForm struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(w, r)
	if err != nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to resolve cart")
		return
	}

	var form AddCartItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if form.Quantity == 0 {
		form.Quantity = 1
	}

	if _, err := h.cartService.AddItem(r.Context(), owner, form.ProductID, form.Quantity); err != nil {
		h.writeCartError(w, "CartHandler.Add", err)
		return
	}

	h.respondWithCart(w, r, owner)
}

type UpdateCartItemForm struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(w, r)
	if err != nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to resolve cart")
		return
	}

	var form UpdateCartItemForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	itemID := mux.Vars(r)["id"]
	if _, err := h.cartService.UpdateQuantity(r.Context(), owner, itemID, form.Quantity); err != nil {
		h.writeCartError(w, "CartHandler.Update", err)
		return
	}

	h.respondWithCart(w, r, owner)
}

func (h *CartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(w, r)
	if err != nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to resolve cart")
		return
	}

	itemID := mux.Vars(r)["id"]
	if err := h.cartService.RemoveItem(r.Context(), owner, itemID); err != nil {
		h.writeCartError(w, "CartHandler.Delete", err)
		return
	}

	h.respondWithCart(w, r, owner)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerID(w, r)
	if err != nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to resolve cart")
		return
	}

	if err := h.cartService.Clear(r.Context(), owner); err != nil {
		log.Printf("CartHandler.Clear: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	h.respondWithCart(w, r, owner)
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, owner string) {
	items, err := h.cartService.GetCart(r.Context(), owner)
	if err != nil {
		log.Printf("CartHandler: failed to reload cart for %s: %v", owner, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load cart")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, buildCartResponse(items))
}

func (h *CartHandler) writeCartError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		message(h.render, w, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrCartItemNotFound):
		message(h.render, w, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, services.ErrInvalidQuantity):
		message(h.render, w, http.StatusBadRequest, "Quantity must be at least 1")
	default:
		log.Printf("%s: %v", op, err)
		message(h.render, w, http.StatusInternalServerError, "Cart operation failed")
	}
}
