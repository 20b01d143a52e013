package handlers

import (
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render    *render.Render
	orderRepo repositories.OrderRepositoryImpl
}

func NewOrderHandler(r *render.Render, orderRepo repositories.OrderRepositoryImpl) *OrderHandler {
	return &OrderHandler{render: r, orderRepo: orderRepo}
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	orders, err := h.orderRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("OrderHandler.ListMine: failed to load orders for %s: %v", userID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, orders)
}

// Get returns one of the caller's own orders. Orders held by other users
// answer 404, not 403, so order ids cannot be probed.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	orderID := mux.Vars(r)["id"]

	order, err := h.orderRepo.GetByID(r.Context(), orderID)
	if err != nil {
		log.Printf("OrderHandler.Get: failed to load order %s: %v", orderID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if order == nil || order.UserID == nil || *order.UserID != userID {
		message(h.render, w, http.StatusNotFound, "Order not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, order)
}
