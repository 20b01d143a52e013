package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type WishlistHandler struct {
	render       *render.Render
	wishlistRepo repositories.WishlistRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewWishlistHandler(r *render.Render, wishlistRepo repositories.WishlistRepositoryImpl, productRepo repositories.ProductRepositoryImpl) *WishlistHandler {
	return &WishlistHandler{render: r, wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	items, err := h.wishlistRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("WishlistHandler.List: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}
	if items == nil {
		items = []models.WishlistItem{}
	}
	_ = h.render.JSON(w, http.StatusOK, items)
}

type AddWishlistForm struct {
	ProductID string `json:"productId"`
}

// Add is idempotent: re-adding a wished product returns the existing entry.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())

	var form AddWishlistForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil || form.ProductID == "" {
		message(h.render, w, http.StatusBadRequest, "productId is required")
		return
	}

	product, err := h.productRepo.GetByID(r.Context(), form.ProductID)
	if err != nil {
		log.Printf("WishlistHandler.Add: failed to look up product %s: %v", form.ProductID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	if product == nil {
		message(h.render, w, http.StatusNotFound, "Product not found")
		return
	}

	item, err := h.wishlistRepo.Add(r.Context(), &models.WishlistItem{
		UserID:    userID,
		ProductID: form.ProductID,
	})
	if err != nil {
		log.Printf("WishlistHandler.Add: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	item.Product = product

	_ = h.render.JSON(w, http.StatusCreated, item)
}

func (h *WishlistHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	productID := mux.Vars(r)["productId"]

	wished, err := h.wishlistRepo.Has(r.Context(), userID, productID)
	if err != nil {
		log.Printf("WishlistHandler.Check: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load wishlist")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]bool{"inWishlist": wished})
}

func (h *WishlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	itemID := mux.Vars(r)["id"]

	item, err := h.wishlistRepo.GetByID(r.Context(), itemID)
	if err != nil {
		log.Printf("WishlistHandler.Delete: failed to load item %s: %v", itemID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	if item == nil || item.UserID != userID {
		message(h.render, w, http.StatusNotFound, "Wishlist item not found")
		return
	}

	if err := h.wishlistRepo.Delete(r.Context(), itemID); err != nil {
		log.Printf("WishlistHandler.Delete: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update wishlist")
		return
	}
	message(h.render, w, http.StatusOK, "Removed from wishlist")
}
