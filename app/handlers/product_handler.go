package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/drbijoux/storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ProductHandler struct {
	render      *render.Render
	productRepo repositories.ProductRepositoryImpl
}

func NewProductHandler(r *render.Render, productRepo repositories.ProductRepositoryImpl) *ProductHandler {
	return &ProductHandler{render: r, productRepo: productRepo}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if slug := r.URL.Query().Get("category"); slug != "" {
		products, err := h.productRepo.GetByCategorySlug(r.Context(), slug)
		if err != nil {
			log.Printf("ProductHandler.List: failed to load category %s: %v", slug, err)
			message(h.render, w, http.StatusInternalServerError, "Failed to load products")
			return
		}
		_ = h.render.JSON(w, http.StatusOK, products)
		return
	}

	products, err := h.productRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("ProductHandler.List: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	products, err := h.productRepo.GetByCategorySlug(r.Context(), slug)
	if err != nil {
		log.Printf("ProductHandler.ListByCategory: failed to load category %s: %v", slug, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, err := h.productRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("ProductHandler.Get: failed to load product %s: %v", id, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load product")
		return
	}
	if product == nil {
		message(h.render, w, http.StatusNotFound, "Product not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) BestSellers(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.GetBestSellers(r.Context(), limitParam(r, 8))
	if err != nil {
		log.Printf("ProductHandler.BestSellers: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) New(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.GetNew(r.Context(), limitParam(r, 8))
	if err != nil {
		log.Printf("ProductHandler.New: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
