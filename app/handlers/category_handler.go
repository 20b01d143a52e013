package handlers

import (
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render       *render.Render
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewCategoryHandler(r *render.Render, categoryRepo repositories.CategoryRepositoryImpl) *CategoryHandler {
	return &CategoryHandler{render: r, categoryRepo: categoryRepo}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("CategoryHandler.List: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	category, err := h.categoryRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		log.Printf("CategoryHandler.GetBySlug: failed to load %s: %v", slug, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load category")
		return
	}
	if category == nil {
		message(h.render, w, http.StatusNotFound, "Category not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, category)
}
