package handlers

import (
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/repositories"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type ArticleHandler struct {
	render      *render.Render
	articleRepo repositories.ArticleRepositoryImpl
}

func NewArticleHandler(r *render.Render, articleRepo repositories.ArticleRepositoryImpl) *ArticleHandler {
	return &ArticleHandler{render: r, articleRepo: articleRepo}
}

// List returns published articles only; drafts stay behind the admin
// console.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleRepo.GetAll(r.Context(), true)
	if err != nil {
		log.Printf("ArticleHandler.List: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load articles")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, articles)
}

func (h *ArticleHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	article, err := h.articleRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		log.Printf("ArticleHandler.GetBySlug: failed to load %s: %v", slug, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load article")
		return
	}
	if article == nil || !article.Published {
		message(h.render, w, http.StatusNotFound, "Article not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, article)
}
