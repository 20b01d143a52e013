package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/drbijoux/storefront/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

// AdminHandler backs the admin console: catalog curation, order fulfilment,
// customer lists and the blog. Every route sits behind the admin
// middleware.
type AdminHandler struct {
	render         *render.Render
	productRepo    repositories.ProductRepositoryImpl
	orderRepo      repositories.OrderRepositoryImpl
	userRepo       repositories.UserRepositoryImpl
	articleRepo    repositories.ArticleRepositoryImpl
	newsletterRepo repositories.NewsletterRepositoryImpl
	catalogSync    *services.CatalogSyncService
}

func NewAdminHandler(
	r *render.Render,
	productRepo repositories.ProductRepositoryImpl,
	orderRepo repositories.OrderRepositoryImpl,
	userRepo repositories.UserRepositoryImpl,
	articleRepo repositories.ArticleRepositoryImpl,
	newsletterRepo repositories.NewsletterRepositoryImpl,
	catalogSync *services.CatalogSyncService,
) *AdminHandler {
	return &AdminHandler{
		render:         r,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
		userRepo:       userRepo,
		articleRepo:    articleRepo,
		newsletterRepo: newsletterRepo,
		catalogSync:    catalogSync,
	}
}

func (h *AdminHandler) message(w http.ResponseWriter, status int, msg string) {
	_ = h.render.JSON(w, status, map[string]string{"message": msg})
}

// Products

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("AdminHandler.ListProducts: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to load products")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, products)
}

// UpdateProductMetadata patches the locally-owned merchandising flags and
// category assignment. Name, description and price stay under catalog sync
// control.
func (h *AdminHandler) UpdateProductMetadata(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var update models.ProductMetadataUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	product, err := h.productRepo.UpdateMetadata(r.Context(), id, update)
	if err != nil {
		log.Printf("AdminHandler.UpdateProductMetadata: failed to update %s: %v", id, err)
		h.message(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	if product == nil {
		h.message(w, http.StatusNotFound, "Product not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, product)
}

// SyncProducts pulls the processor catalog into the local store.
func (h *AdminHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogSync.Sync(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrProcessorNotConfigured) {
			h.message(w, http.StatusServiceUnavailable, "Payments are not configured")
			return
		}
		log.Printf("AdminHandler.SyncProducts: %v", err)
		h.message(w, http.StatusInternalServerError, "Catalog sync failed")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, result)
}

// Orders

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("AdminHandler.ListOrders: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, orders)
}

type UpdateOrderStatusForm struct {
	Status models.OrderStatus `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var form UpdateOrderStatusForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	switch form.Status {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusShipped:
	default:
		h.message(w, http.StatusBadRequest, "Invalid order status")
		return
	}

	order, err := h.orderRepo.UpdateStatus(r.Context(), id, form.Status)
	if err != nil {
		log.Printf("AdminHandler.UpdateOrderStatus: failed to update %s: %v", id, err)
		h.message(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if order == nil {
		h.message(w, http.StatusNotFound, "Order not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, order)
}

// Customers

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("AdminHandler.ListUsers: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to load users")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.newsletterRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("AdminHandler.ListSubscribers: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to load subscribers")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, subscribers)
}

// Blog

func (h *AdminHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleRepo.GetAll(r.Context(), false)
	if err != nil {
		log.Printf("AdminHandler.ListArticles: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to load articles")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, articles)
}

type ArticleForm struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
}

func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var form ArticleForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if form.Title == "" || form.Slug == "" {
		h.message(w, http.StatusBadRequest, "Title and slug are required")
		return
	}

	article := &models.Article{
		Title:    form.Title,
		Slug:     form.Slug,
		Content:  form.Content,
		AuthorID: helpers.UserID(r.Context()),
	}
	if err := h.articleRepo.Create(r.Context(), article); err != nil {
		if err == repositories.ErrDuplicateSlug {
			h.message(w, http.StatusBadRequest, "Slug is already in use")
			return
		}
		log.Printf("AdminHandler.CreateArticle: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to create article")
		return
	}
	_ = h.render.JSON(w, http.StatusCreated, article)
}

func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	article, err := h.articleRepo.GetByID(r.Context(), id)
	if err != nil {
		log.Printf("AdminHandler.UpdateArticle: failed to load %s: %v", id, err)
		h.message(w, http.StatusInternalServerError, "Failed to update article")
		return
	}
	if article == nil {
		h.message(w, http.StatusNotFound, "Article not found")
		return
	}

	var form ArticleForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if form.Title != "" {
		article.Title = form.Title
	}
	if form.Slug != "" {
		article.Slug = form.Slug
	}
	if form.Content != "" {
		article.Content = form.Content
	}

	if err := h.articleRepo.Update(r.Context(), article); err != nil {
		if err == repositories.ErrDuplicateSlug {
			h.message(w, http.StatusBadRequest, "Slug is already in use")
			return
		}
		log.Printf("AdminHandler.UpdateArticle: %v", err)
		h.message(w, http.StatusInternalServerError, "Failed to update article")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, article)
}

func (h *AdminHandler) PublishArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	article, err := h.articleRepo.Publish(r.Context(), id)
	if err != nil {
		log.Printf("AdminHandler.PublishArticle: failed to publish %s: %v", id, err)
		h.message(w, http.StatusInternalServerError, "Failed to publish article")
		return
	}
	if article == nil {
		h.message(w, http.StatusNotFound, "Article not found")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, article)
}
