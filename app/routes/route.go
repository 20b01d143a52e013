package routes

import (
	"net/http"

	"github.com/drbijoux/storefront/app/configs"
	"github.com/drbijoux/storefront/app/handlers"
	adminhandlers "github.com/drbijoux/storefront/app/handlers/admin"
	"github.com/drbijoux/storefront/app/middlewares"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/drbijoux/storefront/app/services"
	"github.com/drbijoux/storefront/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto the HTTP
// surface. The processor flag decides whether payment and sync routes are
// live or answer 503.
func NewRouter(env configs.ENV, db *gorm.DB, stripeEnabled bool) *mux.Router {
	renderer := render.New()
	validate := validator.New()

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)
	newsletterRepo := repositories.NewNewsletterRepository(db)
	articleRepo := repositories.NewArticleRepository(db)

	cartSession := sessions.NewCartSession(env.SessionKey)
	cartService := services.NewCartService(cartItemRepo, productRepo)
	mailer := services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
	})
	paymentService := services.NewPaymentService(userRepo, cartItemRepo, orderRepo, mailer, stripeEnabled, env.StripeWebhookSecret)
	catalogSync := services.NewCatalogSyncService(productRepo, stripeEnabled)

	authHandler := handlers.NewAuthHandler(renderer, userRepo, cartService, cartSession, mailer, validate, env.JWTSecret, env.FrontendURL)
	productHandler := handlers.NewProductHandler(renderer, productRepo)
	categoryHandler := handlers.NewCategoryHandler(renderer, categoryRepo)
	cartHandler := handlers.NewCartHandler(renderer, cartService, cartSession)
	paymentHandler := handlers.NewPaymentHandler(renderer, paymentService, validate)
	orderHandler := handlers.NewOrderHandler(renderer, orderRepo)
	wishlistHandler := handlers.NewWishlistHandler(renderer, wishlistRepo, productRepo)
	newsletterHandler := handlers.NewNewsletterHandler(renderer, newsletterRepo, validate)
	articleHandler := handlers.NewArticleHandler(renderer, articleRepo)
	adminHandler := adminhandlers.NewAdminHandler(renderer, productRepo, orderRepo, userRepo, articleRepo, newsletterRepo, catalogSync)

	requireAuth := middlewares.AuthMiddleware(env.JWTSecret)
	optionalAuth := middlewares.OptionalAuthMiddleware(env.JWTSecret)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public catalog and content.
	api.HandleFunc("/products", productHandler.List).Methods("GET")
	api.HandleFunc("/products/best-sellers", productHandler.BestSellers).Methods("GET")
	api.HandleFunc("/products/new", productHandler.New).Methods("GET")
	api.HandleFunc("/products/{id}", productHandler.Get).Methods("GET")
	api.HandleFunc("/categories", categoryHandler.List).Methods("GET")
	api.HandleFunc("/categories/{slug}", categoryHandler.GetBySlug).Methods("GET")
	api.HandleFunc("/categories/{slug}/products", productHandler.ListByCategory).Methods("GET")
	api.HandleFunc("/articles", articleHandler.List).Methods("GET")
	api.HandleFunc("/articles/{slug}", articleHandler.GetBySlug).Methods("GET")
	api.HandleFunc("/newsletter/subscribe", newsletterHandler.Subscribe).Methods("POST")

	// Auth. Login and register run with optional auth so a guest cart
	// cookie can be merged into the account.
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Handle("/register", optionalAuth(httpHandler(authHandler.Register))).Methods("POST")
	auth.Handle("/login", optionalAuth(httpHandler(authHandler.Login))).Methods("POST")
	auth.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")
	auth.HandleFunc("/reset-password", authHandler.ResetPassword).Methods("POST")
	auth.Handle("/me", requireAuth(httpHandler(authHandler.Me))).Methods("GET")

	// Cart works for guests and shoppers alike.
	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(optionalAuth)
	cart.HandleFunc("", cartHandler.Get).Methods("GET")
	cart.HandleFunc("", cartHandler.Add).Methods("POST")
	cart.HandleFunc("", cartHandler.Clear).Methods("DELETE")
	cart.HandleFunc("/{id}", cartHandler.Update).Methods("PATCH")
	cart.HandleFunc("/{id}", cartHandler.Delete).Methods("DELETE")

	// Processor callbacks carry their own signature, not a bearer token.
	api.HandleFunc("/webhook", paymentHandler.Webhook).Methods("POST")

	// Authenticated storefront.
	api.Handle("/profile", requireAuth(httpHandler(authHandler.UpdateProfile))).Methods("PATCH")
	api.Handle("/profile/password", requireAuth(httpHandler(authHandler.ChangePassword))).Methods("POST")
	api.Handle("/create-payment-intent", requireAuth(httpHandler(paymentHandler.CreateIntent))).Methods("POST")
	api.Handle("/orders", requireAuth(httpHandler(orderHandler.ListMine))).Methods("GET")
	api.Handle("/orders/{id}", requireAuth(httpHandler(orderHandler.Get))).Methods("GET")
	api.Handle("/wishlist", requireAuth(httpHandler(wishlistHandler.List))).Methods("GET")
	api.Handle("/wishlist", requireAuth(httpHandler(wishlistHandler.Add))).Methods("POST")
	api.Handle("/wishlist/check/{productId}", requireAuth(httpHandler(wishlistHandler.Check))).Methods("GET")
	api.Handle("/wishlist/{id}", requireAuth(httpHandler(wishlistHandler.Delete))).Methods("DELETE")
	api.Handle("/stripe/sync-products", requireAuth(middlewares.AdminMiddleware(httpHandler(adminHandler.SyncProducts)))).Methods("POST")

	// Admin console.
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(requireAuth, middlewares.AdminMiddleware)
	admin.HandleFunc("/products", adminHandler.ListProducts).Methods("GET")
	admin.HandleFunc("/products/{id}", adminHandler.UpdateProductMetadata).Methods("PATCH")
	admin.HandleFunc("/orders", adminHandler.ListOrders).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", adminHandler.UpdateOrderStatus).Methods("PATCH")
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/newsletter", adminHandler.ListSubscribers).Methods("GET")
	admin.HandleFunc("/articles", adminHandler.ListArticles).Methods("GET")
	admin.HandleFunc("/articles", adminHandler.CreateArticle).Methods("POST")
	admin.HandleFunc("/articles/{id}", adminHandler.UpdateArticle).Methods("PATCH")
	admin.HandleFunc("/articles/{id}/publish", adminHandler.PublishArticle).Methods("POST")

	return router
}

func httpHandler(f func(w http.ResponseWriter, r *http.Request)) http.Handler {
	return http.HandlerFunc(f)
}
