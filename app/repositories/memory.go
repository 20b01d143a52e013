package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/drbijoux/storefront/app/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MemoryStore is a map-backed implementation of every repository interface,
// used for development and tests. It enforces the same uniqueness and
// ownership rules as the database-backed implementations.
type MemoryStore struct {
	mu sync.RWMutex

	users       map[string]models.User
	categories  map[string]models.Category
	products    map[string]models.Product
	cartItems   map[string]models.CartItem
	orders      map[string]models.Order
	orderItems  map[string]models.OrderItem
	wishlist    map[string]models.WishlistItem
	subscribers map[string]models.NewsletterSubscriber
	articles    map[string]models.Article
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]models.User),
		categories:  make(map[string]models.Category),
		products:    make(map[string]models.Product),
		cartItems:   make(map[string]models.CartItem),
		orders:      make(map[string]models.Order),
		orderItems:  make(map[string]models.OrderItem),
		wishlist:    make(map[string]models.WishlistItem),
		subscribers: make(map[string]models.NewsletterSubscriber),
		articles:    make(map[string]models.Article),
	}
}

func (s *MemoryStore) Users() UserRepositoryImpl            { return &memoryUserRepo{s} }
func (s *MemoryStore) Categories() CategoryRepositoryImpl   { return &memoryCategoryRepo{s} }
func (s *MemoryStore) Products() ProductRepositoryImpl      { return &memoryProductRepo{s} }
func (s *MemoryStore) CartItems() CartItemRepositoryImpl    { return &memoryCartItemRepo{s} }
func (s *MemoryStore) Orders() OrderRepositoryImpl          { return &memoryOrderRepo{s} }
func (s *MemoryStore) Wishlist() WishlistRepositoryImpl     { return &memoryWishlistRepo{s} }
func (s *MemoryStore) Newsletter() NewsletterRepositoryImpl { return &memoryNewsletterRepo{s} }
func (s *MemoryStore) Articles() ArticleRepositoryImpl      { return &memoryArticleRepo{s} }

// Users

type memoryUserRepo struct {
	s *MemoryStore
}

func (r *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	hashPass, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashPass)
	if !user.Role.Valid() {
		user.Role = models.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u, ok := r.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) UpdateStripeCustomerID(ctx context.Context, userID, customerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	u.StripeCustomerID = customerID
	r.s.users[userID] = u
	return nil
}

func (r *memoryUserRepo) UpdatePassword(ctx context.Context, userID, newPasswordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	u.Password = newPasswordHash
	r.s.users[userID] = u
	return nil
}

func (r *memoryUserRepo) SavePasswordResetToken(ctx context.Context, userID string, token *string, expiresAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil
	}
	u.PasswordResetToken = token
	u.PasswordResetExpires = expiresAt
	r.s.users[userID] = u
	return nil
}

func (r *memoryUserRepo) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == token {
			if u.PasswordResetExpires == nil || u.PasswordResetExpires.Before(time.Now()) {
				return nil, nil
			}
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) GetAll(ctx context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	return users, nil
}

// Categories

type memoryCategoryRepo struct {
	s *MemoryStore
}

func (r *memoryCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c, ok := r.s.categories[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *memoryCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.categoryBySlug(slug), nil
}

func (s *MemoryStore) categoryBySlug(slug string) *models.Category {
	for _, c := range s.categories {
		if c.Slug == slug {
			c := c
			return &c
		}
	}
	return nil
}

func (r *memoryCategoryRepo) GetAll(ctx context.Context) ([]models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	categories := make([]models.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *memoryCategoryRepo) Create(ctx context.Context, category *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.categoryBySlug(category.Slug) != nil {
		return ErrDuplicateSlug
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.s.categories[category.ID] = *category
	return nil
}

// Products

type memoryProductRepo struct {
	s *MemoryStore
}

func (r *memoryProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if p, ok := r.s.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *memoryProductRepo) GetByStripeID(ctx context.Context, stripeID string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.products {
		if p.StripeID == stripeID {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (r *memoryProductRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	return products, nil
}

func (r *memoryProductRepo) GetByCategorySlug(ctx context.Context, slug string) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	category := r.s.categoryBySlug(slug)
	if category == nil {
		return []models.Product{}, nil
	}

	var products []models.Product
	for _, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == category.ID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *memoryProductRepo) GetBestSellers(ctx context.Context, limit int) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var products []models.Product
	for _, p := range r.s.products {
		if p.IsBestSeller {
			products = append(products, p)
		}
		if limit > 0 && len(products) == limit {
			break
		}
	}
	return products, nil
}

func (r *memoryProductRepo) GetNew(ctx context.Context, limit int) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var products []models.Product
	for _, p := range r.s.products {
		if p.IsNew {
			products = append(products, p)
		}
		if limit > 0 && len(products) == limit {
			break
		}
	}
	return products, nil
}

func (r *memoryProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	r.s.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	product.UpdatedAt = time.Now()
	r.s.products[product.ID] = *product
	return nil
}

func (r *memoryProductRepo) UpdateMetadata(ctx context.Context, id string, update models.ProductMetadataUpdate) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	if update.IsNew != nil {
		p.IsNew = *update.IsNew
	}
	if update.IsBestSeller != nil {
		p.IsBestSeller = *update.IsBestSeller
	}
	if update.IsLimited != nil {
		p.IsLimited = *update.IsLimited
	}
	if update.CategoryID != nil {
		p.CategoryID = update.CategoryID
	}
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return &p, nil
}

// Cart items

type memoryCartItemRepo struct {
	s *MemoryStore
}

func (r *memoryCartItemRepo) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.cartItems[id]
	if !ok {
		return nil, nil
	}
	r.s.attachProduct(&item)
	return &item, nil
}

func (s *MemoryStore) attachProduct(item *models.CartItem) {
	if p, ok := s.products[item.ProductID]; ok {
		p := p
		item.Product = &p
	}
}

func (r *memoryCartItemRepo) GetByOwner(ctx context.Context, ownerID string) ([]models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]models.CartItem, 0)
	for _, item := range r.s.cartItems {
		if item.UserID == ownerID {
			r.s.attachProduct(&item)
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *memoryCartItemRepo) GetByOwnerAndProduct(ctx context.Context, ownerID, productID string) (*models.CartItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, item := range r.s.cartItems {
		if item.UserID == ownerID && item.ProductID == productID {
			item := item
			return &item, nil
		}
	}
	return nil, nil
}

func (r *memoryCartItemRepo) Add(ctx context.Context, item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	stored := *item
	stored.Product = nil
	r.s.cartItems[item.ID] = stored
	return nil
}

func (r *memoryCartItemRepo) Update(ctx context.Context, item *models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.UpdatedAt = time.Now()
	stored := *item
	stored.Product = nil
	r.s.cartItems[item.ID] = stored
	return nil
}

func (r *memoryCartItemRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.cartItems, id)
	return nil
}

func (r *memoryCartItemRepo) ClearByOwner(ctx context.Context, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.clearCartLocked(ownerID)
	return nil
}

func (s *MemoryStore) clearCartLocked(ownerID string) {
	for id, item := range s.cartItems {
		if item.UserID == ownerID {
			delete(s.cartItems, id)
		}
	}
}

// Orders

type memoryOrderRepo struct {
	s *MemoryStore
}

func (r *memoryOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	r.s.attachItems(&order)
	return &order, nil
}

func (s *MemoryStore) attachItems(order *models.Order) {
	order.Items = nil
	for _, item := range s.orderItems {
		if item.OrderID == order.ID {
			if p, ok := s.products[item.ProductID]; ok {
				p := p
				item.Product = &p
			}
			order.Items = append(order.Items, item)
		}
	}
}

func (r *memoryOrderRepo) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := make([]models.Order, 0)
	for _, order := range r.s.orders {
		if order.UserID != nil && *order.UserID == userID {
			r.s.attachItems(&order)
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (r *memoryOrderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.s.orders))
	for _, order := range r.s.orders {
		r.s.attachItems(&order)
		if order.UserID != nil {
			if u, ok := r.s.users[*order.UserID]; ok {
				u := u
				order.User = &u
			}
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *memoryOrderRepo) FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, order := range r.s.orders {
		if order.StripePaymentIntentID == intentID {
			order := order
			return &order, nil
		}
	}
	return nil, nil
}

func (r *memoryOrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	order.Status = status
	r.s.orders[id] = order
	r.s.attachItems(&order)
	return &order, nil
}

func (r *memoryOrderRepo) CreateFromCart(ctx context.Context, order *models.Order, items []models.OrderItem, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	r.s.orders[order.ID] = *order

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		items[i].OrderID = order.ID
		stored := items[i]
		stored.Product = nil
		r.s.orderItems[items[i].ID] = stored
	}

	r.s.clearCartLocked(ownerID)
	return nil
}

// Wishlist

type memoryWishlistRepo struct {
	s *MemoryStore
}

func (r *memoryWishlistRepo) GetByID(ctx context.Context, id string) (*models.WishlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	item, ok := r.s.wishlist[id]
	if !ok {
		return nil, nil
	}
	if p, pok := r.s.products[item.ProductID]; pok {
		p := p
		item.Product = &p
	}
	return &item, nil
}

func (r *memoryWishlistRepo) GetByUserID(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := make([]models.WishlistItem, 0)
	for _, item := range r.s.wishlist {
		if item.UserID == userID {
			if p, ok := r.s.products[item.ProductID]; ok {
				p := p
				item.Product = &p
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *memoryWishlistRepo) Add(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.wishlist {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			existing := existing
			return &existing, nil
		}
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = time.Now()
	stored := *item
	stored.Product = nil
	r.s.wishlist[item.ID] = stored
	return item, nil
}

func (r *memoryWishlistRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.wishlist, id)
	return nil
}

func (r *memoryWishlistRepo) Has(ctx context.Context, userID, productID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, item := range r.s.wishlist {
		if item.UserID == userID && item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

// Newsletter

type memoryNewsletterRepo struct {
	s *MemoryStore
}

func (r *memoryNewsletterRepo) FindByEmail(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sub := range r.s.subscribers {
		if sub.Email == email {
			sub := sub
			return &sub, nil
		}
	}
	return nil, nil
}

func (r *memoryNewsletterRepo) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, sub := range r.s.subscribers {
		if sub.Email == subscriber.Email {
			return ErrDuplicateEmail
		}
	}

	if subscriber.ID == "" {
		subscriber.ID = uuid.New().String()
	}
	subscriber.CreatedAt = time.Now()
	r.s.subscribers[subscriber.ID] = *subscriber
	return nil
}

func (r *memoryNewsletterRepo) GetAll(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subscribers := make([]models.NewsletterSubscriber, 0, len(r.s.subscribers))
	for _, sub := range r.s.subscribers {
		subscribers = append(subscribers, sub)
	}
	return subscribers, nil
}

// Articles

type memoryArticleRepo struct {
	s *MemoryStore
}

func (r *memoryArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if a, ok := r.s.articles[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *memoryArticleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.articleBySlug(slug), nil
}

func (s *MemoryStore) articleBySlug(slug string) *models.Article {
	for _, a := range s.articles {
		if a.Slug == slug {
			a := a
			return &a
		}
	}
	return nil
}

func (r *memoryArticleRepo) GetAll(ctx context.Context, publishedOnly bool) ([]models.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	articles := make([]models.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		if publishedOnly && !a.Published {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func (r *memoryArticleRepo) Create(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.articleBySlug(article.Slug) != nil {
		return ErrDuplicateSlug
	}
	if article.ID == "" {
		article.ID = uuid.New().String()
	}
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	r.s.articles[article.ID] = *article
	return nil
}

func (r *memoryArticleRepo) Update(ctx context.Context, article *models.Article) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	article.UpdatedAt = time.Now()
	r.s.articles[article.ID] = *article
	return nil
}

func (r *memoryArticleRepo) Publish(ctx context.Context, id string) (*models.Article, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.articles[id]
	if !ok {
		return nil, nil
	}
	now := time.Now()
	a.Published = true
	a.PublishedAt = &now
	a.UpdatedAt = now
	r.s.articles[id] = a
	return &a, nil
}
