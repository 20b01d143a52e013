package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/drbijoux/storefront/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMemoryUserCreateHashesAndDefaults(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Email: "a@b.test", Password: "plaintext"}
	require.NoError(t, store.Users().Create(ctx, user))

	loaded, err := store.Users().FindByEmail(ctx, "a@b.test")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, models.RoleUser, loaded.Role)
	require.NotEqual(t, "plaintext", loaded.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(loaded.Password), []byte("plaintext")))
}

func TestMemoryUserDuplicateEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{Email: "a@b.test", Password: "x"}))
	err := store.Users().Create(ctx, &models.User{Email: "a@b.test", Password: "y"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryUserMissingIsNilNil(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user, err := store.Users().FindByID(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, user)

	user, err = store.Users().FindByEmail(ctx, "nobody@b.test")
	require.NoError(t, err)
	require.Nil(t, user)
}

func TestMemoryPasswordResetTokenExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	user := &models.User{Email: "a@b.test", Password: "x"}
	require.NoError(t, store.Users().Create(ctx, user))

	tok := "reset-token"
	future := time.Now().Add(time.Hour)
	require.NoError(t, store.Users().SavePasswordResetToken(ctx, user.ID, &tok, &future))

	found, err := store.Users().FindByPasswordResetToken(ctx, tok)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, user.ID, found.ID)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, store.Users().SavePasswordResetToken(ctx, user.ID, &tok, &past))

	found, err = store.Users().FindByPasswordResetToken(ctx, tok)
	require.NoError(t, err)
	require.Nil(t, found, "expired token behaves like a missing one")
}

func TestMemoryWishlistAddIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	product := &models.Product{StripeID: "s1", Name: "Ring", Price: decimal.RequireFromString("10")}
	require.NoError(t, store.Products().Create(ctx, product))

	first, err := store.Wishlist().Add(ctx, &models.WishlistItem{UserID: "u1", ProductID: product.ID})
	require.NoError(t, err)
	second, err := store.Wishlist().Add(ctx, &models.WishlistItem{UserID: "u1", ProductID: product.ID})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	items, err := store.Wishlist().GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestMemoryCreateFromCartIsAtomic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	product := &models.Product{StripeID: "s1", Name: "Ring", Price: decimal.RequireFromString("89.00")}
	require.NoError(t, store.Products().Create(ctx, product))
	require.NoError(t, store.CartItems().Add(ctx, &models.CartItem{UserID: "u1", ProductID: product.ID, Quantity: 2}))

	userID := "u1"
	order := &models.Order{
		UserID:                &userID,
		StripePaymentIntentID: "pi_1",
		Status:                models.OrderStatusPaid,
		Total:                 decimal.RequireFromString("178.00"),
	}
	items := []models.OrderItem{{ProductID: product.ID, Quantity: 2, Price: product.Price}}
	require.NoError(t, store.Orders().CreateFromCart(ctx, order, items, userID))

	cart, err := store.CartItems().GetByOwner(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, cart)

	loaded, err := store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Items, 1)
	require.Equal(t, product.ID, loaded.Items[0].ProductID)
}

func TestMemoryOrderUpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	userID := "u1"
	order := &models.Order{UserID: &userID, StripePaymentIntentID: "pi_1", Status: models.OrderStatusPaid}
	require.NoError(t, store.Orders().CreateFromCart(ctx, order, nil, userID))

	updated, err := store.Orders().UpdateStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, models.OrderStatusShipped, updated.Status)

	missing, err := store.Orders().UpdateStatus(ctx, "nope", models.OrderStatusShipped)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMemoryArticleDuplicateSlug(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Articles().Create(ctx, &models.Article{Title: "A", Slug: "a", AuthorID: "u1"}))
	err := store.Articles().Create(ctx, &models.Article{Title: "B", Slug: "a", AuthorID: "u1"})
	require.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestMemoryArticlePublish(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	article := &models.Article{Title: "A", Slug: "a", AuthorID: "u1"}
	require.NoError(t, store.Articles().Create(ctx, article))

	published, err := store.Articles().Publish(ctx, article.ID)
	require.NoError(t, err)
	require.NotNil(t, published)
	require.True(t, published.Published)
	require.NotNil(t, published.PublishedAt)

	all, err := store.Articles().GetAll(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
