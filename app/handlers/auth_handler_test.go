package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/drbijoux/storefront/app/services"
	"github.com/drbijoux/storefront/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/unrolled/render"
)

type authFixture struct {
	store       *repositories.MemoryStore
	cartService *services.CartService
	cartSession *sessions.CartSession
	handler     *AuthHandler
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	cartService := services.NewCartService(store.CartItems(), store.Products())
	cartSession := sessions.NewCartSession("test-session-key")
	handler := NewAuthHandler(
		render.New(),
		store.Users(),
		cartService,
		cartSession,
		services.NewMailer(services.MailConfig{}),
		validator.New(),
		"test-secret",
		"http://localhost:5000",
	)
	return &authFixture{store: store, cartService: cartService, cartSession: cartSession, handler: handler}
}

func postJSON(path, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func TestRegisterAndLogin(t *testing.T) {
	fx := newAuthFixture(t)

	rec, req := postJSON("/api/auth/register", `{"email":"new@b.test","password":"secret123","name":"New Shopper"}`)
	fx.handler.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Token)
	require.Equal(t, "new@b.test", created.User.Email)
	require.Equal(t, models.RoleUser, created.User.Role)

	rec, req = postJSON("/api/auth/login", `{"email":"new@b.test","password":"secret123"}`)
	fx.handler.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, req = postJSON("/api/auth/login", `{"email":"new@b.test","password":"wrong-password"}`)
	fx.handler.Login(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)

	rec, req := postJSON("/api/auth/register", `{"email":"dup@b.test","password":"secret123"}`)
	fx.handler.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, req = postJSON("/api/auth/register", `{"email":"dup@b.test","password":"other456"}`)
	fx.handler.Register(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "already registered")
}

func TestRegisterValidation(t *testing.T) {
	fx := newAuthFixture(t)

	rec, req := postJSON("/api/auth/register", `{"email":"not-an-email","password":"short"}`)
	fx.handler.Register(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "errors")
}

func TestLoginMergesGuestCart(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	product := &models.Product{StripeID: "s1", Name: "Ring", Price: decimal.RequireFromString("89.00")}
	require.NoError(t, fx.store.Products().Create(ctx, product))

	user := &models.User{Email: "shopper@b.test", Password: "secret123"}
	require.NoError(t, fx.store.Users().Create(ctx, user))

	// Guest browses and fills a cart; the guest id lives in a cookie.
	seedRec := httptest.NewRecorder()
	seedReq := httptest.NewRequest("GET", "/api/cart", nil)
	guestID, err := fx.cartSession.GetCartID(seedRec, seedReq)
	require.NoError(t, err)
	_, err = fx.cartService.AddItem(ctx, guestID, product.ID, 2)
	require.NoError(t, err)

	rec, req := postJSON("/api/auth/login", `{"email":"shopper@b.test","password":"secret123"}`)
	for _, c := range seedRec.Result().Cookies() {
		req.AddCookie(c)
	}
	fx.handler.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	userItems, err := fx.cartService.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, userItems, 1)
	require.Equal(t, 2, userItems[0].Quantity)

	guestItems, err := fx.cartService.GetCart(ctx, guestID)
	require.NoError(t, err)
	require.Empty(t, guestItems)
}

func TestMeRequiresExistingUser(t *testing.T) {
	fx := newAuthFixture(t)

	user := &models.User{Email: "me@b.test", Password: "secret123"}
	require.NoError(t, fx.store.Users().Create(context.Background(), user))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), helpers.ContextKeyUserID, user.ID))
	rec := httptest.NewRecorder()
	fx.handler.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var loaded models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loaded))
	require.Equal(t, user.Email, loaded.Email)
	require.NotContains(t, rec.Body.String(), "password", "password hash never leaves the API")
}

func TestChangePassword(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user := &models.User{Email: "rotate@b.test", Password: "oldpass123"}
	require.NoError(t, fx.store.Users().Create(ctx, user))

	asUser := func(body string) (*httptest.ResponseRecorder, *http.Request) {
		rec, req := postJSON("/api/profile/password", body)
		req = req.WithContext(context.WithValue(req.Context(), helpers.ContextKeyUserID, user.ID))
		return rec, req
	}

	rec, req := asUser(`{"current_password":"wrong","new_password":"newpass456"}`)
	fx.handler.ChangePassword(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, req = asUser(`{"current_password":"oldpass123","new_password":"newpass456"}`)
	fx.handler.ChangePassword(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, req = postJSON("/api/auth/login", `{"email":"rotate@b.test","password":"newpass456"}`)
	fx.handler.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, req = postJSON("/api/auth/login", `{"email":"rotate@b.test","password":"oldpass123"}`)
	fx.handler.Login(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	user := &models.User{Email: "reset@b.test", Password: "oldpass123"}
	require.NoError(t, fx.store.Users().Create(ctx, user))

	rec, req := postJSON("/api/auth/forgot-password", `{"email":"reset@b.test"}`)
	fx.handler.ForgotPassword(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Identical answer for unknown emails.
	rec, req = postJSON("/api/auth/forgot-password", `{"email":"ghost@b.test"}`)
	fx.handler.ForgotPassword(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := fx.store.Users().FindByEmail(ctx, "reset@b.test")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordResetToken)

	rec, req = postJSON("/api/auth/reset-password", `{"token":"`+*stored.PasswordResetToken+`","password":"newpass456"}`)
	fx.handler.ResetPassword(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, req = postJSON("/api/auth/login", `{"email":"reset@b.test","password":"newpass456"}`)
	fx.handler.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Token is single-use.
	rec, req = postJSON("/api/auth/reset-password", `{"token":"`+*stored.PasswordResetToken+`","password":"again789"}`)
	fx.handler.ResetPassword(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
