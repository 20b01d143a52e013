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
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/unrolled/render"
)

type cartFixture struct {
	store   *repositories.MemoryStore
	service *services.CartService
	router  *mux.Router
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	store := repositories.NewMemoryStore()
	service := services.NewCartService(store.CartItems(), store.Products())
	handler := NewCartHandler(render.New(), service, sessions.NewCartSession("test-session-key"))

	router := mux.NewRouter()
	router.HandleFunc("/api/cart", handler.Get).Methods("GET")
	router.HandleFunc("/api/cart", handler.Clear).Methods("DELETE")
	router.HandleFunc("/api/cart", handler.Add).Methods("POST")
	router.HandleFunc("/api/cart/{id}", handler.Update).Methods("PATCH")
	router.HandleFunc("/api/cart/{id}", handler.Delete).Methods("DELETE")

	return &cartFixture{store: store, service: service, router: router}
}

func (fx *cartFixture) seedProduct(t *testing.T, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{StripeID: "stripe_" + name, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, fx.store.Products().Create(context.Background(), p))
	return p
}

func (fx *cartFixture) do(method, path, body, userID string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), helpers.ContextKeyUserID, userID))
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var out cartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCartAddAndTotals(t *testing.T) {
	fx := newCartFixture(t)
	a := fx.seedProduct(t, "Item A", "40.00")
	b := fx.seedProduct(t, "Item B", "15.00")

	rec := fx.do("POST", "/api/cart", `{"productId":"`+a.ID+`","quantity":2}`, "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fx.do("POST", "/api/cart", `{"productId":"`+b.ID+`"}`, "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 2)
	require.Equal(t, 3, cart.TotalItems)
	require.True(t, cart.Subtotal.Equal(decimal.RequireFromString("95.00")))
	require.True(t, cart.Shipping.Equal(decimal.RequireFromString("10")))
	require.True(t, cart.Total.Equal(decimal.RequireFromString("105.00")))
}

func TestCartAddUnknownProduct(t *testing.T) {
	fx := newCartFixture(t)

	rec := fx.do("POST", "/api/cart", `{"productId":"nope","quantity":1}`, "user-1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartCrossUserAccessIsNotFound(t *testing.T) {
	fx := newCartFixture(t)
	product := fx.seedProduct(t, "Ring", "89.00")

	rec := fx.do("POST", "/api/cart", `{"productId":"`+product.ID+`","quantity":1}`, "user-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec)
	itemID := cart.Items[0].ID

	rec = fx.do("DELETE", "/api/cart/"+itemID, "", "user-b", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do("PATCH", "/api/cart/"+itemID, `{"quantity":9}`, "user-b", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.do("GET", "/api/cart", "", "user-a", nil)
	cart = decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 1, cart.Items[0].Quantity)
}

func TestCartGuestFlowUsesCookie(t *testing.T) {
	fx := newCartFixture(t)
	product := fx.seedProduct(t, "Necklace", "120.00")

	rec := fx.do("POST", "/api/cart", `{"productId":"`+product.ID+`","quantity":1}`, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "guest add sets the cart cookie")

	// Same browser sees the same cart.
	rec = fx.do("GET", "/api/cart", "", "", cookies)
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)

	// A different browser gets its own empty cart.
	rec = fx.do("GET", "/api/cart", "", "", nil)
	cart = decodeCart(t, rec)
	require.Empty(t, cart.Items)
}

func TestCartUpdateAndClear(t *testing.T) {
	fx := newCartFixture(t)
	product := fx.seedProduct(t, "Hoops", "45.00")

	rec := fx.do("POST", "/api/cart", `{"productId":"`+product.ID+`","quantity":1}`, "user-1", nil)
	cart := decodeCart(t, rec)
	itemID := cart.Items[0].ID

	rec = fx.do("PATCH", "/api/cart/"+itemID, `{"quantity":4}`, "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decodeCart(t, rec)
	require.Equal(t, 4, cart.TotalItems)

	rec = fx.do("PATCH", "/api/cart/"+itemID, `{"quantity":0}`, "user-1", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.do("DELETE", "/api/cart", "", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decodeCart(t, rec)
	require.Empty(t, cart.Items)
	require.True(t, cart.Subtotal.IsZero())
}
