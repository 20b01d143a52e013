package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/utils/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, role models.Role) string {
	t.Helper()
	tok, err := token.Generate(&models.User{ID: "user-1", Email: "a@b.test", Role: role}, testSecret)
	require.NoError(t, err)
	return tok
}

func expiredToken(t *testing.T) string {
	t.Helper()
	claims := token.Claims{
		UserID: "user-1",
		Email:  "a@b.test",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func protectedEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(helpers.UserID(r.Context())))
	})
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	handler := AuthMiddleware(testSecret)(protectedEcho())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, models.RoleUser))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", rec.Body.String())
}

// Every rejection reason produces the same answer so callers cannot tell a
// missing token from an expired or forged one.
func TestAuthMiddlewareUniformRejection(t *testing.T) {
	handler := AuthMiddleware(testSecret)(protectedEcho())

	cases := map[string]func(r *http.Request){
		"missing header":  func(r *http.Request) {},
		"not bearer":      func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"malformed token": func(r *http.Request) { r.Header.Set("Authorization", "Bearer not.a.jwt") },
		"expired token":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expiredToken(t)) },
		"wrong signature": func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forgedToken(t)) },
	}

	for name, mutate := range cases {
		req := httptest.NewRequest("GET", "/protected", nil)
		mutate(req)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		require.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String(), name)
	}
}

func forgedToken(t *testing.T) string {
	t.Helper()
	tok, err := token.Generate(&models.User{ID: "user-1", Role: models.RoleAdmin}, "some-other-secret")
	require.NoError(t, err)
	return tok
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	handler := OptionalAuthMiddleware(testSecret)(protectedEcho())

	req := httptest.NewRequest("GET", "/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	handler := OptionalAuthMiddleware(testSecret)(protectedEcho())

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, models.RoleUser))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", rec.Body.String())
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	handler := OptionalAuthMiddleware(testSecret)(protectedEcho())

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+expiredToken(t))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String(), "bad token degrades to anonymous")
}

func TestAdminMiddleware(t *testing.T) {
	chain := AuthMiddleware(testSecret)(AdminMiddleware(protectedEcho()))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, models.RoleUser))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, models.RoleAdmin))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
