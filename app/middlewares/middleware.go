package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/utils/token"
	"github.com/unrolled/render"
)

var renderJSON = render.New()

func unauthorized(w http.ResponseWriter) {
	_ = renderJSON.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func contextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	ctx = context.WithValue(ctx, helpers.ContextKeyUserID, claims.UserID)
	ctx = context.WithValue(ctx, helpers.ContextKeyUserEmail, claims.Email)
	ctx = context.WithValue(ctx, helpers.ContextKeyUserRole, claims.Role)
	return ctx
}

// AuthMiddleware requires a valid bearer token. Missing, malformed, expired
// and badly-signed tokens all get the same 401 so callers cannot probe which
// check failed.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w)
				return
			}

			claims, err := token.Validate(raw, jwtSecret)
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuthMiddleware attaches the user identity when a valid token is
// present and lets the request through anonymously otherwise. Cart routes
// use this so guests and shoppers share one handler.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw != "" {
				if claims, err := token.Validate(raw, jwtSecret); err == nil {
					r = r.WithContext(contextWithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
