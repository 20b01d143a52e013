package middlewares

import (
	"log"
	"net/http"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
)

// AdminMiddleware gates the admin console. It runs behind AuthMiddleware,
// so a missing identity here means the chain is miswired rather than a
// client mistake; it still answers 401 for safety.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := helpers.UserID(r.Context())
		if userID == "" {
			unauthorized(w)
			return
		}

		if helpers.UserRole(r.Context()) != models.RoleAdmin {
			log.Printf("AdminMiddleware: user %s attempted to access admin routes without admin role", userID)
			_ = renderJSON.JSON(w, http.StatusForbidden, map[string]string{"message": "Forbidden"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
