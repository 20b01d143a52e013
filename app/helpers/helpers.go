package helpers

import (
	"context"

	"github.com/drbijoux/storefront/app/models"
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "user_id"
	ContextKeyUserEmail contextKey = "user_email"
	ContextKeyUserRole  contextKey = "user_role"
)

// UserID returns the authenticated user id from the request context, or ""
// for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}

func UserRole(ctx context.Context) models.Role {
	role, _ := ctx.Value(ContextKeyUserRole).(models.Role)
	return role
}

// ValidationErrors flattens validator errors into a field→message map for
// 400 responses.
func ValidationErrors(err error) map[string]string {
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["error"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "email":
			out[fe.Field()] = "must be a valid email address"
		case "min":
			out[fe.Field()] = "is too short"
		case "gte":
			out[fe.Field()] = "is too small"
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}
