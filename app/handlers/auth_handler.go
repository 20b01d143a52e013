package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/drbijoux/storefront/app/helpers"
	"github.com/drbijoux/storefront/app/models"
	"github.com/drbijoux/storefront/app/repositories"
	"github.com/drbijoux/storefront/app/services"
	"github.com/drbijoux/storefront/app/utils/sessions"
	"github.com/drbijoux/storefront/app/utils/token"
	"github.com/go-playground/validator/v10"
	"github.com/unrolled/render"
	"golang.org/x/crypto/bcrypt"
)

const passwordResetLifetime = 30 * time.Minute

type AuthHandler struct {
	render      *render.Render
	userRepo    repositories.UserRepositoryImpl
	cartService *services.CartService
	cartSession *sessions.CartSession
	mailer      *services.Mailer
	validator   *validator.Validate
	jwtSecret   string
	frontendURL string
}

func NewAuthHandler(
	r *render.Render,
	userRepo repositories.UserRepositoryImpl,
	cartService *services.CartService,
	cartSession *sessions.CartSession,
	mailer *services.Mailer,
	validator *validator.Validate,
	jwtSecret string,
	frontendURL string,
) *AuthHandler {
	return &AuthHandler{
		render:      r,
		userRepo:    userRepo,
		cartService: cartService,
		cartSession: cartSession,
		mailer:      mailer,
		validator:   validator,
		jwtSecret:   jwtSecret,
		frontendURL: frontendURL,
	}
}

type RegisterForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"omitempty,max=100"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Validation failed",
			"errors":  helpers.ValidationErrors(err),
		})
		return
	}

	user := &models.User{
		Email:    form.Email,
		Name:     form.Name,
		Password: form.Password,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		if err == repositories.ErrDuplicateEmail {
			message(h.render, w, http.StatusBadRequest, "Email is already registered")
			return
		}
		log.Printf("AuthHandler.Register: failed to create user: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.adoptGuestCart(w, r, user.ID)

	signed, err := token.Generate(user, h.jwtSecret)
	if err != nil {
		log.Printf("AuthHandler.Register: failed to sign token for %s: %v", user.ID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, authResponse{Token: signed, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), form.Email)
	if err != nil {
		log.Printf("AuthHandler.Login: failed to look up %s: %v", form.Email, err)
		message(h.render, w, http.StatusInternalServerError, "Login failed")
		return
	}
	// Unknown email and wrong password produce the same answer.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		message(h.render, w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.adoptGuestCart(w, r, user.ID)

	signed, err := token.Generate(user, h.jwtSecret)
	if err != nil {
		log.Printf("AuthHandler.Login: failed to sign token for %s: %v", user.ID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	_ = h.render.JSON(w, http.StatusOK, authResponse{Token: signed, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil {
		log.Printf("AuthHandler.Me: failed to load user %s: %v", userID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	if user == nil {
		message(h.render, w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, user)
}

type ProfileForm struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Language string `json:"language" validate:"omitempty,oneof=en fr de es it"`
}

// UpdateProfile patches the mutable profile fields; empty fields are left
// untouched.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil || user == nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	var form ProfileForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Validation failed",
			"errors":  helpers.ValidationErrors(err),
		})
		return
	}

	if form.Name != "" {
		user.Name = form.Name
	}
	if form.Address != "" {
		user.Address = form.Address
	}
	if form.Phone != "" {
		user.Phone = form.Phone
	}
	if form.Language != "" {
		user.Language = form.Language
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		log.Printf("AuthHandler.UpdateProfile: failed to update user %s: %v", userID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	_ = h.render.JSON(w, http.StatusOK, user)
}

type ChangePasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ChangePassword rotates the caller's password after re-verifying the
// current one.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := helpers.UserID(r.Context())
	user, err := h.userRepo.FindByID(r.Context(), userID)
	if err != nil || user == nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	var form ChangePasswordForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Validation failed",
			"errors":  helpers.ValidationErrors(err),
		})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.CurrentPassword)) != nil {
		message(h.render, w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to process request")
		return
	}
	if err := h.userRepo.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		log.Printf("AuthHandler.ChangePassword: failed to update password for %s: %v", userID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	message(h.render, w, http.StatusOK, "Password has been updated")
}

type ForgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword issues a reset token and emails a reset link. The response
// is identical whether or not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var form ForgotPasswordForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		message(h.render, w, http.StatusBadRequest, "A valid email is required")
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), form.Email)
	if err != nil {
		log.Printf("AuthHandler.ForgotPassword: lookup failed for %s: %v", form.Email, err)
	}

	if user != nil {
		resetToken, genErr := generateResetToken()
		if genErr != nil {
			log.Printf("AuthHandler.ForgotPassword: failed to generate token: %v", genErr)
			message(h.render, w, http.StatusInternalServerError, "Failed to process request")
			return
		}

		expires := time.Now().Add(passwordResetLifetime)
		if err := h.userRepo.SavePasswordResetToken(r.Context(), user.ID, &resetToken, &expires); err != nil {
			log.Printf("AuthHandler.ForgotPassword: failed to save token for %s: %v", user.ID, err)
			message(h.render, w, http.StatusInternalServerError, "Failed to process request")
			return
		}

		resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.frontendURL, resetToken)
		body := services.BuildPasswordResetEmailBody(resetURL, int(passwordResetLifetime.Minutes()))
		if h.mailer.Enabled() {
			if err := h.mailer.SendHTMLEmail(user.Email, "Reset your password", body); err != nil {
				log.Printf("AuthHandler.ForgotPassword: failed to email %s: %v", user.Email, err)
			}
		} else {
			log.Printf("AuthHandler.ForgotPassword: mailer disabled, reset link for %s: %s", user.Email, resetURL)
		}
	}

	message(h.render, w, http.StatusOK, "If that email is registered, a reset link has been sent")
}

type ResetPasswordForm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var form ResetPasswordForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		message(h.render, w, http.StatusBadRequest, "Token and a new password are required")
		return
	}

	user, err := h.userRepo.FindByPasswordResetToken(r.Context(), form.Token)
	if err != nil {
		log.Printf("AuthHandler.ResetPassword: token lookup failed: %v", err)
		message(h.render, w, http.StatusInternalServerError, "Failed to process request")
		return
	}
	if user == nil {
		message(h.render, w, http.StatusBadRequest, "Reset token is invalid or expired")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		message(h.render, w, http.StatusInternalServerError, "Failed to process request")
		return
	}
	if err := h.userRepo.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		log.Printf("AuthHandler.ResetPassword: failed to update password for %s: %v", user.ID, err)
		message(h.render, w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	if err := h.userRepo.SavePasswordResetToken(r.Context(), user.ID, nil, nil); err != nil {
		log.Printf("AuthHandler.ResetPassword: failed to clear token for %s: %v", user.ID, err)
	}

	message(h.render, w, http.StatusOK, "Password has been reset")
}

// adoptGuestCart merges the browser's guest cart into the now-authenticated
// user's cart and drops the guest cookie.
func (h *AuthHandler) adoptGuestCart(w http.ResponseWriter, r *http.Request, userID string) {
	guestID := h.cartSession.PeekCartID(r)
	if guestID == "" {
		return
	}
	if err := h.cartService.MergeGuestCart(r.Context(), guestID, userID); err != nil {
		log.Printf("AuthHandler: failed to merge guest cart %s into user %s: %v", guestID, userID, err)
		return
	}
	h.cartSession.Clear(w, r)
}

func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
