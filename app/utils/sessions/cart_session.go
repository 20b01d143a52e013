package sessions

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionCartKey   = "cart_session"
	CartSessionIDKey = "cart_id"
)

// CartSession hands out a stable guest cart id held in a cookie, so
// anonymous carts survive reloads. Once the shopper logs in, the guest cart
// is merged into the user cart and the cookie id is dropped.
type CartSession struct {
	store *sessions.CookieStore
}

func NewCartSession(secret string) *CartSession {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
	}
	return &CartSession{store: store}
}

// GetCartID returns the guest cart id for this browser, creating one on
// first use.
func (cs *CartSession) GetCartID(w http.ResponseWriter, r *http.Request) (string, error) {
	session, err := cs.store.Get(r, SessionCartKey)
	if err != nil {
		// A stale or tampered cookie is replaced, not surfaced.
		session, _ = cs.store.New(r, SessionCartKey)
	}

	if cartID, ok := session.Values[CartSessionIDKey].(string); ok && cartID != "" {
		return cartID, nil
	}

	newCartID := uuid.New().String()
	session.Values[CartSessionIDKey] = newCartID
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return newCartID, nil
}

// PeekCartID returns the guest cart id without creating one.
func (cs *CartSession) PeekCartID(r *http.Request) string {
	session, err := cs.store.Get(r, SessionCartKey)
	if err != nil {
		return ""
	}
	if cartID, ok := session.Values[CartSessionIDKey].(string); ok {
		return cartID
	}
	return ""
}

// Clear drops the guest cart id, used after the guest cart has been merged
// into an authenticated user's cart.
func (cs *CartSession) Clear(w http.ResponseWriter, r *http.Request) {
	session, err := cs.store.Get(r, SessionCartKey)
	if err != nil {
		return
	}
	delete(session.Values, CartSessionIDKey)
	session.Options.MaxAge = -1
	_ = session.Save(r, w)
}
