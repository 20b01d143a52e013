package configs

import (
	"log"

	"github.com/stripe/stripe-go/v76"
)

// InitStripe wires the global Stripe client key. Returns false when no secret
// key is configured, in which case payment routes answer with a "not
// configured" error instead of crashing.
func InitStripe(env ENV) bool {
	if env.StripeSecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY not set, payment routes are disabled")
		return false
	}

	stripe.Key = env.StripeSecretKey
	log.Println("✅ Stripe client initialized.")
	return true
}
