package configs

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBDriver            string
	DBHost              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBPort              string
	DatabaseDSN         string
	Port                string
	AppEnv              string
	JWTSecret           string
	SessionKey          string
	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendURL         string
	EmailHost           string
	EmailPort           string
	EmailUsername       string
	EmailPassword       string
	EmailFrom           string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found")
	}

	env := ENV{
		DBDriver:            os.Getenv("DB_DRIVER"),
		DBHost:              os.Getenv("DB_HOST"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              os.Getenv("DB_PORT"),
		DatabaseDSN:         os.Getenv("DATABASE_DSN"),
		Port:                os.Getenv("APP_PORT"),
		AppEnv:              os.Getenv("APP_ENV"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		SessionKey:          os.Getenv("SESSION_KEY"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		EmailHost:           os.Getenv("EMAIL_HOST"),
		EmailPort:           os.Getenv("EMAIL_PORT"),
		EmailUsername:       os.Getenv("EMAIL_USERNAME"),
		EmailPassword:       os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:           os.Getenv("EMAIL_FROM"),
	}

	if env.EmailFrom == "" {
		env.EmailFrom = env.EmailUsername
	}

	if env.DBDriver == "" {
		env.DBDriver = "postgres"
	}
	if env.Port == "" {
		env.Port = ":8080"
	}
	if env.AppEnv == "" {
		env.AppEnv = "development"
	}
	if env.FrontendURL == "" {
		env.FrontendURL = "http://localhost:5000"
	}

	return env
}

// ValidateProduction rejects configurations that are only acceptable in
// development, such as accepting unsigned payment webhooks.
func ValidateProduction(env ENV) error {
	if env.AppEnv != "production" {
		return nil
	}
	if env.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if env.StripeSecretKey != "" && env.StripeWebhookSecret == "" {
		return errors.New("STRIPE_WEBHOOK_SECRET is required in production when Stripe is enabled")
	}
	return nil
}
