package config

import (
	"os"
	"strconv"

	"genius-server/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort          string
	LogLevel            string
	SupabaseURL         string
	SupabaseKey         string
	SupabaseServiceKey  string
	OpenAIKey           string
	ReplicateToken      string
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceID       string
	FrontendURL         string
	FreeGenerationLimit int
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:          getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:         getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:         getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey:  getEnvOrDefault("SUPABASE_SERVICE_ROLE_KEY", ""),
		OpenAIKey:           getEnvOrDefault("OPENAI_API_KEY", ""),
		ReplicateToken:      getEnvOrDefault("REPLICATE_API_TOKEN", ""),
		StripeSecretKey:     getEnvOrDefault("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnvOrDefault("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceID:       getEnvOrDefault("STRIPE_PRICE_ID", ""),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		FreeGenerationLimit: getEnvIntOrDefault("FREE_GENERATION_LIMIT", domain.DefaultFreeGenerationLimit),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseServiceKey returns the Supabase service-role key
func (c *AppConfig) GetSupabaseServiceKey() string {
	return c.SupabaseServiceKey
}

// GetOpenAIKey returns the OpenAI API key
func (c *AppConfig) GetOpenAIKey() string {
	return c.OpenAIKey
}

// GetReplicateToken returns the Replicate API token
func (c *AppConfig) GetReplicateToken() string {
	return c.ReplicateToken
}

// GetStripeSecretKey returns the Stripe secret key
func (c *AppConfig) GetStripeSecretKey() string {
	return c.StripeSecretKey
}

// GetStripeWebhookSecret returns the Stripe webhook signing secret
func (c *AppConfig) GetStripeWebhookSecret() string {
	return c.StripeWebhookSecret
}

// GetStripePriceID returns the Stripe price for the pro subscription
func (c *AppConfig) GetStripePriceID() string {
	return c.StripePriceID
}

// GetFrontendURL returns the web app origin used for CORS and redirects
func (c *AppConfig) GetFrontendURL() string {
	return c.FrontendURL
}

// GetFreeGenerationLimit returns the free-tier generation cap
func (c *AppConfig) GetFreeGenerationLimit() int {
	return c.FreeGenerationLimit
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
