package config

import (
	"testing"

	"genius-server/internal/domain"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("FREE_GENERATION_LIMIT", "")

	cfg := NewConfig()

	if cfg.GetServerPort() != "8080" {
		t.Fatalf("expected default server port 8080, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "info" {
		t.Fatalf("expected default log level info, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseURL() != "" {
		t.Fatalf("expected default supabase url empty, got %s", cfg.GetSupabaseURL())
	}
	if cfg.GetFrontendURL() != "http://localhost:3000" {
		t.Fatalf("expected default frontend url, got %s", cfg.GetFrontendURL())
	}
	if cfg.GetFreeGenerationLimit() != domain.DefaultFreeGenerationLimit {
		t.Fatalf("expected default free limit %d, got %d", domain.DefaultFreeGenerationLimit, cfg.GetFreeGenerationLimit())
	}
}

func TestNewConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SUPABASE_URL", "http://localhost:54321")
	t.Setenv("SUPABASE_ANON_KEY", "test-key")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REPLICATE_API_TOKEN", "r8-test")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("STRIPE_PRICE_ID", "price_test")
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	t.Setenv("FREE_GENERATION_LIMIT", "7")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9090" {
		t.Fatalf("expected server port 9090, got %s", cfg.GetServerPort())
	}
	if cfg.GetLogLevel() != "debug" {
		t.Fatalf("expected log level debug, got %s", cfg.GetLogLevel())
	}
	if cfg.GetSupabaseServiceKey() != "service-key" {
		t.Fatalf("expected service key service-key, got %s", cfg.GetSupabaseServiceKey())
	}
	if cfg.GetOpenAIKey() != "sk-test" {
		t.Fatalf("expected openai key sk-test, got %s", cfg.GetOpenAIKey())
	}
	if cfg.GetReplicateToken() != "r8-test" {
		t.Fatalf("expected replicate token r8-test, got %s", cfg.GetReplicateToken())
	}
	if cfg.GetStripeWebhookSecret() != "whsec_test" {
		t.Fatalf("expected webhook secret whsec_test, got %s", cfg.GetStripeWebhookSecret())
	}
	if cfg.GetStripePriceID() != "price_test" {
		t.Fatalf("expected price id price_test, got %s", cfg.GetStripePriceID())
	}
	if cfg.GetFrontendURL() != "https://app.example.com" {
		t.Fatalf("expected frontend url override, got %s", cfg.GetFrontendURL())
	}
	if cfg.GetFreeGenerationLimit() != 7 {
		t.Fatalf("expected free limit 7, got %d", cfg.GetFreeGenerationLimit())
	}
}

func TestNewConfig_Fallbacks(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "9091")
	t.Setenv("FREE_GENERATION_LIMIT", "not-a-number")

	cfg := NewConfig()

	if cfg.GetServerPort() != "9091" {
		t.Fatalf("expected server port 9091, got %s", cfg.GetServerPort())
	}
	if cfg.GetFreeGenerationLimit() != domain.DefaultFreeGenerationLimit {
		t.Fatalf("expected default free limit %d, got %d", domain.DefaultFreeGenerationLimit, cfg.GetFreeGenerationLimit())
	}
}
