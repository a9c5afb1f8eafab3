package config

import (
	"genius-server/internal/domain"
	"genius-server/internal/infra/openai"
	"genius-server/internal/infra/replicate"
	stripeinfra "genius-server/internal/infra/stripe"
	"genius-server/internal/repository"
	"genius-server/internal/service"
	"genius-server/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config                 domain.Config
	Logger                 domain.Logger
	SupabaseClient         domain.SupabaseClient
	UsageRepository        domain.UsageRepository
	SubscriptionRepository domain.SubscriptionRepository
	AuthService            domain.AuthService
	EntitlementService     domain.EntitlementService
	GenerationService      domain.GenerationService
	BillingService         domain.BillingService
}

// NewContainer creates a new dependency injection container. It is built
// once at process start and read-only afterwards.
func NewContainer() *Container {
	cfg := NewConfig()
	appLogger := logger.NewLogger(cfg.GetLogLevel())

	// Initialize Supabase client
	supabaseClient := repository.NewSupabaseClient(cfg, appLogger)
	if err := supabaseClient.Initialize(); err != nil {
		appLogger.Error("Failed to initialize Supabase client", err)
	}

	// Initialize repositories
	usageRepo := repository.NewUsageRepository(supabaseClient, appLogger)
	subscriptionRepo := repository.NewSubscriptionRepository(supabaseClient, appLogger)

	// Initialize services
	authService := service.NewAuthService(supabaseClient, appLogger)
	entitlementService := service.NewEntitlementService(usageRepo, subscriptionRepo, appLogger, cfg.GetFreeGenerationLimit())

	// Generation providers stay nil when their credentials are missing;
	// the generation service reports that as a configuration error per call.
	var chatProvider domain.ChatCompletionProvider
	var imageProvider domain.ImageGenerationProvider
	if cfg.GetOpenAIKey() != "" {
		openaiClient := openai.NewClient(cfg.GetOpenAIKey(), appLogger)
		chatProvider = openaiClient
		imageProvider = openaiClient
	} else {
		appLogger.Warn("OPENAI_API_KEY not set, conversation/code/image endpoints disabled")
	}

	var musicProvider domain.MusicGenerationProvider
	if cfg.GetReplicateToken() != "" {
		replicateClient, err := replicate.NewClient(cfg.GetReplicateToken(), appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize Replicate client", err)
		} else {
			musicProvider = replicateClient
		}
	} else {
		appLogger.Warn("REPLICATE_API_TOKEN not set, music endpoint disabled")
	}

	generationService := service.NewGenerationService(entitlementService, chatProvider, imageProvider, musicProvider, appLogger)

	billingGateway := stripeinfra.NewGateway(cfg, appLogger)
	billingService := service.NewBillingService(billingGateway, subscriptionRepo, appLogger)

	return &Container{
		Config:                 cfg,
		Logger:                 appLogger,
		SupabaseClient:         supabaseClient,
		UsageRepository:        usageRepo,
		SubscriptionRepository: subscriptionRepo,
		AuthService:            authService,
		EntitlementService:     entitlementService,
		GenerationService:      generationService,
		BillingService:         billingService,
	}
}
