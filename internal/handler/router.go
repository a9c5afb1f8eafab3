package handler

import (
	"net/http"

	"genius-server/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"genius-server"}`))
	}).Methods("GET")

	// Initialize handlers
	generationHandler := NewGenerationHandler(container.GenerationService, container.Logger)
	billingHandler := NewBillingHandler(container.BillingService, container.EntitlementService, container.Logger)
	webhookHandler := NewWebhookHandler(container.BillingService, container.Logger)

	// Webhook route authenticates via signature, not bearer token
	api.HandleFunc("/webhook", webhookHandler.HandleEvent).Methods("POST")

	// Auth middleware for protected routes
	authMiddleware := NewAuthMiddleware(container.AuthService, container.Logger)

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware.Middleware)

	// Generation routes (protected)
	protected.HandleFunc("/conversation", generationHandler.Conversation).Methods("POST")
	protected.HandleFunc("/code", generationHandler.Code).Methods("POST")
	protected.HandleFunc("/image", generationHandler.Image).Methods("POST")
	protected.HandleFunc("/music", generationHandler.Music).Methods("POST")

	// Billing routes (protected)
	protected.HandleFunc("/billing/session", billingHandler.Session).Methods("GET")
	protected.HandleFunc("/entitlement", billingHandler.Entitlement).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			container.Config.GetFrontendURL(),
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"Stripe-Signature",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
