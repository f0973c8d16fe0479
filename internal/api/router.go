// Package api provides the HTTP API for aircast.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/handler"
	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/auth"
	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/history"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version      string
	BuildTime    string
	Logger       zerolog.Logger
	Metrics      *middleware.Metrics
	AuthService  *auth.Service
	Observations handler.ObservationResolver
	Assembler    *forecast.Assembler
	Forecaster   handler.Forecaster
	ModelStore   *forecast.Store
	Classifier   *aqi.Classifier
	History      history.Repository
	Providers    []handler.ProviderCheck
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing())            // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type
	r.Use(middleware.RequireJSON)          // Reject non-JSON bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.ModelStore, cfg.Providers)
	airQualityHandler := handler.NewAirQualityHandler(cfg.Observations, cfg.Classifier, cfg.Logger)
	predictHandler := handler.NewPredictHandler(handler.PredictHandlerConfig{
		Observations: cfg.Observations,
		Assembler:    cfg.Assembler,
		Forecaster:   cfg.Forecaster,
		Classifier:   cfg.Classifier,
		Store:        cfg.History,
		Logger:       cfg.Logger,
	})
	adminHandler := handler.NewAdminHandler(cfg.History, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)

	predictRateLimit := middleware.RateLimitByIP(middleware.PredictRateLimit)   // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Current conditions - standard rate limiting
		r.With(standardRateLimit).Get("/air-quality", airQualityHandler.Current)

		// Prediction endpoints - each coordinate request fans out to
		// two upstream providers, so rate limit more tightly
		r.With(predictRateLimit).Post("/predict", predictHandler.Predict)
		r.With(predictRateLimit).Post("/predict:from-coordinates", predictHandler.PredictFromCoordinates)

		// Admin endpoints (authenticated, admin role)
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminOnly)
			r.Use(standardRateLimit)

			r.Get("/history", adminHandler.History)
		})
	})

	return r
}
