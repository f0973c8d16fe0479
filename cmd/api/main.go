// Package main provides the entrypoint for the aircast API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api"
	"github.com/aircast/aircast/internal/api/handler"
	"github.com/aircast/aircast/internal/api/middleware"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/auth"
	"github.com/aircast/aircast/internal/database"
	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/history"
	"github.com/aircast/aircast/internal/observation"
	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/station/openaq"
	"github.com/aircast/aircast/internal/telemetry"
	"github.com/aircast/aircast/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aircast-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting aircast API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryCfg := telemetry.ConfigFromEnv(serviceName, Version)

	tp, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryCfg.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryCfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Load forecast model artifacts. A malformed or misshapen artifact
	// is a configuration error and aborts startup.
	modelsDir := os.Getenv("MODELS_DIR")
	if modelsDir == "" {
		modelsDir = "models"
	}
	modelStore, err := forecast.LoadStore(modelsDir, log)
	if err != nil {
		log.Fatal().Err(err).Str("dir", modelsDir).Msg("failed to load forecast models")
	}
	log.Info().Int("horizons", len(modelStore.Horizons())).Msg("forecast models loaded")

	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		os.Exit(1)
	}

	// Upstream provider clients behind circuit breakers.
	openaqCfg := resilience.DefaultClientConfig(openaq.ProviderName)
	openaqCfg.Metrics = providerMetrics
	openaqHTTP := resilience.NewClient(openaqCfg)
	registry := openaq.NewClient(openaq.ClientConfig{
		APIKey:     os.Getenv("OPENAQ_API_KEY"),
		HTTPClient: openaqHTTP,
		Logger:     log,
	})

	openmeteoCfg := resilience.DefaultClientConfig(openmeteo.ProviderName)
	openmeteoCfg.Metrics = providerMetrics
	openmeteoHTTP := resilience.NewClient(openmeteoCfg)
	weatherClient := openmeteo.NewClient(openmeteo.ClientConfig{
		HTTPClient: openmeteoHTTP,
	})

	locator := station.NewLocator(station.LocatorConfig{
		Registry:         registry,
		Logger:           log,
		StalenessCeiling: 3 * time.Hour,
	})

	observations := observation.NewService(observation.ServiceConfig{
		Locator: locator,
		Weather: weatherClient,
		Logger:  log,
	})

	// Observation history: Postgres when configured, in-memory otherwise.
	var historyRepo history.Repository
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, connectErr := database.Connect(ctx, dbConfig)
		if connectErr != nil {
			log.Fatal().Err(connectErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
		historyRepo = history.NewPostgresRepository(pool)
	} else {
		log.Warn().Msg("DB_HOST not set, using in-memory observation history")
		historyRepo = history.NewInMemoryRepository()
	}

	// Auth for admin endpoints.
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	authService := auth.NewService(auth.Config{
		SigningKey: jwtSigningKey,
		Issuer:     auth.DefaultIssuer,
	})

	classifier := aqi.NewClassifier(aqi.DefaultThresholds())
	assembler := forecast.NewAssembler(forecast.TrainingDefaults())
	dispatcher := forecast.NewDispatcher(forecast.DispatcherConfig{
		Store:      modelStore,
		Classifier: classifier,
		Logger:     log,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		Logger:       log,
		Metrics:      metrics,
		AuthService:  authService,
		Observations: observations,
		Assembler:    assembler,
		Forecaster:   dispatcher,
		ModelStore:   modelStore,
		Classifier:   classifier,
		History:      historyRepo,
		Providers: []handler.ProviderCheck{
			{Name: openaq.ProviderName, State: func() string { return openaqHTTP.BreakerState().String() }},
			{Name: openmeteo.ProviderName, State: func() string { return openmeteoHTTP.BreakerState().String() }},
		},
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
