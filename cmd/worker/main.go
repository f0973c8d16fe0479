// Package main provides the entrypoint for the aircast capture worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/database"
	"github.com/aircast/aircast/internal/history"
	"github.com/aircast/aircast/internal/observation"
	"github.com/aircast/aircast/internal/provider/resilience"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/internal/station/openaq"
	"github.com/aircast/aircast/internal/weather/openmeteo"
	"github.com/aircast/aircast/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aircast-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting aircast worker")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Upstream provider clients behind circuit breakers.
	registry := openaq.NewClient(openaq.ClientConfig{
		APIKey:     os.Getenv("OPENAQ_API_KEY"),
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(openaq.ProviderName)),
		Logger:     log,
	})
	weatherClient := openmeteo.NewClient(openmeteo.ClientConfig{
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(openmeteo.ProviderName)),
	})

	observations := observation.NewService(observation.ServiceConfig{
		Locator: station.NewLocator(station.LocatorConfig{
			Registry:         registry,
			Logger:           log,
			StalenessCeiling: 3 * time.Hour,
		}),
		Weather: weatherClient,
		Logger:  log,
	})

	var historyRepo history.Repository
	if os.Getenv("DB_HOST") != "" {
		pool, err := database.Connect(ctx, database.ConfigFromEnv())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		historyRepo = history.NewPostgresRepository(pool)
	} else {
		log.Warn().Msg("DB_HOST not set, using in-memory observation history")
		historyRepo = history.NewInMemoryRepository()
	}

	captureJob := worker.NewCaptureJob(worker.CaptureJobConfig{
		Config:   worker.DefaultCaptureConfig(),
		Resolver: observations,
		Store:    historyRepo,
		Logger:   log,
	})

	// Health check endpoint for Cloud Run.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub-triggered capture when configured; otherwise run on
	// a fixed interval.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID != "" {
		subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
		if subscription == "" {
			subscription = "aircast-capture"
		}

		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			CaptureJob:       captureJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close() //nolint:errcheck // best effort cleanup

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler error")
			}
		}()
	} else {
		interval := 30 * time.Minute
		if raw := os.Getenv("CAPTURE_INTERVAL"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatal().Err(err).Str("value", raw).Msg("invalid CAPTURE_INTERVAL")
			}
			interval = parsed
		}

		log.Info().Dur("interval", interval).Msg("running interval capture loop")
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			captureJob.Run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					captureJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
