package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/feedbackinsights/internal/adapters/cache"
	"github.com/zatekoja/feedbackinsights/internal/adapters/database"
	"github.com/zatekoja/feedbackinsights/internal/adapters/enrichment"
	"github.com/zatekoja/feedbackinsights/internal/adapters/events"
	"github.com/zatekoja/feedbackinsights/internal/api/handlers"
	"github.com/zatekoja/feedbackinsights/internal/api/routes"
	"github.com/zatekoja/feedbackinsights/internal/application/services"
	"github.com/zatekoja/feedbackinsights/internal/domain/entities"
	"github.com/zatekoja/feedbackinsights/internal/domain/providers"
	"github.com/zatekoja/feedbackinsights/internal/domain/repositories"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/clients/openai"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/clients/redis"
	"github.com/zatekoja/feedbackinsights/internal/infrastructure/observability"
	"github.com/zatekoja/feedbackinsights/pkg/config"
	apperrors "github.com/zatekoja/feedbackinsights/pkg/errors"
	"github.com/zatekoja/feedbackinsights/pkg/secrets"
)

func main() {
	checkAI := flag.Bool("check-ai", false, "send one test completion to the language model API and exit")
	flag.Parse()

	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	// Vault runs before config.Load so its keys land in the environment first.
	vaultResult, vaultErr := secrets.NewLoader(secrets.LoadVaultConfigFromEnv()).Apply(context.Background())

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	if vaultErr != nil {
		log.Warn().Err(vaultErr).Str("path", vaultResult.Path).Msg("Failed to load secrets from Vault")
	} else if vaultResult.Enabled {
		log.Info().Int("loaded", vaultResult.Loaded).Int("skipped", vaultResult.Skipped).Str("path", vaultResult.Path).Msg("Secrets loaded from Vault")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *checkAI {
		code := runAICheck(ctx, &cfg.Enrichment)
		stop()
		os.Exit(code)
	}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	healthChecks := map[string]handlers.HealthCheck{}

	// Feedback store
	var store repositories.FeedbackRepository
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("Using in-memory feedback store; data is lost on restart")
		store = database.NewMemoryFeedbackAdapter()
	default:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		if cfg.Database.RunMigrations {
			if err := pgClient.Migrate(ctx); err != nil {
				log.Fatal().Err(err).Msg("Failed to apply database migrations")
			}
		}
		store = database.NewFeedbackAdapter(pgClient)
		healthChecks["postgres"] = pgClient.Ping
	}

	// Redis is optional: without it rate limiting and dedup are process-local
	// and no events are published.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, continuing without shared cache and events")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient.Client())
			eventBus = events.NewRedisEventBus(redisClient.Client())
			healthChecks["redis"] = redisClient.Ping
		}
	}

	// Enrichment
	var completion providers.CompletionProvider
	if aiClient, err := openai.NewClient(&cfg.Enrichment); err != nil {
		log.Warn().Err(err).Msg("Language model not configured; feedback will be stored with fallback enrichment")
	} else {
		defer aiClient.Close()
		completion = aiClient
		log.Info().Str("model", aiClient.Model()).Msg("Language model client initialized")
	}
	enricher := enrichment.NewEnricher(completion, enrichment.Options{
		Timeout:     cfg.Enrichment.Timeout,
		Temperature: cfg.Enrichment.Temperature,
		MaxTokens:   cfg.Enrichment.MaxTokens,
	})

	feedbackService := services.NewFeedbackService(store, enricher, eventBus, cfg.Feedback, metrics)
	analyticsService := services.NewAnalyticsService(store, metrics)

	router := routes.NewRouter(
		handlers.NewFeedbackHandler(feedbackService, cacheProvider),
		handlers.NewAnalyticsHandler(analyticsService, entities.Granularity(cfg.Analytics.DefaultGranularity), cfg.Analytics.DefaultTopN),
		handlers.NewHealthHandler(healthChecks),
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// A submission blocks on the model call, so writes get the enrichment timeout on top.
		WriteTimeout: cfg.Enrichment.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Str("store", cfg.Store.Driver).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}

// runAICheck sends one small completion and reports the outcome.
func runAICheck(ctx context.Context, cfg *config.EnrichmentConfig) int {
	client, err := openai.NewClient(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Language model API check failed")
		return 1
	}
	defer client.Close()

	checkCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(checkCtx); err != nil {
		log.Error().
			Err(err).
			Str("model", client.Model()).
			Int("status", apperrors.HTTPStatus(err)).
			Msg("Language model API check failed")
		return 1
	}

	log.Info().Str("model", client.Model()).Dur("elapsed", time.Since(start)).Msg("Language model API is reachable")
	return 0
}
