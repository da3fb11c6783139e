package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/saunabooking/internal/adapters/cache"
	"github.com/zatekoja/saunabooking/internal/adapters/database"
	"github.com/zatekoja/saunabooking/internal/adapters/events"
	"github.com/zatekoja/saunabooking/internal/adapters/providers/auth"
	"github.com/zatekoja/saunabooking/internal/api/handlers"
	"github.com/zatekoja/saunabooking/internal/api/routes"
	"github.com/zatekoja/saunabooking/internal/application/services"
	"github.com/zatekoja/saunabooking/internal/domain/providers"
	"github.com/zatekoja/saunabooking/internal/domain/repositories"
	"github.com/zatekoja/saunabooking/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/saunabooking/internal/infrastructure/clients/redis"
	"github.com/zatekoja/saunabooking/internal/infrastructure/observability"
	"github.com/zatekoja/saunabooking/pkg/config"
	"github.com/zatekoja/saunabooking/pkg/secrets"
)

// cacheWarmInterval stays below the sauna detail TTL so warm entries never lapse
const cacheWarmInterval = 4 * time.Minute

func main() {
	// Vault runs before config so its secrets land in the environment first
	if _, err := secrets.Apply(context.Background(), secrets.SettingsFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load secrets from Vault: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Environment, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
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

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	if cfg.Database.ApplySchema {
		if err := pgClient.ApplySchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database schema")
		}
	}

	// Redis backs the read cache, the event bus and the login limiter. The
	// API keeps working without it.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable; running without cache and events")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewBreakerAdapter(cache.NewRedisAdapter(redisClient), cache.DefaultBreakerSettings)
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}

	var saunaRepo repositories.SaunaRepository = database.NewSaunaAdapter(pgClient)
	if cacheProvider != nil {
		saunaRepo = database.NewCachedSaunaAdapter(saunaRepo, cacheProvider)
		log.Info().Msg("Sauna adapter wrapped with caching layer")
	}
	bookingRepo := database.NewBookingAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)

	var warmer *services.CacheWarmingService
	if cacheProvider != nil {
		warmer = services.NewCacheWarmingService(saunaRepo)
		warmer.StartPeriodicWarming(cacheWarmInterval)
	}

	var invalidation *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := invalidation.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start cache invalidation service")
			invalidation = nil
		}
	}

	authService := services.NewAuthService(userRepo, auth.NewJWTProvider(&cfg.Auth), auth.NewBcryptHasher(cfg.Auth.BcryptCost))
	saunaService := services.NewSaunaService(saunaRepo, eventBus)
	bookingService := services.NewBookingService(bookingRepo, saunaRepo, cacheProvider, eventBus, metrics)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo)

	// Validate already parsed these
	trustedProxies, _ := cfg.Server.TrustedProxyNets()

	router := routes.NewRouter(
		handlers.NewHealthHandler(pgClient),
		handlers.NewAuthHandler(authService, cacheProvider, trustedProxies),
		handlers.NewSaunaHandler(saunaService),
		handlers.NewBookingHandler(bookingService),
		handlers.NewReviewHandler(reviewService),
		authService,
		cfg.CORS.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if warmer != nil {
		warmer.Stop()
	}
	if invalidation != nil {
		invalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
