package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/adapters/cache"
	"github.com/loyaltyscan/backend/internal/adapters/database"
	"github.com/loyaltyscan/backend/internal/adapters/events"
	"github.com/loyaltyscan/backend/internal/adapters/session"
	"github.com/loyaltyscan/backend/internal/api/handlers"
	"github.com/loyaltyscan/backend/internal/api/routes"
	"github.com/loyaltyscan/backend/internal/application/services"
	"github.com/loyaltyscan/backend/internal/domain/calendar"
	"github.com/loyaltyscan/backend/internal/domain/providers"
	"github.com/loyaltyscan/backend/internal/domain/repositories"
	"github.com/loyaltyscan/backend/internal/infrastructure/clients/postgres"
	"github.com/loyaltyscan/backend/internal/infrastructure/clients/redis"
	"github.com/loyaltyscan/backend/internal/infrastructure/notifications"
	"github.com/loyaltyscan/backend/internal/infrastructure/observability"
	"github.com/loyaltyscan/backend/pkg/config"
)

func main() {

	// Load configuration

	cfg, err := config.Load()

	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("loyaltyscan-api", cfg.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Resolve the loyalty calendar zone before touching storage; a typo in
	// LOYALTY_TIMEZONE must not silently shift every day boundary.
	loc, err := cfg.Loyalty.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Loyalty.Timezone).Msg("invalid loyalty timezone")
	}
	cal := calendar.New(loc)

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize Redis client")
		// Continue without Redis - the application can work without caching
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	// Initialize event bus for shop update broadcasts
	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized successfully")
	} else {
		log.Info().Msg("event bus disabled (Redis not available)")
	}

	// Initialize adapters

	userAdapter := database.NewUserAdapter(pgClient)
	visitAdapter := database.NewVisitAdapter(pgClient)

	// Wrap the shop adapter with caching if Redis is available
	baseShopAdapter := database.NewShopAdapter(pgClient)
	var shopAdapter repositories.ShopRepository
	if cacheProvider != nil {
		shopAdapter = database.NewCachedShopAdapter(baseShopAdapter, cacheProvider)
		log.Info().Msg("shop adapter wrapped with caching layer")
	} else {
		shopAdapter = baseShopAdapter
		log.Info().Msg("shop adapter running without cache (Redis unavailable)")
	}

	var sessionAdapter repositories.SessionRepository
	if redisClient != nil {
		sessionAdapter = session.NewRedisSessionAdapter(redisClient)
	} else {
		sessionAdapter = session.NewMemorySessionAdapter()
		log.Info().Msg("session adapter running in-memory (Redis unavailable)")
	}

	// Initialize the email sender. Registration notifications are optional;
	// the API runs without them.
	var emailSender providers.EmailSender
	if cfg.Email.APIKey == "" {
		log.Info().Msg("EMAIL_API_KEY is not set; registration emails disabled")
	} else {
		emailSender, err = notifications.NewHTTPEmailSender(&cfg.Email)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize email sender")
		}
	}

	// Initialize cache invalidation service
	var cacheInvalidationService *services.CacheInvalidationService
	if cacheProvider != nil && eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		} else {
			log.Info().Msg("cache invalidation service started successfully")
		}
	}

	// Initialize services

	userService := services.NewUserService(userAdapter)

	sessionService := services.NewSessionService(sessionAdapter, userAdapter)

	notificationService := services.NewNotificationService(emailSender)

	shopService := services.NewShopService(shopAdapter, userAdapter)
	shopService.SetNotificationService(notificationService)

	visitService := services.NewVisitService(visitAdapter, shopAdapter, userAdapter, cal, cfg.Loyalty.RejectFutureVisits)

	eligibilityService := services.NewEligibilityService(visitAdapter, cal, cfg.Loyalty.RewardThresholdDays)

	dashboardService := services.NewDashboardService(shopAdapter, visitAdapter, eligibilityService, cal)
	if cacheProvider != nil {
		dashboardService.SetCache(cacheProvider)
	}

	if eventBus != nil {
		shopService.SetEventBus(eventBus)
		visitService.SetEventBus(eventBus)
		log.Info().Msg("event bus configured for shop and visit services")
	}

	// Initialize handlers

	userHandler := handlers.NewUserHandler(userService)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	shopHandler := handlers.NewShopHandler(shopService)
	adminHandler := handlers.NewAdminHandler(shopService)

	visitHandler := handlers.NewVisitHandler(visitService, cal, metrics)
	customerHandler := handlers.NewCustomerHandler(visitAdapter, eligibilityService, metrics)

	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Set up router

	router := routes.NewRouter(
		userHandler,
		sessionHandler,
		shopHandler,
		adminHandler,
		visitHandler,
		customerHandler,
		dashboardHandler,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close event bus
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	// Stop cache invalidation service
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}

	log.Info().Msg("server stopped")
}
