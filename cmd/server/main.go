package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	// Internal packages
	"github.com/seu-repo/voxwallet/internal/adapter/cache"
	"github.com/seu-repo/voxwallet/internal/adapter/chain"
	"github.com/seu-repo/voxwallet/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/voxwallet/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voxwallet/internal/adapter/queue"
	"github.com/seu-repo/voxwallet/internal/adapter/storage/postgres"
	"github.com/seu-repo/voxwallet/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/voxwallet/internal/adapter/websocket"
	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/voxwallet/internal/observability/telemetry"
	"github.com/seu-repo/voxwallet/internal/ports"
	"github.com/seu-repo/voxwallet/internal/service/auth"
	"github.com/seu-repo/voxwallet/internal/service/contact"
	"github.com/seu-repo/voxwallet/internal/service/email"
	"github.com/seu-repo/voxwallet/internal/service/health"
	"github.com/seu-repo/voxwallet/internal/service/notify"
	"github.com/seu-repo/voxwallet/internal/service/transfer"
	"github.com/seu-repo/voxwallet/internal/service/voice"
	"github.com/seu-repo/voxwallet/pkg/config"
)

const (
	serviceName    = "voxwallet"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Bootstrap logger, replaced once config is loaded
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger = buildLogger(cfg.Logging, cfg.App.Environment)
	defer logger.Sync()

	logger.Info("Starting VoxWallet",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Pull secrets from Vault when configured
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("Failed to connect to Vault", zap.Error(err))
		}
		applySecrets(cfg, secrets, logger)
	}

	if cfg.JWT.Secret == "" {
		if cfg.App.Environment == "production" {
			logger.Fatal("JWT secret is required in production")
		}
		cfg.JWT.Secret = "dev-secret-change-me"
		logger.Warn("Using development JWT secret")
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	var db *gorm.DB
	err = circuitbreaker.RetryWithBackoff(context.Background(), 5, time.Second, func() error {
		var connErr error
		db, connErr = postgres.NewConnection(cfg.Database.URL, cfg.Database.LogQueries, logger)
		return connErr
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}
	if cfg.Database.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 6. Initialize Cache. Outside production a missing Redis degrades to
	// the in-memory cache so the service still boots; token revocation then
	// only holds within this instance.
	var appCache ports.Cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
	if err != nil {
		if cfg.App.Environment == "production" {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		appCache = cache.NewLocalCache(time.Minute, logger)
	} else {
		appCache = redisCache
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	var messageQueue queue.MessageQueue
	err = circuitbreaker.RetryWithBackoff(context.Background(), 5, time.Second, func() error {
		var connErr error
		messageQueue, connErr = newQueue(cfg.Queue, logger)
		return connErr
	})
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	contactRepo := postgres.NewContactRepository(db, logger)
	transferRepo := postgres.NewTransferRepository(db, logger)

	// 9. Initialize Circuit Breakers
	breakers := circuitbreaker.NewManager(logger)
	engineBreaker := breakers.Get("wallet-engine-submit", breakerSettings(cfg.CircuitBreaker))

	// 10. Initialize Wallet Engine Client
	chainClient := chain.NewClient(chain.Config{
		URL:     cfg.Chain.URL,
		APIKey:  cfg.Chain.APIKey,
		Timeout: cfg.Chain.Timeout,
	}, logger)

	// 11. Initialize Services (Business Logic Layer)
	emailService, err := email.NewService(emailConfig(cfg.Notification.Email), logger)
	if err != nil {
		logger.Fatal("Failed to initialize email service", zap.Error(err))
	}

	authService := auth.NewService(userRepo, appCache, emailService, auth.Config{
		Secret:          cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTokenDuration,
		RefreshTokenTTL: cfg.JWT.RefreshTokenDuration,
	}, logger)

	contactService := contact.NewService(contactRepo, appCache, contact.Config{
		SimilarityThreshold: cfg.Contacts.SimilarityThreshold,
		CacheTTL:            cfg.Contacts.CacheTTL,
	}, logger)

	transferService := transfer.NewService(transferRepo, userRepo, chainClient, engineBreaker, messageQueue, transfer.Config{
		Asset:          cfg.Chain.Asset,
		DefaultNetwork: cfg.Chain.Network,
	}, logger)

	notifyService := notify.NewService(messageQueue, userRepo, transferRepo, emailService, logger)

	// 12. Initialize WebSocket Hub and Voice Sessions
	wsHub := wsAdapter.NewHub(logger)
	go wsHub.Run()

	speech := domain.DefaultSpeechOptions()
	if cfg.Voice.Speech.Rate > 0 {
		speech.Rate = cfg.Voice.Speech.Rate
	}
	if cfg.Voice.Speech.Pitch > 0 {
		speech.Pitch = cfg.Voice.Speech.Pitch
	}
	if cfg.Voice.Speech.Volume > 0 {
		speech.Volume = cfg.Voice.Speech.Volume
	}

	limits := voice.DefaultAmountLimits()
	if cfg.Dialogue.AmountMin != "" {
		limits.Min = cfg.Dialogue.AmountMin
	}
	if cfg.Dialogue.AmountMax != "" {
		limits.Max = cfg.Dialogue.AmountMax
	}

	assistantCfg := voice.AssistantConfig{
		Machine: voice.MachineConfig{
			MaxAttempts:      cfg.Dialogue.MaxAttempts,
			Limits:           limits,
			ExtraAffirmative: cfg.Dialogue.ExtraAffirmative,
			ExtraNegative:    cfg.Dialogue.ExtraNegative,
		},
		NudgeDelay: cfg.Voice.NudgeDelay,
		Speech:     speech,
	}

	// Every connection and REST call for a user shares one assistant, so
	// a dialogue started on one device can be finished on another.
	sessions := voice.NewRegistry(func(userID string) ports.Assistant {
		speaker := wsAdapter.NewHubSpeaker(wsHub, userID)
		return voice.NewAssistant(userID, assistantCfg, contactService, transferService, userRepo, speaker, logger)
	})

	// 13. Subscribe to the Engine Transaction Feed
	var events *chain.EventStream
	if cfg.Chain.EventsURL != "" {
		events = chain.NewEventStream(cfg.Chain.EventsURL, cfg.Chain.APIKey, func(ctx context.Context, event ports.TxEvent) {
			if err := transferService.HandleTxEvent(ctx, event); err != nil {
				logger.Error("Failed to apply chain event",
					zap.String("tx_hash", event.Hash),
					zap.Error(err),
				)
			}
		}, logger)
		events.Start()
	} else {
		logger.Warn("Chain event stream disabled: no events_url configured, transfers will stay in submitted state")
	}

	// 14. Start Background Subscribers
	if err := notifyService.Start(); err != nil {
		logger.Fatal("Failed to start notification service", zap.Error(err))
	}
	announcer := wsAdapter.NewAnnouncer(wsHub, messageQueue, logger)
	if err := announcer.Start(); err != nil {
		logger.Fatal("Failed to start transfer announcer", zap.Error(err))
	}

	// 15. Initialize Health Service
	healthCfg := &health.Config{
		Version:  serviceVersion,
		DB:       sqlDB,
		Queue:    messageQueue,
		Breakers: breakers,
	}
	if redisCache != nil {
		healthCfg.Redis = redisCache.Client()
	}
	healthService := health.NewService(healthCfg, logger)
	healthService.RegisterChecker("wallet_engine", engineChecker(chainClient))

	// 16. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	} else {
		app.Use(middleware.DefaultCORS())
	}
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.NewRateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	// Health Check Endpoints
	healthHandler := health.NewFiberHandler(healthService)
	healthHandler.RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsPath := cfg.Prometheus.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(metricsPath, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// 17. API v1 Routes
	v1 := app.Group("/api/v1")

	// Auth routes (public)
	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/auth/logout", func(c *fiber.Ctx) error {
		if err := authHandler.Logout(c); err != nil {
			return err
		}
		// Also drop the user's dialogue so the next login starts fresh.
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			sessions.Remove(userID)
		}
		return nil
	})
	protected.Get("/auth/me", authHandler.Me)

	// Contact routes
	contactsHandler := handlers.NewContactsHandler(contactService, logger)
	protected.Get("/contacts", contactsHandler.List)
	protected.Post("/contacts", contactsHandler.Add)
	protected.Delete("/contacts/:id", contactsHandler.Remove)
	protected.Get("/contacts/resolve", contactsHandler.Resolve)

	// Transfer routes. Fixed paths go first so ":id" cannot swallow them.
	transfersHandler := handlers.NewTransfersHandler(transferService, logger)
	protected.Get("/transfers/latest", transfersHandler.GetLatest)
	protected.Get("/transfers/history", transfersHandler.GetHistory)
	protected.Get("/transfers/:id", transfersHandler.Get)
	protected.Get("/balance", transfersHandler.GetBalance)

	// Wallet routes
	walletHandler := handlers.NewWalletHandler(transferService, logger)
	protected.Post("/wallet", walletHandler.Setup)
	protected.Put("/wallet", walletHandler.Import)

	// Voice routes (REST fallback for clients without a socket)
	voiceHandler := handlers.NewVoiceHandler(sessions, cfg.Voice.MinConfidence, logger)
	protected.Post("/voice/utterance", voiceHandler.Utterance)
	protected.Get("/voice/dialogue", voiceHandler.Dialogue)
	protected.Post("/voice/cancel", voiceHandler.Cancel)

	// 18. Voice WebSocket
	voiceWS := wsAdapter.NewHandler(wsHub, sessions.Get, cfg.Voice.MinConfidence, logger)
	wsAdapter.SetupVoiceRoutes(app, voiceWS, middleware.AuthRequired(authService))

	// 19. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 20. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	if events != nil {
		events.Close()
	}
	wsHub.Stop()

	logger.Info("Server exited gracefully")
}

// buildLogger constructs the zap logger described by the logging section.
func buildLogger(cfg config.LoggingConfig, environment string) *zap.Logger {
	var zc zap.Config
	if environment == "development" || cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
			zc.Level = zap.NewAtomicLevelAt(level)
		}
	}
	if cfg.Output != "" {
		zc.OutputPaths = []string{cfg.Output}
	}
	if cfg.Sampling.Enabled && cfg.Sampling.Initial > 0 {
		zc.Sampling = &zap.SamplingConfig{
			Initial:    cfg.Sampling.Initial,
			Thereafter: cfg.Sampling.Thereafter,
		}
	} else {
		zc.Sampling = nil
	}

	logger, err := zc.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

// applySecrets overrides config values with Vault-held secrets. A missing
// secret keeps the config value, so partial Vault setups still boot.
func applySecrets(cfg *config.Config, secrets ports.SecretStore, log *zap.Logger) {
	if v, err := secrets.GetDatabaseCredentials(); err == nil && v != "" {
		cfg.Database.URL = v
	} else if err != nil {
		log.Warn("Vault: database credentials not available", zap.Error(err))
	}
	if v, err := secrets.GetJWTSecret(); err == nil && v != "" {
		cfg.JWT.Secret = v
	} else if err != nil {
		log.Warn("Vault: JWT secret not available", zap.Error(err))
	}
	if v, err := secrets.GetChainAPIKey(); err == nil && v != "" {
		cfg.Chain.APIKey = v
	} else if err != nil {
		log.Warn("Vault: chain API key not available", zap.Error(err))
	}
	if v, err := secrets.GetSendGridAPIKey(); err == nil && v != "" {
		cfg.Notification.Email.APIKey = v
	} else if err != nil {
		log.Warn("Vault: SendGrid API key not available", zap.Error(err))
	}
}

// newQueue connects to the configured message broker.
func newQueue(cfg config.QueueConfig, log *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Driver {
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.URL, log)
	default:
		return queue.NewNATSQueue(cfg.URL, log)
	}
}

// breakerSettings maps the circuit breaker config onto breaker settings,
// keeping the defaults for anything unset.
func breakerSettings(cfg config.CircuitBreakerConfig) circuitbreaker.Settings {
	settings := circuitbreaker.DefaultSettings()
	if cfg.MaxRequests > 0 {
		settings.MaxRequests = uint32(cfg.MaxRequests)
	}
	if cfg.Interval > 0 {
		settings.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		settings.Timeout = cfg.Timeout
	}
	if cfg.FailureThreshold > 0 {
		settings.FailureThreshold = uint32(cfg.FailureThreshold)
	}
	if cfg.SuccessThreshold > 0 {
		settings.SuccessThreshold = uint32(cfg.SuccessThreshold)
	}
	return settings
}

// emailConfig maps the notification section onto the email service config.
// Nil means "not configured" and picks the local SMTP defaults.
func emailConfig(cfg config.EmailConfig) *email.Config {
	if cfg.Provider == "" {
		return nil
	}
	return &email.Config{
		Provider:       cfg.Provider,
		FromEmail:      cfg.From,
		FromName:       cfg.FromName,
		SendGridAPIKey: cfg.APIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       cfg.SMTPPort,
		SMTPUsername:   cfg.SMTPUsername,
		SMTPPassword:   cfg.SMTPPassword,
		SMTPUseTLS:     cfg.SMTPUseTLS,
		BaseURL:        cfg.BaseURL,
	}
}

// engineChecker reports wallet engine reachability for the readiness probe.
func engineChecker(client *chain.Client) health.Checker {
	return func(ctx context.Context) health.CheckResult {
		start := time.Now()
		result := health.CheckResult{
			Name:      "wallet_engine",
			Timestamp: time.Now(),
		}

		if err := client.Ping(ctx); err != nil {
			result.Status = health.StatusUnhealthy
			result.Message = fmt.Sprintf("ping failed: %v", err)
		} else {
			result.Status = health.StatusHealthy
			result.Message = "rpc ok"
		}
		result.Duration = time.Since(start)

		return result
	}
}
