// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/arcana-vip/internal/admin"
	"github.com/carterperez-dev/arcana-vip/internal/auth"
	"github.com/carterperez-dev/arcana-vip/internal/calendar"
	"github.com/carterperez-dev/arcana-vip/internal/card"
	"github.com/carterperez-dev/arcana-vip/internal/config"
	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/entitlement"
	"github.com/carterperez-dev/arcana-vip/internal/health"
	"github.com/carterperez-dev/arcana-vip/internal/lesson"
	"github.com/carterperez-dev/arcana-vip/internal/middleware"
	"github.com/carterperez-dev/arcana-vip/internal/progress"
	"github.com/carterperez-dev/arcana-vip/internal/server"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to an optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	logger.Info("tracer initialized",
		"export", cfg.Otel.Enabled,
		"endpoint", cfg.Otel.Endpoint,
	)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if err := db.Migrate(ctx, logger); err != nil {
		return err
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := auth.NewVerifier(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token verifier initialized",
		"algorithm", "ES256",
		"issuer", cfg.JWT.Issuer,
		"key_id", verifier.KeyID(),
	)

	clock := calendar.SystemClock{}
	days := calendar.NewResolver(cfg.Calendar.Timezone, clock, logger)
	logger.Info("calendar configured",
		"zone", days.Zone(),
		"degraded", days.Degraded(),
	)

	entitlementSvc := entitlement.NewService(
		entitlement.NewRepository(db.DB),
		clock,
		logger,
	)
	entitlementHandler := entitlement.NewHandler(entitlementSvc)

	tracker := progress.NewTracker(
		progress.NewRepository(db.DB),
		clock,
		logger,
		cfg.Progress.WriteTimeout,
	)

	cardSvc := card.NewService(
		card.NewRepository(db.DB),
		card.NewRedisCache(redis.Client, cfg.Cache.CardTTL),
		days,
		logger,
	)
	cardHandler := card.NewHandler(cardSvc, tracker)

	lessonHandler := lesson.NewHandler(
		lesson.NewService(lesson.NewRepository(db.DB), tracker),
	)

	healthHandler := health.NewHandler(db, redis, days)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:      db.Stats,
		RedisStats:   redis.PoolStats,
		DBPing:       db.Ping,
		RedisPing:    redis.Ping,
		Entitlements: entitlementSvc,
		Calendar:     days,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing(telemetry.TracerProvider))
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", verifier.GetJWKSHandler())

	authenticator := middleware.Authenticator(verifier)
	adminOnly := middleware.RequireAdmin(cfg.Admin.Emails)
	perUser := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByUser,
		FailOpen: true,
		Scope:    "gated",
	}).Handler
	gated := func(next http.Handler) http.Handler {
		return middleware.AccessGate(verifier, entitlementSvc)(perUser(next))
	}

	router.Route("/v1", func(r chi.Router) {
		entitlementHandler.RegisterRoutes(r, authenticator)
		cardHandler.RegisterRoutes(r, gated)
		lessonHandler.RegisterRoutes(r, gated)

		entitlementHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		cardHandler.RegisterAdminRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := tracker.Wait(shutdownCtx); err != nil {
		logger.Warn("progress writes still in flight", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
