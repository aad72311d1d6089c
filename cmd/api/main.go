// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the AnNgon HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taibuivan/anngon/internal/api"
	"github.com/taibuivan/anngon/internal/core/badge"
	"github.com/taibuivan/anngon/internal/core/category"
	"github.com/taibuivan/anngon/internal/core/food"
	"github.com/taibuivan/anngon/internal/core/stall"
	"github.com/taibuivan/anngon/internal/orders/order"
	"github.com/taibuivan/anngon/internal/platform/config"
	"github.com/taibuivan/anngon/internal/platform/constants"
	"github.com/taibuivan/anngon/internal/platform/migration"
	pgstore "github.com/taibuivan/anngon/internal/platform/postgres"
	redisstore "github.com/taibuivan/anngon/internal/platform/redis"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/internal/social/rating"
	"github.com/taibuivan/anngon/internal/users/account"
	"github.com/taibuivan/anngon/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "anngon"))
	slog.SetDefault(log)

	log.Info("[AnNgon] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is optional; real deployments inject the environment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("dotenv_load_failed", slog.Any("error", err))
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "anngon"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────

	// Users: authentication and account management
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	authService := auth.NewService(
		userRepository,
		sessionRepository,
		auth.NewResetTokenRepository(rdb),
		auth.NewVerificationTokenRepository(rdb),
		jwtSvc,
	)
	authHandler := auth.NewHandler(authService)
	if cfg.GoogleClientID != "" {
		authHandler = authHandler.WithGoogleOAuth(
			auth.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL),
			auth.NewOAuthStateRepository(rdb),
			cfg.OAuthSuccessURL,
		)
		log.Info("google_oauth_enabled")
	}

	accountService := account.NewService(account.NewAccountRepository(pool), account.NewSessionRepository(pool), log)

	// Catalogue: stalls own the authorization gate shared by menus and orders
	stallService := stall.NewService(stall.NewPostgresRepository(pool), log)
	foodService := food.NewService(food.NewPostgresRepository(pool), stallService, log)
	categoryService := category.NewService(category.NewPostgresRepository(pool), log)
	badgeService := badge.NewService(badge.NewPostgresRepository(pool), log)

	// Orders and ratings
	orderService := order.NewService(order.NewPostgresRepository(pool), foodService, stallService, log)
	ratingService := rating.NewService(rating.NewPostgresRepository(pool), orderService, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   account.NewHandler(accountService),
		Stall:     stall.NewHandler(stallService),
		Food:      food.NewHandler(foodService),
		Category:  category.NewHandler(categoryService),
		Badge:     badge.NewHandler(badgeService),
		Order:     order.NewHandler(orderService),
		Rating:    rating.NewHandler(ratingService),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
