// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

// Command api is the entry point for the Tatami HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services and HTTP handlers.
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

	"github.com/tatami-reader/tatami/internal/api"
	"github.com/tatami-reader/tatami/internal/catalog/chapter"
	"github.com/tatami-reader/tatami/internal/catalog/manga"
	"github.com/tatami-reader/tatami/internal/catalog/taxonomy"
	"github.com/tatami-reader/tatami/internal/gamification/achievement"
	"github.com/tatami-reader/tatami/internal/library/bookmark"
	"github.com/tatami-reader/tatami/internal/library/history"
	"github.com/tatami-reader/tatami/internal/platform/config"
	"github.com/tatami-reader/tatami/internal/platform/constants"
	"github.com/tatami-reader/tatami/internal/platform/migration"
	pgstore "github.com/tatami-reader/tatami/internal/platform/postgres"
	redisstore "github.com/tatami-reader/tatami/internal/platform/redis"
	"github.com/tatami-reader/tatami/internal/platform/sec"
	"github.com/tatami-reader/tatami/internal/platform/storage"
	"github.com/tatami-reader/tatami/internal/social/comment"
	"github.com/tatami-reader/tatami/internal/social/rating"
	"github.com/tatami-reader/tatami/internal/users/auth"
	"github.com/tatami-reader/tatami/internal/users/profile"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "tatami"))
	slog.SetDefault(log)

	log.Info("[Tatami] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "tatami"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A 30s deadline surfaces misconfiguration
	// quickly rather than hanging indefinitely.
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

	// ── 6. Shared Infrastructure ──────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	pageStore := storage.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────

	// Users
	userRepository := auth.NewUserRepository(pool)
	sessionRepository := auth.NewSessionRepository(rdb)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(userRepository, sessionRepository, resetTokenRepository, jwtSvc, log)
	authHandler := auth.NewHandler(authService)

	profileService := profile.NewService(userRepository, log)
	profileHandler := profile.NewHandler(profileService)

	// Catalog
	taxonomyRepository := taxonomy.NewPostgresRepository(pool)
	taxonomyService := taxonomy.NewService(taxonomyRepository, log)
	taxonomyHandler := taxonomy.NewHandler(taxonomyService)

	mangaRepository := manga.NewPostgresRepository(pool)
	featuredCache := manga.NewRedisFeaturedCache(rdb)
	mangaService := manga.NewService(mangaRepository, featuredCache, log)
	mangaHandler := manga.NewHandler(mangaService)

	chapterRepository := chapter.NewPostgresRepository(pool)
	chapterService := chapter.NewService(chapterRepository, log)
	chapterIngester := chapter.NewIngester(mangaRepository, chapterRepository, pageStore, log)
	chapterHandler := chapter.NewHandler(chapterService, chapterIngester)

	// Library
	historyRepository := history.NewPostgresRepository(pool)
	historyService := history.NewService(historyRepository, userRepository, log)
	historyHandler := history.NewHandler(historyService)

	bookmarkRepository := bookmark.NewPostgresRepository(pool)
	bookmarkService := bookmark.NewService(bookmarkRepository, log)
	bookmarkHandler := bookmark.NewHandler(bookmarkService)

	// Social
	ratingRepository := rating.NewPostgresRepository(pool)
	ratingService := rating.NewService(ratingRepository, log)
	ratingHandler := rating.NewHandler(ratingService)

	commentRepository := comment.NewPostgresRepository(pool)
	commentService := comment.NewService(commentRepository, log)
	commentHandler := comment.NewHandler(commentService)

	// Gamification. The nil clock means wall time; tests inject their own.
	achievementRepository := achievement.NewPostgresRepository(pool)
	achievementEvaluator := achievement.NewEvaluator(achievementRepository, achievementRepository, userRepository, nil, log)
	achievementService := achievement.NewService(achievementRepository, achievementEvaluator, log)
	achievementHandler := achievement.NewHandler(achievementService)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:    liveness,
		Readiness:   readiness,
		Auth:        authHandler,
		Profile:     profileHandler,
		Manga:       mangaHandler,
		Chapter:     chapterHandler,
		Taxonomy:    taxonomyHandler,
		History:     historyHandler,
		Bookmark:    bookmarkHandler,
		Rating:      ratingHandler,
		Comment:     commentHandler,
		Achievement: achievementHandler,
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
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
