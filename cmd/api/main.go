// Copyright (c) 2026 Maria. All rights reserved.

// Command api is the entry point for the Maria HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers and ensure the admin account exists.
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

	"github.com/lelipitri23-dev/Maria/internal/admin"
	"github.com/lelipitri23-dev/Maria/internal/api"
	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/core/episode"
	"github.com/lelipitri23-dev/Maria/internal/core/taxonomy"
	"github.com/lelipitri23-dev/Maria/internal/platform/config"
	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/migration"
	pgstore "github.com/lelipitri23-dev/Maria/internal/platform/postgres"
	redisstore "github.com/lelipitri23-dev/Maria/internal/platform/redis"
	"github.com/lelipitri23-dev/Maria/internal/platform/sec"
	"github.com/lelipitri23-dev/Maria/internal/platform/session"
	"github.com/lelipitri23-dev/Maria/internal/platform/storage"
	"github.com/lelipitri23-dev/Maria/internal/report"
	"github.com/lelipitri23-dev/Maria/internal/seo"
	"github.com/lelipitri23-dev/Maria/internal/users/auth"
	"github.com/lelipitri23-dev/Maria/internal/users/bookmark"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "maria"))
	slog.SetDefault(log)

	log.Info("[Maria] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "maria"))
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

	// ── 6. Identity Plumbing ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	sessionStore := session.NewStore(rdb)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Storage ────────────────────────────────────────────────────────
	var uploader storage.Uploader
	var staticImages http.Handler
	if cfg.HasObjectStorage() {
		uploader, err = storage.NewR2Uploader(startupCtx, storage.R2Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			PublicDomain: cfg.S3PublicDomain,
		})
		must(log, err, "initialize object storage")
		log.Info("storage_backend_selected", slog.String("backend", "r2"))
	} else {
		diskUploader, diskErr := storage.NewDiskUploader(cfg.UploadDiskPath)
		must(log, diskErr, "initialize disk storage")
		uploader = diskUploader
		staticImages = diskUploader.FileServer()
		log.Info("storage_backend_selected", slog.String("backend", "disk"))
	}

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	taxonomyService := taxonomy.NewService(
		taxonomy.NewPostgresRepository(pool),
		taxonomy.NewRedisCache(rdb),
		log,
	)

	animeService := anime.NewService(anime.NewPostgresRepository(pool), log)
	animeHandler := anime.NewHandler(animeService, taxonomyService, uploader)

	episodeService := episode.NewService(episode.NewPostgresRepository(pool), animeService, log)
	episodeHandler := episode.NewHandler(episodeService)

	userRepository := auth.NewPostgresRepository(pool)
	authService := auth.NewService(userRepository, sessionStore, jwtSvc, log)
	authHandler := auth.NewHandler(authService, cfg.IsProduction())

	must(log, authService.EnsureAdmin(startupCtx, cfg.AdminUsername, cfg.AdminPassword), "ensure admin account")

	bookmarkService := bookmark.NewService(bookmark.NewPostgresRepository(pool))
	bookmarkHandler := bookmark.NewHandler(bookmarkService)

	reportService := report.NewService(report.NewPostgresRepository(pool))
	reportHandler := report.NewHandler(reportService)

	adminService := admin.NewService(
		animeService, episodeService, userRepository, reportService,
		episodeService,
		admin.NewDoodClient(cfg.DoodAPIURL, cfg.DoodAPIKey),
		admin.NewBackupStore(pool),
	)
	adminHandler := admin.NewHandler(adminService)

	feedHandler := api.NewFeedHandler(animeService, episodeService)
	seoHandler := seo.NewHandler(cfg.SiteURL, seo.NewPostgresRepository(pool), taxonomyService, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Anime:     animeHandler,
		Episode:   episodeHandler,
		Bookmark:  bookmarkHandler,
		Report:    reportHandler,
		Admin:     adminHandler,
		Feed:      feedHandler,
		SEO:       seoHandler,

		StaticImages: staticImages,
	}

	server := api.NewServer(context.Background(), cfg, log, jwtSvc, sessionStore, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
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
