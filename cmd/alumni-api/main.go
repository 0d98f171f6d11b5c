// main is the entry point of the Alumni API.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger and metrics
//  3. Open the record store (SQLite, PostgreSQL or in-memory), optionally
//     behind the Redis stats cache
//  4. Start the welcome-mail dispatcher
//  5. Register all HTTP routes
//  6. Serve until an OS signal arrives, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/alumni-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/alumni-api
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/alumni-api/internal/alumni"
	"github.com/aanand-mishra/alumni-api/internal/config"
	"github.com/aanand-mishra/alumni-api/internal/graduation"
	alumnihandler "github.com/aanand-mishra/alumni-api/internal/http/handlers/alumni"
	"github.com/aanand-mishra/alumni-api/internal/http/handlers/health"
	"github.com/aanand-mishra/alumni-api/internal/http/middleware"
	"github.com/aanand-mishra/alumni-api/internal/metrics"
	"github.com/aanand-mishra/alumni-api/internal/notify"
	"github.com/aanand-mishra/alumni-api/internal/storage"
	"github.com/aanand-mishra/alumni-api/internal/storage/memory"
	"github.com/aanand-mishra/alumni-api/internal/storage/postgres"
	"github.com/aanand-mishra/alumni-api/internal/storage/rediscache"
	"github.com/aanand-mishra/alumni-api/internal/storage/sqlite"
)

func main() {
	startedAt := time.Now()

	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger and Metrics ──────────────────────────────────
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting alumni-api",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	m := metrics.New(prometheus.DefaultRegisterer)

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	ctx := context.Background()

	store, closers, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialise storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ── 4. Welcome Mails ──────────────────────────────────────────────────
	dispatcher := notify.NewDispatcher(notify.NewSender(cfg.SMTP, log), notify.DispatcherConfig{
		Workers: cfg.Notify.Workers,
		Timeout: cfg.Notify.Timeout,
		Logger:  log,
		Metrics: m,
	})

	policy := graduation.NewPolicy(nil)
	service := alumni.NewService(store, policy, dispatcher, m, log)
	importer := alumni.NewImporter(store, policy, dispatcher,
		alumni.WithImporterLogger(log),
		alumni.WithImporterMetrics(m),
	)

	// ── 5. Register HTTP Routes ───────────────────────────────────────────
	// Route table:
	//   POST   /api/alumni          → add one alumnus            (admin)
	//   POST   /api/alumni/upload   → bulk import a workbook     (admin)
	//   GET    /api/alumni/stats    → counts per dept/section    (admin)
	//   GET    /api/alumni          → directory listing          (any role)
	//   GET    /health              → liveness
	//   GET    /metrics             → Prometheus scrape
	auth := middleware.NewAuthorizer(cfg.Auth.JWTSecret)
	adminOnly := auth.Require(middleware.RoleAdmin)
	anyRole := auth.Require(middleware.RoleAdmin, middleware.RoleAlumni, middleware.RoleStudent)

	router := http.NewServeMux()

	router.Handle("POST /api/alumni", adminOnly(alumnihandler.New(service)))
	router.Handle("POST /api/alumni/upload", adminOnly(alumnihandler.Upload(importer, cfg.HTTPServer.MaxUploadBytes)))
	router.Handle("GET /api/alumni/stats", adminOnly(alumnihandler.Stats(service)))
	router.Handle("GET /api/alumni", anyRole(alumnihandler.GetList(service)))
	router.HandleFunc("GET /health", health.Get(startedAt))
	router.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: middleware.Logger(log)(router),

		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 6. Serve ──────────────────────────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	// In-flight requests finish first, then pending welcome mails, then
	// the store is closed.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}

	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("welcome mails still pending at shutdown", slog.String("error", err.Error()))
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.Error("failed to close resource", slog.String("error", err.Error()))
		}
	}

	log.Info("server stopped gracefully")
}

// openStorage builds the configured store. The returned closers are
// released in order at shutdown.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, []io.Closer, error) {
	var (
		store   storage.Storage
		closers []io.Closer
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = pg
		closers = append(closers, pg)
	case config.DriverMemory:
		store = memory.New()
	default:
		db, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		log.Info("storage initialised", slog.String("path", cfg.Storage.Path))
		store = db
		closers = append(closers, db)
	}

	if cfg.Redis.URL == "" {
		return store, closers, nil
	}

	rdb, err := rediscache.Connect(ctx, cfg.Redis.URL)
	if err != nil {
		for _, c := range closers {
			c.Close()
		}
		return nil, nil, err
	}
	log.Info("stats cache enabled", slog.Duration("ttl", cfg.Redis.StatsTTL))

	return rediscache.New(store, rdb, cfg.Redis.StatsTTL, log), append(closers, rdb), nil
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "staging":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
