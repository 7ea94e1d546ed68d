package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/runnaapp/runna-backend/internal/ai"
	"github.com/runnaapp/runna-backend/internal/api"
	"github.com/runnaapp/runna-backend/internal/auth"
	"github.com/runnaapp/runna-backend/internal/config"
	"github.com/runnaapp/runna-backend/internal/db"
	"github.com/runnaapp/runna-backend/internal/email"
	"github.com/runnaapp/runna-backend/internal/reminder"
	"github.com/runnaapp/runna-backend/internal/store"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// ── Database ──────────────────────────────────────────────────────────────
	pool, queries, err := openDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database ready", "path", cfg.DatabasePath)

	// ── Store (atomic multi-step writes) ──────────────────────────────────────
	st := store.New(pool, queries)

	// ── AI planner ────────────────────────────────────────────────────────────
	planner := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	logger.Info("ai: using Gemini", "model", cfg.GeminiModel)

	// ── Email ─────────────────────────────────────────────────────────────────
	// Enabled/disabled is decided exactly once here. With no API key every
	// send short-circuits to a skip — no per-call re-reads of the environment.
	var mailer email.Sender
	if cfg.ResendAPIKey != "" {
		mailer = email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName, cfg.BaseURL)
		logger.Info("email: Resend channel enabled", "from", cfg.EmailFromAddr)
	} else {
		mailer = email.NewDisabledSender()
		logger.Warn("email: RESEND_API_KEY not set, reminder channel disabled")
	}

	// ── Reminders ─────────────────────────────────────────────────────────────
	resolver := reminder.NewResolver(queries)
	dispatcher := reminder.NewDispatcher(resolver, mailer, logger)
	scheduler := reminder.NewScheduler(dispatcher, cfg.ReminderCronSpec, logger)
	if err := scheduler.Start(); err != nil {
		return err
	}

	// ── Auth ──────────────────────────────────────────────────────────────────
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		queries,
		st,
		planner,
		mailer,
		dispatcher,
		tokens,
		api.Config{
			BaseURL: cfg.BaseURL,
			Env:     cfg.Env,
		},
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // plan generation holds the request open
		IdleTimeout:  120 * time.Second,
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	// Root context cancelled by OS signal. Scheduler and HTTP server both
	// respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until either a signal arrives or the server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight HTTP requests and a running dispatch up to 20 seconds.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// openDB opens the SQLite database, verifies it is reachable, and applies the
// schema. WAL mode lets the reminder dispatch read while request handlers
// write; busy_timeout smooths over writer contention instead of surfacing
// SQLITE_BUSY to handlers.
func openDB(path string) (*sql.DB, *db.Queries, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}

	// SQLite allows one writer; a single connection avoids lock thrash from
	// the pool while WAL keeps reads concurrent enough for this workload.
	pool.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pool, db.New(pool), nil
}
