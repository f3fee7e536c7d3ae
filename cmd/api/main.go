// Command api is the ScorePush API server.
//
// Usage:
//
//	scorepush-api
//	API_PORT=8080 POLL_INTERVAL_SECONDS=60 scorepush-api

// @title ScorePush API
// @version 1.0.0
// @description Live football score push notification service: polls league scoreboards, detects match transitions, and delivers Web Push notifications to preference-filtered subscribers.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/mhenley/scorepush/internal/api"
	"github.com/mhenley/scorepush/internal/cache"
	"github.com/mhenley/scorepush/internal/config"
	"github.com/mhenley/scorepush/internal/cycle"
	"github.com/mhenley/scorepush/internal/db"
	"github.com/mhenley/scorepush/internal/notifications"
	"github.com/mhenley/scorepush/internal/provider/espn"
	"github.com/mhenley/scorepush/internal/state"

	_ "github.com/mhenley/scorepush/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Previous-state store: Redis when configured, Postgres otherwise
	var stateStore state.Store
	if cfg.RedisAddr != "" {
		rs, err := state.NewRedis(ctx, state.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.StateKey,
		})
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		stateStore = rs
		logger.Info("State store: redis", "addr", cfg.RedisAddr)
	} else {
		stateStore = state.NewPostgres(pool.Pool, cfg.StateKey)
		logger.Info("State store: postgres", "key", cfg.StateKey)
	}

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Scoreboard feed
	feed := espn.NewClient(cfg.FeedBaseURL, cfg.Leagues, cfg.FeedRateLimit, logger)

	// Push pipeline
	subs := notifications.NewSubscriptionStore(pool.Pool)
	sender := notifications.NewWebPushSender(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject, logger)
	dispatcher := notifications.NewDispatcher(subs, sender, cfg.CopyPrefix, logger)
	if sender == nil {
		logger.Info("Push delivery disabled (no VAPID keys)")
	}

	// Cycle runner + optional background worker
	runner := cycle.NewRunner(feed, stateStore, dispatcher, logger)
	if cfg.PollInterval > 0 {
		go runner.StartWorker(ctx, cfg.PollInterval)
	} else {
		logger.Info("Cycle worker disabled (POLL_INTERVAL_SECONDS not set)")
	}

	// Create router
	router := api.NewRouter(pool.Pool, appCache, cfg, feed, runner, subs, dispatcher, stateStore)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting ScorePush API",
			"addr", addr,
			"environment", cfg.Environment,
			"leagues", len(cfg.Leagues),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
