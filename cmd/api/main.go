// Command api is the Dupepanel app process: HTTP API, notification
// scheduler and maintenance tickers. With BRIDGE_TRANSPORT=memory the
// delivery worker runs in this process too.
//
// Usage:
//
//	dupepanel-api
//	API_PORT=8080 STORE_DRIVER=postgres BRIDGE_TRANSPORT=redis dupepanel-api

// @title Dupepanel API
// @version 1.0.0
// @description Sell-limit tracker: sales history, rolling-window quotas, cooldowns, sell price ladder, and scheduled slot-free notifications.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Dupepanel
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/dupepanel/internal/api"
	"github.com/albapepper/dupepanel/internal/api/handler"
	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/maintenance"
	"github.com/albapepper/dupepanel/internal/metrics"

	_ "github.com/albapepper/dupepanel/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	metrics.InitAppMetrics()
	if cfg.EmbeddedWorker() {
		metrics.InitWorkerMetrics()
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Opening stores...",
		"store", cfg.StoreDriver,
		"transport", cfg.BridgeTransport,
		"embedded_worker", cfg.EmbeddedWorker())
	a, err := app.Open(ctx, cfg, app.Options{EmbedWorker: cfg.EmbeddedWorker()}, logger)
	if err != nil {
		logger.Error("Failed to open app", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Bridge up, initial schedule and sync to the worker
	if err := a.Start(ctx); err != nil {
		logger.Error("Failed to start bridge", "error", err)
		os.Exit(1)
	}

	// Start maintenance tickers (reschedule, resync)
	go maintenance.Start(ctx, a.Scheduler, a.Mirror, maintenance.Config{
		RescheduleInterval: cfg.RescheduleInterval,
		ResyncInterval:     cfg.ResyncInterval,
	}, logger)

	// Create router
	deps := handler.Deps{
		Sales:    a.Sales,
		Plates:   a.Plates,
		Settings: a.Settings,
		Backup:   a.Backup,
		Queue:    a.Mirror,
		Notifier: a.Mirror,
		Location: cfg.Location,
	}
	if a.Pool != nil {
		deps.DB = a.Pool
	}
	router := api.NewRouter(handler.New(deps), cfg)

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
		logger.Info("Starting Dupepanel API",
			"addr", addr,
			"environment", cfg.Environment,
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
