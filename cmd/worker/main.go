// Command worker is the standalone Dupepanel delivery worker. It keeps its
// own store in step with the app over Redis or Postgres LISTEN/NOTIFY and
// fires due slot and price-reset alerts.
//
// Usage:
//
//	BRIDGE_TRANSPORT=redis dupepanel-worker
//	BRIDGE_TRANSPORT=postgres DATABASE_URL=postgres://... dupepanel-worker
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/albapepper/dupepanel/internal/app"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/metrics"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	metrics.InitWorkerMetrics()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w, err := app.OpenWorker(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open worker", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		logger.Error("Failed to start worker", "error", err)
		os.Exit(1)
	}

	// Metrics only; the worker has no other HTTP surface.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.WorkerMetricsPort)
	srv := &http.Server{Addr: addr, Handler: mux, ReadTimeout: 10 * time.Second}
	go func() {
		logger.Info("Worker metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Worker stopped")
}
