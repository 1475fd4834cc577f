package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albapepper/dupepanel/internal/bridge"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/db"
	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/notifications"
)

// Worker is the delivery worker process: its own durable store, kept in
// step with the app through a WorkerSide mirror.
type Worker struct {
	Mirror *bridge.Mirror
	Worker *notifications.Worker

	closeStore func() error
	closers    []func() error
}

// OpenWorker builds a standalone worker process. The memory transport
// cannot reach another process, so it is rejected here.
func OpenWorker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Worker, err error) {
	if cfg.EmbeddedWorker() {
		return nil, fmt.Errorf("BRIDGE_TRANSPORT=%s only works with the worker embedded in the api process", cfg.BridgeTransport)
	}

	var closers []func() error
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	var pool *db.Pool
	if cfg.UsesPostgres() {
		pool, err = db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		closers = append(closers, func() error { pool.Close(); return nil })
	}

	transport, err := OpenTransport(ctx, cfg, pool, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, transport.Close)

	w, err := openWorker(ctx, cfg, pool, transport, logger)
	if err != nil {
		return nil, err
	}
	w.closers = append(closers, w.closeStore)
	return w, nil
}

func openWorker(ctx context.Context, cfg *config.Config, pool *db.Pool, transport bridge.Transport, logger *slog.Logger) (*Worker, error) {
	opts := kvstore.Options{
		Driver:     cfg.StoreDriver,
		SQLitePath: cfg.WorkerSQLitePath,
		Namespace:  NamespaceWorker,
	}
	if pool != nil {
		opts.Pool = pool.Pool
	}
	local, closeStore, err := kvstore.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("open worker store: %w", err)
	}

	logger = logger.With("component", "worker")
	mirror := bridge.NewMirror(local, transport, bridge.WorkerSide, logger)
	worker := notifications.NewWorker(mirror, notifications.NewSender(cfg.AlertWebhookURL, logger), cfg.AppURL, logger)
	worker.SetInterval(cfg.PollInterval)
	mirror.OnControl(worker.HandleControl)

	return &Worker{Mirror: mirror, Worker: worker, closeStore: closeStore}, nil
}

// Start subscribes to the app's topic, then runs the poll loop in the
// background until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.Mirror.Start(ctx); err != nil {
		return fmt.Errorf("start worker mirror: %w", err)
	}
	go w.Worker.Run(ctx)
	return nil
}

// Close releases what OpenWorker opened. Embedded workers are closed by
// their App.
func (w *Worker) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	return errors.Join(errs...)
}
