// Package app assembles the app process and the delivery worker from
// configuration: stores, bridge transport, mirrors, scheduler and worker.
// The cmd packages only parse flags, start servers and wait for signals.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/albapepper/dupepanel/internal/backup"
	"github.com/albapepper/dupepanel/internal/bridge"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/db"
	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/maintenance"
	"github.com/albapepper/dupepanel/internal/notifications"
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

// Store namespaces inside a shared Postgres database.
const (
	NamespaceApp    = "app"
	NamespaceWorker = "worker"
)

// Options tweaks Open.
type Options struct {
	// EmbedWorker runs the delivery worker inside this process with its
	// own store. Required with the memory transport.
	EmbedWorker bool
}

// App is the app process: the single writer of sales, plates, settings and
// the notification queue.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	Pool      *db.Pool // nil unless Postgres is configured
	Transport bridge.Transport
	Mirror    *bridge.Mirror

	Sales     *sales.Store
	Plates    *sales.PlateStore
	Settings  *settings.Store
	Backup    *backup.Service
	Scheduler *notifications.Scheduler

	Worker *Worker // nil unless embedded

	closers []func() error
}

// Open builds the app process. Call Start before serving and Close on exit.
func Open(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (_ *App, err error) {
	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if cfg.UsesPostgres() {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.Pool = pool
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
	}

	local, closeStore, err := kvstore.Open(ctx, a.storeOptions(cfg.SQLitePath, NamespaceApp))
	if err != nil {
		return nil, fmt.Errorf("open app store: %w", err)
	}
	a.closers = append(a.closers, closeStore)

	transport, err := OpenTransport(ctx, cfg, a.Pool, logger)
	if err != nil {
		return nil, err
	}
	a.Transport = transport
	a.closers = append(a.closers, transport.Close)

	a.Mirror = bridge.NewMirror(local, transport, bridge.AppSide, logger)
	a.Sales = sales.NewStore(a.Mirror, cfg.Location)
	a.Plates = sales.NewPlateStore(a.Mirror)
	a.Settings = settings.NewStore(a.Mirror)
	a.Backup = backup.NewService(a.Sales, a.Plates, a.Settings, a.Mirror)
	a.Scheduler = notifications.NewScheduler(a.Sales, a.Settings, a.Mirror, a.Mirror, logger)
	maintenance.RegisterHooks(a.Sales, a.Settings, a.Scheduler)

	if opts.EmbedWorker {
		w, err := openWorker(ctx, cfg, a.Pool, transport, logger)
		if err != nil {
			return nil, err
		}
		a.Worker = w
		a.closers = append(a.closers, w.closeStore)
	}
	return a, nil
}

func (a *App) storeOptions(sqlitePath, namespace string) kvstore.Options {
	opts := kvstore.Options{
		Driver:     a.cfg.StoreDriver,
		SQLitePath: sqlitePath,
		Namespace:  namespace,
	}
	if a.Pool != nil {
		opts.Pool = a.Pool.Pool
	}
	return opts
}

// Start brings the bridge up and performs the initial sync: the embedded
// worker (if any) subscribes first so it sees the app's first push, then
// the queue is recomputed and every replicated key is pushed.
func (a *App) Start(ctx context.Context) error {
	if a.Worker != nil {
		if err := a.Worker.Start(ctx); err != nil {
			return err
		}
	}
	if err := a.Mirror.Start(ctx); err != nil {
		return fmt.Errorf("start app mirror: %w", err)
	}
	if err := a.Scheduler.Run(ctx); err != nil {
		a.logger.Warn("Initial schedule failed", "error", err)
	}
	if err := a.Mirror.PushAll(ctx); err != nil {
		a.logger.Warn("Initial sync to worker failed", "error", err)
	}
	return nil
}

// Close releases stores, transport and pool in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
