// Package maintenance runs the app process's periodic tasks as Go tickers.
// The notification queue is recomputed on every data change (see hooks.go)
// and again on a timer, so predictions never drift by more than one
// interval even without changes.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Config controls task intervals. Zero duration disables a task.
type Config struct {
	RescheduleInterval time.Duration // Recompute the notification queue
	ResyncInterval     time.Duration // Re-push replicated keys to the worker
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		RescheduleInterval: time.Minute,
		ResyncInterval:     15 * time.Minute,
	}
}

// Rescheduler recomputes the notification queue, logging its own errors.
type Rescheduler interface {
	Reschedule(ctx context.Context)
}

// Syncer pushes the app's replicated keys to the worker.
type Syncer interface {
	PushAll(ctx context.Context) error
}

// Start launches all configured tickers. sync may be nil. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, sched Rescheduler, sync Syncer, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"reschedule", cfg.RescheduleInterval,
		"resync", cfg.ResyncInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.RescheduleInterval > 0 {
		t := time.NewTicker(cfg.RescheduleInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { sched.Reschedule(ctx) })
	}

	// Resync: a worker that restarted or missed messages catches up here.
	if cfg.ResyncInterval > 0 && sync != nil {
		t := time.NewTicker(cfg.ResyncInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { resync(ctx, sync, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func resync(ctx context.Context, sync Syncer, logger *slog.Logger) {
	start := time.Now()
	if err := sync.PushAll(ctx); err != nil {
		logger.Warn("Resync: failed to push state to worker", "error", err)
		return
	}
	logger.Debug("Resync: pushed state to worker", "duration", time.Since(start).Round(time.Millisecond))
}
