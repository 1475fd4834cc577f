package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/dupepanel/internal/bridge"
	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/metrics"
	"github.com/albapepper/dupepanel/internal/settings"
)

// Worker is the delivery side. Each entry moves pending → due → shown; the
// shown transition is recorded in the same pass that fires the alert, under
// a mutex, so concurrent checks never double-fire an id.
type Worker struct {
	kv       kvstore.Store
	sender   Sender
	target   string
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	pings chan struct{}
}

// NewWorker reads the queue, shown record and settings from kv and writes
// only the shown record back.
func NewWorker(kv kvstore.Store, sender Sender, target string, logger *slog.Logger) *Worker {
	return &Worker{
		kv:       kv,
		sender:   sender,
		target:   target,
		interval: DefaultPollInterval,
		logger:   logger,
		now:      time.Now,
		pings:    make(chan struct{}, 1),
	}
}

func (w *Worker) SetInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

func (w *Worker) SetClock(now func() time.Time) { w.now = now }

// CheckResult counts what one pass did.
type CheckResult struct {
	Sent       int
	Suppressed int
	Failed     int
}

// Check runs one poll pass. Globally disabled notifications make it a
// no-op, leaving due entries unshown. Every due entry not yet shown is
// marked shown whether its alert was sent, suppressed by a toggle, or
// failed, so nothing is retried.
func (w *Worker) Check(ctx context.Context) (CheckResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var res CheckResult
	cfg, err := settings.Load(ctx, w.kv)
	if err != nil {
		return res, err
	}
	if !cfg.NotificationsEnabled {
		return res, nil
	}

	queue, err := LoadQueue(ctx, w.kv)
	if err != nil {
		return res, err
	}
	shown, err := LoadShown(ctx, w.kv)
	if err != nil {
		return res, err
	}

	now := w.now()
	toggles := TogglesFrom(cfg)
	changed := false

	for _, n := range queue {
		if shown.Has(n.ID) || !n.Due(now) {
			continue
		}

		outcome := "suppressed"
		if toggles.Allows(n.Kind) {
			if err := w.sender.Send(ctx, AlertFor(n, w.target)); err != nil {
				w.logger.Warn("alert failed", "id", n.ID, "kind", n.Kind, "error", err)
				outcome = "failed"
				res.Failed++
			} else {
				outcome = "sent"
				res.Sent++
			}
		} else {
			res.Suppressed++
		}
		metrics.AlertsTotal.WithLabelValues(string(n.Kind), outcome).Inc()

		shown.Add(n.ID)
		changed = true
	}

	if changed {
		shown.trim()
		if err := SaveShown(ctx, w.kv, shown); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Ping requests an immediate check. Never blocks; pings coalesce.
func (w *Worker) Ping() {
	select {
	case w.pings <- struct{}{}:
	default:
	}
}

// SendTest emits a two-slots alert without touching the shown record.
func (w *Worker) SendTest(ctx context.Context) error {
	if err := w.sender.Send(ctx, TestAlert(w.target)); err != nil {
		return fmt.Errorf("send test alert: %w", err)
	}
	return nil
}

// Run checks immediately, then on every tick and ping.
// Blocks until ctx is cancelled. Intended to be called with `go`.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Notification worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll(ctx)
	for {
		select {
		case <-ticker.C:
			w.poll(ctx)
		case <-w.pings:
			w.poll(ctx)
		case <-ctx.Done():
			w.logger.Info("Notification worker stopped")
			return
		}
	}
}

// poll never lets a storage error stop the loop.
func (w *Worker) poll(ctx context.Context) {
	res, err := w.Check(ctx)
	if err != nil {
		metrics.WorkerPollErrorsTotal.Inc()
		w.logger.Error("dispatch error", "error", err)
		return
	}
	if res.Sent+res.Suppressed+res.Failed > 0 {
		w.logger.Info("dispatch batch",
			"sent", res.Sent, "suppressed", res.Suppressed, "failed", res.Failed)
	}
}

// HandleControl reacts to control messages from the app process.
func (w *Worker) HandleControl(ctx context.Context, msg bridge.Message) {
	switch msg.Type {
	case bridge.TypeCheckNotifications:
		w.Ping()
	case bridge.TypeTestNotification:
		if err := w.SendTest(ctx); err != nil {
			w.logger.Warn("test alert failed", "error", err)
		}
	default:
		w.logger.Debug("ignoring control message", "type", msg.Type)
	}
}
