package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/metrics"
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

// SaleLister is the read side of the event store.
type SaleLister interface {
	List(ctx context.Context) ([]sales.Sale, error)
}

// SettingsReader returns the current settings.
type SettingsReader interface {
	Get(ctx context.Context) (settings.Settings, error)
}

// Pinger asks the worker to check its queue now.
type Pinger interface {
	RequestCheck(ctx context.Context) error
}

// Scheduler recomputes the queue and replaces the persisted copy.
type Scheduler struct {
	sales    SaleLister
	settings SettingsReader
	kv       kvstore.Store
	pinger   Pinger
	logger   *slog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewScheduler wires a scheduler. pinger may be nil.
func NewScheduler(sl SaleLister, sr SettingsReader, kv kvstore.Store, pinger Pinger, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sales:    sl,
		settings: sr,
		kv:       kv,
		pinger:   pinger,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (s *Scheduler) SetClock(now func() time.Time) { s.now = now }

// Run loads sales and settings, computes the queue, persists it and pings
// the worker. While notifications are globally disabled the persisted queue
// is left untouched so overdue entries still fire once re-enabled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("read settings: %w", err)
	}
	if !cfg.NotificationsEnabled {
		metrics.SchedulerRunsTotal.WithLabelValues("disabled").Inc()
		return nil
	}

	list, err := s.sales.List(ctx)
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("list sales: %w", err)
	}

	queue := Compute(list, TogglesFrom(cfg), s.now())
	if err := SaveQueue(ctx, s.kv, queue); err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.SchedulerRunsTotal.WithLabelValues("ok").Inc()
	metrics.ScheduledQueueSize.Set(float64(len(queue)))
	s.logger.Debug("notifications scheduled", "count", len(queue))

	if s.pinger != nil {
		if err := s.pinger.RequestCheck(ctx); err != nil {
			s.logger.Warn("worker ping failed", "error", err)
		}
	}
	return nil
}

// Reschedule is Run for change hooks: errors are logged, not returned.
func (s *Scheduler) Reschedule(ctx context.Context) {
	if err := s.Run(ctx); err != nil {
		s.logger.Error("reschedule failed", "error", err)
	}
}
