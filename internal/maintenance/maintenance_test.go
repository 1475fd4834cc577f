package maintenance

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/sales"
	"github.com/albapepper/dupepanel/internal/settings"
)

type countingScheduler struct{ n atomic.Int32 }

func (c *countingScheduler) Reschedule(context.Context) { c.n.Add(1) }

type countingSyncer struct{ n atomic.Int32 }

func (c *countingSyncer) PushAll(context.Context) error {
	c.n.Add(1)
	return nil
}

func TestStart_RunsTasksUntilCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sched, sync := &countingScheduler{}, &countingSyncer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Start(ctx, sched, sync, Config{
			RescheduleInterval: 5 * time.Millisecond,
			ResyncInterval:     5 * time.Millisecond,
		}, logger)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return sched.n.Load() >= 2 && sync.n.Load() >= 2
	}, time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestRegisterHooks(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	s := sales.NewStore(kv, time.UTC)
	st := settings.NewStore(kv)
	sched := &countingScheduler{}

	RegisterHooks(s, st, sched)

	_, err := s.Create(ctx, sales.Input{At: time.Now().Add(-time.Minute)})
	require.NoError(t, err)
	require.NoError(t, st.Reset(ctx))
	assert.EqualValues(t, 2, sched.n.Load())
}
