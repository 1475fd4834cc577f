package bridge

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dupepanel/internal/kvstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type pair struct {
	app, worker     *Mirror
	appKV, workerKV *kvstore.MemoryStore

	mu      sync.Mutex
	control []Type
}

func (p *pair) controls() []Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Type(nil), p.control...)
}

func newPair(t *testing.T) *pair {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tr := NewMemoryTransport()
	p := &pair{appKV: kvstore.NewMemoryStore(), workerKV: kvstore.NewMemoryStore()}
	p.app = NewMirror(p.appKV, tr, AppSide, testLogger())
	p.worker = NewMirror(p.workerKV, tr, WorkerSide, testLogger())
	p.worker.OnControl(func(_ context.Context, msg Message) {
		p.mu.Lock()
		p.control = append(p.control, msg.Type)
		p.mu.Unlock()
	})

	require.NoError(t, p.worker.Start(ctx))
	require.NoError(t, p.app.Start(ctx))
	return p
}

func eventuallyValue(t *testing.T, kv kvstore.Store, key, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		v, err := kv.Get(context.Background(), key)
		return err == nil && string(v) == want
	}, time.Second, 5*time.Millisecond)
}

func TestMirror_ReplicatesOwnedKeysOnly(t *testing.T) {
	p := newPair(t)
	ctx := context.Background()

	require.NoError(t, p.app.Set(ctx, kvstore.KeySales, []byte(`[{"id":"a"}]`)))
	require.NoError(t, p.app.Set(ctx, kvstore.KeySettings, []byte(`{"theme":"dark"}`)))

	eventuallyValue(t, p.workerKV, kvstore.KeySettings, `{"theme":"dark"}`)
	v, err := p.workerKV.Get(ctx, kvstore.KeySales)
	require.NoError(t, err)
	assert.Nil(t, v)

	local, err := p.app.Get(ctx, kvstore.KeySales)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(local))
}

func TestMirror_WorkerWritesFlowBack(t *testing.T) {
	p := newPair(t)
	ctx := context.Background()

	require.NoError(t, p.worker.Set(ctx, kvstore.KeyShown, []byte(`["a-1"]`)))
	eventuallyValue(t, p.appKV, kvstore.KeyShown, `["a-1"]`)

	// The worker does not own the queue, so its writes stay local.
	require.NoError(t, p.worker.Set(ctx, kvstore.KeyScheduled, []byte(`[]`)))
	require.NoError(t, p.worker.Set(ctx, kvstore.KeyShown, []byte(`["a-1","b-2"]`)))
	eventuallyValue(t, p.appKV, kvstore.KeyShown, `["a-1","b-2"]`)
	v, err := p.appKV.Get(ctx, kvstore.KeyScheduled)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMirror_DeleteAndClearPropagate(t *testing.T) {
	p := newPair(t)
	ctx := context.Background()

	require.NoError(t, p.app.Set(ctx, kvstore.KeyScheduled, []byte(`[{"id":"x"}]`)))
	eventuallyValue(t, p.workerKV, kvstore.KeyScheduled, `[{"id":"x"}]`)

	require.NoError(t, p.app.Delete(ctx, kvstore.KeyScheduled))
	eventuallyValue(t, p.workerKV, kvstore.KeyScheduled, "")

	require.NoError(t, p.workerKV.Set(ctx, kvstore.KeyShown, []byte(`["z"]`)))
	require.NoError(t, p.app.Clear(ctx))
	eventuallyValue(t, p.workerKV, kvstore.KeyShown, "")
}

func TestMirror_PushAllAndControl(t *testing.T) {
	p := newPair(t)
	ctx := context.Background()

	// Written behind the mirror's back, e.g. before the worker started.
	require.NoError(t, p.appKV.Set(ctx, kvstore.KeyScheduled, []byte(`[{"id":"q"}]`)))

	require.NoError(t, p.app.PushAll(ctx))
	eventuallyValue(t, p.workerKV, kvstore.KeyScheduled, `[{"id":"q"}]`)

	require.NoError(t, p.app.RequestTest(ctx))
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(
			[]Type{TypeCheckNotifications, TypeTestNotification}, p.controls())
	}, time.Second, 5*time.Millisecond)
}

func TestMirror_ApplyIgnoresUnknownKeys(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	m := NewMirror(kv, NewMemoryTransport(), WorkerSide, testLogger())
	ctx := context.Background()

	m.Apply(ctx, Message{Type: TypeStorageUpdate, Key: "other", Value: []byte(`1`)})
	all, err := kv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	m.Apply(ctx, Message{Type: TypeStorageUpdate, Key: kvstore.KeySettings, Value: []byte(`{}`)})
	v, err := kv.Get(ctx, kvstore.KeySettings)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(v))

	m.Apply(ctx, Message{Type: TypeStorageUpdate, Key: kvstore.KeySettings, Value: []byte(`null`)})
	v, err = kv.Get(ctx, kvstore.KeySettings)
	require.NoError(t, err)
	assert.Nil(t, v)

	m.Apply(ctx, Message{Type: TypeStorageUpdate, Key: kvstore.KeySales, Value: []byte(`[{"id":"x"}]`)})
	v, err = kv.Get(ctx, kvstore.KeySales)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMirror_AppSideAcceptsOnlyShownRecord(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	m := NewMirror(kv, NewMemoryTransport(), AppSide, testLogger())
	ctx := context.Background()

	for _, key := range []string{kvstore.KeySales, kvstore.KeyPlates, kvstore.KeySettings, kvstore.KeyScheduled} {
		m.Apply(ctx, Message{Type: TypeStorageSync, Key: key, Value: []byte(`[]`)})
	}
	all, err := kv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	m.Apply(ctx, Message{Type: TypeStorageSync, Key: kvstore.KeyShown, Value: []byte(`["a-1"]`)})
	v, err := kv.Get(ctx, kvstore.KeyShown)
	require.NoError(t, err)
	assert.Equal(t, `["a-1"]`, string(v))
}

func TestMemoryTransport_UnsubscribeOnCancel(t *testing.T) {
	tr := NewMemoryTransport()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := tr.Subscribe(ctx, "t")
	require.NoError(t, err)
	require.NoError(t, tr.Publish(context.Background(), "t", Message{Type: TypeCheckNotifications}))
	assert.Equal(t, TypeCheckNotifications, (<-ch).Type)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, open := <-ch:
			return !open
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, tr.Publish(context.Background(), "t", Message{Type: TypeCheckNotifications}))
}

func TestMessageCodec(t *testing.T) {
	b, err := encode(Message{Type: TypeStorageSync, Key: kvstore.KeyShown, Value: []byte(`["a"]`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"STORAGE_SYNC","key":"dupepanel_shown_notifications","value":["a"]}`, string(b))

	msg, err := decode([]byte(`{"type":"CHECK_NOTIFICATIONS"}`))
	require.NoError(t, err)
	assert.False(t, msg.IsStorage())

	_, err = decode([]byte(`{`))
	require.Error(t, err)
}
