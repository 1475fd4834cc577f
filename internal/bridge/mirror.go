package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/albapepper/dupepanel/internal/kvstore"
	"github.com/albapepper/dupepanel/internal/metrics"
)

// Side is one end of the bridge.
type Side struct {
	Name      string
	Publish   string // topic written to
	Listen    string // topic read from
	Outgoing  Type   // storage message type this side sends
	Replicate []string
	Accept    []string // keys the peer owns and may write here
}

var (
	// AppSide pushes settings, the queue and (on a full reset) the shown
	// record to the worker.
	AppSide = Side{
		Name:      "app",
		Publish:   TopicToWorker,
		Listen:    TopicToApp,
		Outgoing:  TypeStorageUpdate,
		Replicate: []string{kvstore.KeySettings, kvstore.KeyScheduled, kvstore.KeyShown},
		Accept:    []string{kvstore.KeyShown},
	}
	// WorkerSide pushes the shown record back to the app.
	WorkerSide = Side{
		Name:      "worker",
		Publish:   TopicToApp,
		Listen:    TopicToWorker,
		Outgoing:  TypeStorageSync,
		Replicate: []string{kvstore.KeyShown},
		Accept:    []string{kvstore.KeySettings, kvstore.KeyScheduled, kvstore.KeyShown},
	}
)

// ControlFunc handles non-storage messages received from the peer.
type ControlFunc func(ctx context.Context, msg Message)

// Mirror is a kvstore.Store that replicates writes of the side's keys to
// the peer and applies the peer's writes locally. The local store stays
// the source of truth: a failed publish is logged, never returned, and the
// peer catches up on the next write or PushAll.
type Mirror struct {
	local     kvstore.Store
	transport Transport
	side      Side
	logger    *slog.Logger
	control   ControlFunc
}

func NewMirror(local kvstore.Store, transport Transport, side Side, logger *slog.Logger) *Mirror {
	return &Mirror{
		local:     local,
		transport: transport,
		side:      side,
		logger:    logger.With("side", side.Name),
	}
}

// OnControl sets the handler for control messages. Call before Start.
func (m *Mirror) OnControl(fn ControlFunc) { m.control = fn }

// Local returns the wrapped store.
func (m *Mirror) Local() kvstore.Store { return m.local }

// --------------------------------------------------------------------------
// kvstore.Store
// --------------------------------------------------------------------------

func (m *Mirror) Get(ctx context.Context, key string) ([]byte, error) {
	return m.local.Get(ctx, key)
}

func (m *Mirror) List(ctx context.Context) (map[string][]byte, error) {
	return m.local.List(ctx)
}

func (m *Mirror) Set(ctx context.Context, key string, value []byte) error {
	if err := m.local.Set(ctx, key, value); err != nil {
		return err
	}
	m.replicate(ctx, key, value)
	return nil
}

func (m *Mirror) Delete(ctx context.Context, key string) error {
	if err := m.local.Delete(ctx, key); err != nil {
		return err
	}
	m.replicate(ctx, key, nil)
	return nil
}

func (m *Mirror) Clear(ctx context.Context) error {
	if err := m.local.Clear(ctx); err != nil {
		return err
	}
	for _, key := range m.side.Replicate {
		m.replicate(ctx, key, nil)
	}
	return nil
}

func (m *Mirror) replicate(ctx context.Context, key string, value []byte) {
	if !slices.Contains(m.side.Replicate, key) {
		return
	}
	if len(value) > 0 && !json.Valid(value) {
		m.logger.Warn("not replicating non-JSON value", "key", key)
		return
	}
	msg := Message{Type: m.side.Outgoing, Key: key, Value: json.RawMessage(value)}
	if err := m.send(ctx, msg); err != nil {
		m.logger.Warn("replicate failed", "key", key, "error", err)
	}
}

// --------------------------------------------------------------------------
// Control
// --------------------------------------------------------------------------

// PushAll sends every replicated key to the peer, then asks it to check.
// The app calls this on start so a worker that missed writes catches up.
func (m *Mirror) PushAll(ctx context.Context) error {
	for _, key := range m.side.Replicate {
		value, err := m.local.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("read %s for sync: %w", key, err)
		}
		msg := Message{Type: m.side.Outgoing, Key: key, Value: json.RawMessage(value)}
		if err := m.send(ctx, msg); err != nil {
			return fmt.Errorf("sync %s: %w", key, err)
		}
	}
	return m.RequestCheck(ctx)
}

// RequestCheck pings the worker to poll now.
func (m *Mirror) RequestCheck(ctx context.Context) error {
	return m.send(ctx, Message{Type: TypeCheckNotifications})
}

// RequestTest asks the worker to emit a test alert.
func (m *Mirror) RequestTest(ctx context.Context) error {
	return m.send(ctx, Message{Type: TypeTestNotification})
}

func (m *Mirror) send(ctx context.Context, msg Message) error {
	if err := m.transport.Publish(ctx, m.side.Publish, msg); err != nil {
		return err
	}
	metrics.BridgeMessagesTotal.WithLabelValues("out", string(msg.Type)).Inc()
	return nil
}

// --------------------------------------------------------------------------
// Receive loop
// --------------------------------------------------------------------------

// Start subscribes and returns once the subscription is live, then applies
// peer messages in the background until ctx is cancelled.
func (m *Mirror) Start(ctx context.Context) error {
	in, err := m.transport.Subscribe(ctx, m.side.Listen)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", m.side.Listen, err)
	}
	go m.run(ctx, in)
	return nil
}

func (m *Mirror) run(ctx context.Context, in <-chan Message) {
	m.logger.Info("Bridge mirror started", "listen", m.side.Listen, "publish", m.side.Publish)
	for msg := range in {
		metrics.BridgeMessagesTotal.WithLabelValues("in", string(msg.Type)).Inc()
		m.Apply(ctx, msg)
	}
	m.logger.Info("Bridge mirror stopped")
}

// Apply handles one incoming message. Storage messages overwrite the local
// key without echoing back. Keys the peer does not own are ignored, so
// each key keeps a single writer.
func (m *Mirror) Apply(ctx context.Context, msg Message) {
	if !msg.IsStorage() {
		if m.control != nil {
			m.control(ctx, msg)
		}
		return
	}
	if !slices.Contains(m.side.Accept, msg.Key) {
		m.logger.Warn("ignoring peer write to key it does not own", "key", msg.Key)
		return
	}

	var err error
	if msg.Deletes() {
		err = m.local.Delete(ctx, msg.Key)
	} else {
		err = m.local.Set(ctx, msg.Key, msg.Value)
	}
	if err != nil {
		m.logger.Error("apply peer write failed", "key", msg.Key, "error", err)
		return
	}
	m.logger.Debug("applied peer write", "key", msg.Key, "type", msg.Type)
}
