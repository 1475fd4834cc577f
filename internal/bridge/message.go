// Package bridge replicates storage writes between the app process and the
// delivery worker and carries their control messages.
//
// Neither side shares memory with the other. Each keeps its own durable
// kvstore.Store; a Mirror wraps it, publishes local writes of replicated
// keys to the peer and applies the peer's writes locally. The conflict
// policy is last-write-wins per key, which is safe because every key has a
// single writer (see package kvstore).
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
)

// Type names a bridge message.
type Type string

const (
	// TypeStorageUpdate carries an app-side write to the worker.
	TypeStorageUpdate Type = "STORAGE_UPDATE"
	// TypeStorageSync carries a worker-side write back to the app.
	TypeStorageSync Type = "STORAGE_SYNC"
	// TypeCheckNotifications asks the worker to poll now.
	TypeCheckNotifications Type = "CHECK_NOTIFICATIONS"
	// TypeTestNotification asks the worker to emit a test alert.
	TypeTestNotification Type = "TEST_NOTIFICATION"
)

// Topics, one per direction.
const (
	TopicToWorker = "dupepanel_to_worker"
	TopicToApp    = "dupepanel_to_app"
)

// Message is a small control or replication message. A storage message
// with a null Value deletes the key.
type Message struct {
	Type  Type            `json:"type"`
	Key   string          `json:"key,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// IsStorage reports whether m replicates a key.
func (m Message) IsStorage() bool {
	return m.Type == TypeStorageUpdate || m.Type == TypeStorageSync
}

// Deletes reports whether a storage message removes its key.
func (m Message) Deletes() bool {
	return len(m.Value) == 0 || string(m.Value) == "null"
}

// Transport delivers messages between processes, at least once while both
// ends are alive. Subscribe returns once the subscription is live; the
// channel closes when ctx is done.
type Transport interface {
	Publish(ctx context.Context, topic string, msg Message) error
	Subscribe(ctx context.Context, topic string) (<-chan Message, error)
	Close() error
}

func encode(msg Message) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	return b, nil
}

func decode(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return msg, nil
}
