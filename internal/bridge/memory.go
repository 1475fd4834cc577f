package bridge

import (
	"context"
	"slices"
	"sync"
)

const memoryBuffer = 64

type memorySub struct {
	ch   chan Message
	done chan struct{}
}

// MemoryTransport connects two logical actors inside one process.
type MemoryTransport struct {
	mu   sync.RWMutex
	subs map[string][]*memorySub
}

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{subs: make(map[string][]*memorySub)}
}

// Publish delivers msg to every current subscriber of topic, blocking while
// a subscriber's buffer is full. With no subscribers the message is dropped.
func (t *MemoryTransport) Publish(ctx context.Context, topic string, msg Message) error {
	msg.Value = slices.Clone(msg.Value)

	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, sub := range t.subs[topic] {
		select {
		case sub.ch <- msg:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (t *MemoryTransport) Subscribe(ctx context.Context, topic string) (<-chan Message, error) {
	sub := &memorySub{
		ch:   make(chan Message, memoryBuffer),
		done: make(chan struct{}),
	}
	t.mu.Lock()
	t.subs[topic] = append(t.subs[topic], sub)
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		close(sub.done)
		t.mu.Lock()
		t.subs[topic] = slices.DeleteFunc(t.subs[topic], func(s *memorySub) bool { return s == sub })
		t.mu.Unlock()
		close(sub.ch)
	}()
	return sub.ch, nil
}

func (t *MemoryTransport) Close() error { return nil }
