package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a client for the bridge. Connectivity is checked
// with Ping by the caller.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisTransport carries messages over Redis pub/sub.
type RedisTransport struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisTransport(client *redis.Client, logger *slog.Logger) *RedisTransport {
	return &RedisTransport{client: client, logger: logger}
}

func (t *RedisTransport) Publish(ctx context.Context, topic string, msg Message) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	if err := t.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	return nil
}

// Subscribe waits for the subscription confirmation before returning.
func (t *RedisTransport) Subscribe(ctx context.Context, topic string) (<-chan Message, error) {
	ps := t.client.Subscribe(ctx, topic)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	t.logger.Info("Bridge subscriber connected", "channel", topic)

	out := make(chan Message, memoryBuffer)
	go func() {
		defer close(out)
		defer ps.Close()

		ch := ps.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				msg, err := decode([]byte(m.Payload))
				if err != nil {
					t.logger.Warn("Failed to parse bridge message", "channel", topic, "error", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (t *RedisTransport) Close() error {
	return t.client.Close()
}
