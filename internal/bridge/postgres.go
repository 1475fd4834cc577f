package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second

	// Postgres rejects NOTIFY payloads of 8000 bytes or more.
	maxNotifyPayload = 7999
)

// PostgresTransport publishes with pg_notify over the shared pool and
// listens on a dedicated connection (not from the pool) per subscription.
type PostgresTransport struct {
	pool   *pgxpool.Pool
	dbURL  string
	logger *slog.Logger
}

func NewPostgresTransport(pool *pgxpool.Pool, dbURL string, logger *slog.Logger) *PostgresTransport {
	return &PostgresTransport{pool: pool, dbURL: dbURL, logger: logger}
}

func (t *PostgresTransport) Publish(ctx context.Context, topic string, msg Message) error {
	payload, err := encode(msg)
	if err != nil {
		return err
	}
	if len(payload) > maxNotifyPayload {
		return fmt.Errorf("publish %s: payload of %d bytes exceeds NOTIFY limit", msg.Type, len(payload))
	}
	if _, err := t.pool.Exec(ctx, "SELECT pg_notify($1, $2)", topic, string(payload)); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}
	return nil
}

// Subscribe connects and issues LISTEN before returning, then keeps the
// session alive in the background, reconnecting with backoff on loss.
func (t *PostgresTransport) Subscribe(ctx context.Context, topic string) (<-chan Message, error) {
	conn, err := t.listen(ctx, topic)
	if err != nil {
		return nil, err
	}

	out := make(chan Message, memoryBuffer)
	go func() {
		defer close(out)
		backoff := reconnectBackoff

		for {
			err := t.receive(ctx, conn, topic, out)
			conn.Close(context.Background())
			if ctx.Err() != nil {
				t.logger.Info("Bridge listener stopped (context cancelled)", "channel", topic)
				return
			}
			t.logger.Error("Bridge listener disconnected, reconnecting...",
				"channel", topic, "error", err, "backoff", backoff)

			for {
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return
				}
				conn, err = t.listen(ctx, topic)
				if err == nil {
					backoff = reconnectBackoff
					break
				}
				backoff = min(backoff*2, maxReconnect)
				t.logger.Error("Bridge listener reconnect failed",
					"channel", topic, "error", err, "backoff", backoff)
			}
		}
	}()
	return out, nil
}

func (t *PostgresTransport) listen(ctx context.Context, topic string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, t.dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{topic}.Sanitize()); err != nil {
		conn.Close(context.Background())
		return nil, fmt.Errorf("LISTEN %s: %w", topic, err)
	}
	t.logger.Info("Bridge listener connected", "channel", topic)
	return conn, nil
}

// receive runs one listen session. Returns when the connection drops or
// ctx is cancelled.
func (t *PostgresTransport) receive(ctx context.Context, conn *pgx.Conn, topic string, out chan<- Message) error {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		msg, err := decode([]byte(n.Payload))
		if err != nil {
			t.logger.Warn("Failed to parse bridge message", "channel", topic, "error", err)
			continue
		}
		select {
		case out <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close is a no-op: listen connections close with their context and the
// pool belongs to the caller.
func (t *PostgresTransport) Close() error { return nil }
