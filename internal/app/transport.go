package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/dupepanel/internal/bridge"
	"github.com/albapepper/dupepanel/internal/config"
	"github.com/albapepper/dupepanel/internal/db"
)

// OpenTransport builds the configured bridge transport. pool is required
// for the postgres transport.
func OpenTransport(ctx context.Context, cfg *config.Config, pool *db.Pool, logger *slog.Logger) (bridge.Transport, error) {
	switch cfg.BridgeTransport {
	case config.TransportMemory:
		return bridge.NewMemoryTransport(), nil
	case config.TransportPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres transport requires a database pool")
		}
		return bridge.NewPostgresTransport(pool.Pool, cfg.DatabaseURL, logger), nil
	case config.TransportRedis:
		client := bridge.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return bridge.NewRedisTransport(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown bridge transport %q", cfg.BridgeTransport)
	}
}
