package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, TransportMemory, cfg.BridgeTransport)
	assert.Equal(t, 60*time.Second, cfg.PollInterval)
	assert.Equal(t, "/dupepanel/", cfg.AppURL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.EmbeddedWorker())
	assert.False(t, cfg.UsesPostgres())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("BRIDGE_TRANSPORT", "redis")
	t.Setenv("DATABASE_URL", "postgres://localhost/dupepanel")
	t.Setenv("POLL_INTERVAL", "15s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, TransportRedis, cfg.BridgeTransport)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.EmbeddedWorker())
	assert.True(t, cfg.UsesPostgres())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "bolt"}},
		{"unknown transport", map[string]string{"BRIDGE_TRANSPORT": "kafka"}},
		{"postgres without url", map[string]string{"BRIDGE_TRANSPORT": "postgres"}},
		{"bad timezone", map[string]string{"TIMEZONE": "Mars/Olympus"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TIMEZONE", "UTC")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
