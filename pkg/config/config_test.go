package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
store: memory
auth:
  jwt_secret: secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "payment-verifier", cfg.Auth.Issuer)
	assert.Equal(t, 10*time.Second, cfg.RPC.CallTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Verification.StaleAfter)
	assert.Equal(t, 100, cfg.Verification.StaleRetryThreshold)
	assert.Equal(t, 20, cfg.Verification.NotFoundRetryThreshold)
	assert.InDelta(t, 0.01, cfg.Verification.DefaultTolerance, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Payments.SessionTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
store: memory
server:
  port: 8080
auth:
  jwt_secret: secret
`)
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing jwt secret",
			body: "store: memory\n",
			want: "auth.jwt_secret is required",
		},
		{
			name: "unknown store",
			body: "store: sqlite\nauth:\n  jwt_secret: s\n",
			want: "store must be",
		},
		{
			name: "tolerance out of range",
			body: "store: memory\nauth:\n  jwt_secret: s\nverification:\n  default_tolerance: 1.5\n",
			want: "verification.default_tolerance",
		},
		{
			name: "zero scheduler interval",
			body: "store: memory\nauth:\n  jwt_secret: s\nscheduler:\n  interval: 0s\n",
			want: "scheduler.interval must be positive",
		},
		{
			name: "redis lock ttl",
			body: "store: memory\nauth:\n  jwt_secret: s\nredis:\n  enabled: true\n  lock_ttl: 0s\n",
			want: "redis.lock_ttl must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LoggingConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(LoggingConfig{Level: "loud", Format: "json"})
	require.Error(t, err)

	_, err = NewLogger(LoggingConfig{Level: "info", Format: "xml"})
	require.Error(t, err)
}
