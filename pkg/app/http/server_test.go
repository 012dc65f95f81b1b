package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chainsafe/payment-verifier/pkg/config"
)

func TestNewServer(t *testing.T) {
	srv := NewServer(http.NotFoundHandler(), &config.ServerConfig{
		Host:        "127.0.0.1",
		Port:        8080,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: time.Minute,
	})

	assert.Equal(t, "127.0.0.1:8080", srv.Addr)
	assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	assert.Equal(t, time.Minute, srv.IdleTimeout)
}

func TestServeAndWait_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeAndWait(ctx, http.NotFoundHandler(), zap.NewNop(), &config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            0,
			ShutdownTimeout: time.Second,
		})
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}

func TestServeAndWait_RejectsNilArguments(t *testing.T) {
	require.Error(t, ServeAndWait(context.Background(), nil, nil, &config.ServerConfig{}))
	require.Error(t, ServeAndWait(context.Background(), http.NotFoundHandler(), nil, nil))
}
