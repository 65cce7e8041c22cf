package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-history/internal/config"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:        "info",
		LogFormat:       config.LogFormatJSON,
		HTTPPort:        "0",
		SocketPort:      "0",
		Storage:         config.StorageMemory,
		GameTTL:         time.Hour,
		SweepInterval:   time.Minute,
		ShutdownTimeout: time.Second,
		Redis:           config.Redis{Host: "127.0.0.1", Port: "1"},
	}
}

func TestRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Stops cleanly when the context is canceled", func(t *testing.T) {
		// Given: a running application with in-memory storage
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- Run(ctx, logger, testConfig()) }()

		// When: the context is canceled
		cancel()

		// Then: Run returns without error
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("application did not stop")
		}
	})

	t.Run("Fails when redis is unreachable", func(t *testing.T) {
		conf := testConfig()
		conf.Storage = config.StorageRedis

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := Run(ctx, logger, conf)

		require.ErrorContains(t, err, "could not connect to redis storage")
	})
}
