package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel: "debug",
		HTTPPort: "0",
		Redis: config.Redis{
			Host:    "127.0.0.1",
			Port:    "1",
			Channel: "tictactoe:events",
		},
		Game: config.Game{
			ThinkingDelay:      500 * time.Millisecond,
			WinnerDisplay:      3 * time.Second,
			MistakeProbability: 0.4,
		},
	}
}

func TestRun(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Stops cleanly when the context is canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- Run(ctx, logger, testConfig())
		}()

		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("application did not stop")
		}
	})

	t.Run("Fails when redis is enabled but unreachable", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		conf := testConfig()
		conf.Redis.Enabled = true

		err := Run(ctx, logger, conf)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not connect to redis")
	})
}
