package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/transport/redis"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solo/transport/rest"
	"github.com/rocketscienceinc/tictactoe-solo/transport/websocket"
)

// RunApp - runs the application until SIGINT or SIGTERM.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Run(ctx, logger, conf)
}

// Run serves one game session until ctx is canceled.
func Run(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	bot := service.NewBotService(conf.Game.MistakeProbability, nil)
	manager := usecase.NewGameManager(logger, clockwork.NewRealClock(), bot, usecase.Settings{
		ThinkingDelay: conf.Game.ThinkingDelay,
		WinnerDisplay: conf.Game.WinnerDisplay,
	})
	defer manager.Close()

	if conf.Redis.Enabled {
		client, err := redis.NewClient(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis: %w", err)
		}

		defer func() {
			if err = client.Close(); err != nil {
				log.Error("could not close redis client", "error", err)
			}
		}()

		updates, unsubscribe := manager.Subscribe(ctx)
		defer unsubscribe()

		publisher := redis.NewPublisher(logger, client, conf.Redis.Channel)
		go publisher.Run(ctx, updates)

		log.Info("Publishing game events", "addr", conf.Redis.GetRedisAddr(), "channel", conf.Redis.Channel)
	}

	router := rest.NewRouter(logger, manager, websocket.New(logger, manager))

	log.Info("Starting HTTP server", "port", conf.HTTPPort)
	if err := rest.Start(ctx, conf.HTTPPort, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

