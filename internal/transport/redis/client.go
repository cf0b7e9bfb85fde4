package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// NewClient connects to Redis and checks the connection with a ping.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := conn.Ping(ctx).Result(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return conn, nil
}

// Message is what subscribers of the events channel receive.
type Message struct {
	Event   entity.Event    `json:"event"`
	Payload entity.Snapshot `json:"payload"`
}

// Publisher forwards session snapshots to a Redis Pub/Sub channel. Nothing is stored.
type Publisher struct {
	logger  *slog.Logger
	client  *redis.Client
	channel string
}

func NewPublisher(logger *slog.Logger, client *redis.Client, channel string) *Publisher {
	return &Publisher{
		logger:  logger.With("component", "redis_publisher", "channel", channel),
		client:  client,
		channel: channel,
	}
}

// Publish sends one snapshot to the channel.
func (that *Publisher) Publish(ctx context.Context, snap entity.Snapshot) error {
	messageJSON, err := json.Marshal(Message{Event: snap.Event, Payload: snap})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, messageJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Run publishes snapshots until the channel is closed or ctx is done.
// Failed publishes are logged and skipped.
func (that *Publisher) Run(ctx context.Context, snapshots <-chan entity.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}

			if err := that.Publish(ctx, snap); err != nil {
				that.logger.Error("could not publish snapshot", "event", snap.Event, "error", err)
			}
		}
	}
}
