package suite

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	containerTTL = 120 // seconds
	startTimeout = 120 * time.Second
	waitMessage  = 5 * time.Second

	redisPort = "6379/tcp"
)

// Suite is a throwaway Redis server for tests of the event publisher.
type Suite struct {
	t      *testing.T
	ctx    context.Context
	Logger *slog.Logger

	// Client is connected to the container and closed on cleanup.
	Client *redis.Client
}

// Listener receives what is published on one channel.
type Listener struct {
	t        *testing.T
	ctx      context.Context
	messages <-chan *redis.Message
}

// New starts a Redis container for t. The test is skipped when Docker cannot be reached.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	t.Cleanup(cancel)

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker is not reachable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis: %v", err)
	}

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge redis: %v", err)
		}
	})

	_ = resource.Expire(containerTTL)

	client := redis.NewClient(&redis.Options{Addr: resource.GetHostPort(redisPort)})
	t.Cleanup(func() { _ = client.Close() })

	pool.MaxWait = startTimeout
	if err = pool.Retry(func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}

	return ctx, &Suite{
		t:      t,
		ctx:    ctx,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Client: client,
	}
}

// Addr is the host:port of the container.
func (that *Suite) Addr() string {
	return that.Client.Options().Addr
}

// ClosedClient returns a client for the container that is already closed.
func (that *Suite) ClosedClient() *redis.Client {
	that.t.Helper()

	client := redis.NewClient(that.Client.Options())
	if err := client.Close(); err != nil {
		that.t.Fatalf("could not close client: %v", err)
	}

	return client
}

// Subscribe listens on channel. It returns once Redis has confirmed the subscription,
// so nothing published afterwards is missed.
func (that *Suite) Subscribe(channel string) *Listener {
	that.t.Helper()

	pubsub := that.Client.Subscribe(that.ctx, channel)
	that.t.Cleanup(func() { _ = pubsub.Close() })

	if _, err := pubsub.Receive(that.ctx); err != nil {
		that.t.Fatalf("could not subscribe to %s: %v", channel, err)
	}

	return &Listener{
		t:        that.t,
		ctx:      that.ctx,
		messages: pubsub.Channel(),
	}
}

// Next decodes the next JSON message into v.
func (that *Listener) Next(v any) {
	that.t.Helper()

	select {
	case msg := <-that.messages:
		if err := json.Unmarshal([]byte(msg.Payload), v); err != nil {
			that.t.Fatalf("could not decode %q: %v", msg.Payload, err)
		}
	case <-time.After(waitMessage):
		that.t.Fatal("timed out waiting for a published message")
	case <-that.ctx.Done():
		that.t.Fatal("context done before a message arrived")
	}
}
