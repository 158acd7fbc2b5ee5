// Package redis publishes donation change events over Redis pub/sub so that
// every server instance refreshes its live feed.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/feed"
)

// Client wraps the go-redis client with health checking.
type Client struct {
	*redis.Client
}

// New connects to Redis. Returns nil, nil if no URL is configured.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

type refresher interface {
	Refresh(ctx context.Context) feed.Snapshot
}

// Notifier publishes change events and refreshes the local feed when one
// arrives, including events this instance published.
type Notifier struct {
	client  *redis.Client
	channel string
	local   refresher
	log     *slog.Logger
}

// NewNotifier creates a notifier on channel. local is refreshed for every
// received event and directly when publishing fails.
func NewNotifier(client *redis.Client, channel string, local refresher, logger *slog.Logger) *Notifier {
	return &Notifier{
		client:  client,
		channel: channel,
		local:   local,
		log:     logger.With("adapter", "redis_notifier"),
	}
}

// Notify publishes a change event. On failure the local feed is refreshed
// so this instance stays current.
func (n *Notifier) Notify(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	payload := time.Now().UTC().Format(time.RFC3339Nano)
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.log.WarnContext(ctx, "publish failed, refreshing locally",
			slog.String("channel", n.channel),
			slog.String("error", err.Error()))
		n.local.Refresh(ctx)
	}
}

// Listen subscribes to the channel and refreshes the local feed for every
// event until ctx is cancelled. The subscription is closed on return.
func (n *Notifier) Listen(ctx context.Context) error {
	pubsub := n.client.Subscribe(ctx, n.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe %s: %w", n.channel, err)
	}
	n.log.InfoContext(ctx, "listening for donation events", slog.String("channel", n.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			n.local.Refresh(ctx)
		}
	}
}
