//go:build integration

package redis

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/Saifff-551/foodhelp/internal/config"
	"github.com/Saifff-551/foodhelp/internal/feed"
)

type countingRefresher struct {
	n atomic.Int32
}

func (c *countingRefresher) Refresh(ctx context.Context) feed.Snapshot {
	c.n.Add(1)
	return feed.Snapshot{}
}

func TestNotifier_PublishReachesEveryListener(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := New(ctx, config.RedisConfig{URL: url, Channel: "test:donations"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Health(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, b := &countingRefresher{}, &countingRefresher{}
	na := NewNotifier(client.Client, "test:donations", a, logger)
	nb := NewNotifier(client.Client, "test:donations", b, logger)

	listenCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	go func() { _ = na.Listen(listenCtx) }()
	go func() { _ = nb.Listen(listenCtx) }()

	// Wait for both subscriptions to register.
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, "test:donations").Result()
		return err == nil && n["test:donations"] == 2
	}, 5*time.Second, 50*time.Millisecond)

	na.Notify(ctx)

	require.Eventually(t, func() bool {
		return a.n.Load() == 1 && b.n.Load() == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestNew_Disabled(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	require.Nil(t, client)
}
