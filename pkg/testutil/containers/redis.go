//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisContainer struct {
	Container testcontainers.Container
	URL       string
	Client    *redis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	c, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	url, err := c.ConnectionString(ctx)
	if err != nil {
		abort(t, c, "redis url: %v", err)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		abort(t, c, "parse redis url %q: %v", url, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		abort(t, c, "ping redis: %v", err)
	}
	return &RedisContainer{Container: c, URL: url, Client: client}
}

// Reset drops every key between tests.
func (r *RedisContainer) Reset(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}
