package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vctbuilder/internal/integrity/models"
	"vctbuilder/pkg/platform/sentinel"
)

// Redis shares hash results between server replicas.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get returns sentinel.ErrNotFound on a miss and wraps transport errors.
func (c *Redis) Get(ctx context.Context, url string) (*models.HashResult, error) {
	data, err := c.client.Get(ctx, Key(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get hash cache: %w", err)
	}
	var res models.HashResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode hash cache: %w", err)
	}
	return &res, nil
}

func (c *Redis) Set(ctx context.Context, url string, res *models.HashResult) error {
	if res == nil {
		return fmt.Errorf("hash result is required")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode hash cache: %w", err)
	}
	if err := c.client.Set(ctx, Key(url), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set hash cache: %w", err)
	}
	return nil
}
