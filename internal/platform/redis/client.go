// Package redis connects the shared hash cache backend and exports its pool
// statistics.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	URL          string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Registerer receives the pool gauges; nil disables them.
	Registerer prometheus.Registerer
}

// DefaultConfig keeps timeouts short: a slow cache must not hold up a hash
// request that could be served by fetching.
func DefaultConfig(url string) Config {
	return Config{
		URL:          url,
		PoolSize:     8,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  300 * time.Millisecond,
		WriteTimeout: 300 * time.Millisecond,
	}
}

type poolMetrics struct {
	total    prometheus.Gauge
	idle     prometheus.Gauge
	timeouts prometheus.Counter
}

func newPoolMetrics(reg prometheus.Registerer) *poolMetrics {
	f := promauto.With(reg)
	return &poolMetrics{
		total: f.NewGauge(prometheus.GaugeOpts{
			Name: "vct_redis_pool_total_conns",
			Help: "Connections currently in the Redis pool.",
		}),
		idle: f.NewGauge(prometheus.GaugeOpts{
			Name: "vct_redis_pool_idle_conns",
			Help: "Idle connections in the Redis pool.",
		}),
		timeouts: f.NewCounter(prometheus.CounterOpts{
			Name: "vct_redis_pool_timeouts_total",
			Help: "Times a pool connection could not be obtained in time.",
		}),
	}
}

// Client is a go-redis client with readiness and pool metrics.
type Client struct {
	*redis.Client
	metrics      *poolMetrics
	seenTimeouts uint32
}

// New connects and pings Redis. An empty URL yields a nil client and no error.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return wrap(rc, cfg.Registerer), nil
}

func wrap(rc *redis.Client, reg prometheus.Registerer) *Client {
	c := &Client{Client: rc}
	if reg != nil {
		c.metrics = newPoolMetrics(reg)
	}
	return c
}

// Health is the readiness check for the shared cache.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// RecordPoolStats copies the pool counters into the gauges. Only the growth
// of the timeout counter since the last call is added.
func (c *Client) RecordPoolStats() {
	if c.metrics == nil {
		return
	}
	stats := c.PoolStats()
	c.metrics.total.Set(float64(stats.TotalConns))
	c.metrics.idle.Set(float64(stats.IdleConns))
	if stats.Timeouts > c.seenTimeouts {
		c.metrics.timeouts.Add(float64(stats.Timeouts - c.seenTimeouts))
	}
	c.seenTimeouts = stats.Timeouts
}

// RunStatsLoop calls RecordPoolStats every interval until ctx ends.
func (c *Client) RunStatsLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.RecordPoolStats()
		}
	}
}
