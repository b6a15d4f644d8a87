package cache

import (
	"context"
	"errors"
	"log/slog"

	"vctbuilder/internal/integrity/metrics"
	"vctbuilder/internal/integrity/models"
	"vctbuilder/pkg/platform/circuit"
	"vctbuilder/pkg/platform/sentinel"
)

// Backend is a cache that may fail, such as Redis.
type Backend interface {
	Get(ctx context.Context, url string) (*models.HashResult, error)
	Set(ctx context.Context, url string, res *models.HashResult) error
}

// Guarded reads through a shared backend while its breaker allows it and
// always keeps a local copy. While the breaker is open only the local cache
// is used. Backend failures are never returned to callers.
type Guarded struct {
	shared  Backend
	local   *Memory
	breaker *circuit.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewGuarded(shared Backend, local *Memory, breaker *circuit.Breaker, m *metrics.Metrics, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{shared: shared, local: local, breaker: breaker, metrics: m, logger: logger}
}

func (g *Guarded) Get(ctx context.Context, url string) (*models.HashResult, error) {
	if res, err := g.local.Get(ctx, url); err == nil {
		return res, nil
	}
	if !g.breaker.Allow() {
		g.fallback()
		return nil, sentinel.ErrNotFound
	}

	res, err := g.shared.Get(ctx, url)
	switch {
	case err == nil:
		g.breaker.RecordSuccess()
		_ = g.local.Set(ctx, url, res)
		return res, nil
	case errors.Is(err, sentinel.ErrNotFound):
		g.breaker.RecordSuccess()
		return nil, sentinel.ErrNotFound
	default:
		g.breaker.RecordFailure()
		g.logger.WarnContext(ctx, "shared hash cache read failed", "error", err, "breaker", g.breaker.State().String())
		g.fallback()
		return nil, sentinel.ErrNotFound
	}
}

func (g *Guarded) Set(ctx context.Context, url string, res *models.HashResult) error {
	_ = g.local.Set(ctx, url, res)
	if !g.breaker.Allow() {
		g.fallback()
		return nil
	}
	if err := g.shared.Set(ctx, url, res); err != nil {
		g.breaker.RecordFailure()
		g.logger.WarnContext(ctx, "shared hash cache write failed", "error", err, "breaker", g.breaker.State().String())
		g.fallback()
		return nil
	}
	g.breaker.RecordSuccess()
	return nil
}

func (g *Guarded) fallback() {
	if g.metrics != nil {
		g.metrics.IncCacheFallback()
	}
}
