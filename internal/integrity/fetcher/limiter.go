package fetcher

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter rate limits fetches per remote host.
type hostLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newHostLimiter(perSecond float64, burst int) *hostLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *hostLimiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx)
}

func (l *hostLimiter) get(host string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[host]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters[host]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.limit, l.burst)
	l.limiters[host] = lim
	return lim
}
