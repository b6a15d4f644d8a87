// Package circuit guards an optional dependency, such as a shared cache,
// so callers can route around it while it keeps failing.
package circuit

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	// StateHalfOpen lets a single probe through after the cooldown.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// Breaker opens after FailureThreshold consecutive failures and stays open for
// the cooldown. The first call after the cooldown is a probe: success closes
// the breaker, failure reopens it.
type Breaker struct {
	mu               sync.Mutex
	name             string
	state            State
	failures         int
	failureThreshold int
	cooldown         time.Duration
	openedAt         time.Time
	now              func() time.Time
	onChange         func(name string, from, to State)
}

type Option func(*Breaker)

// WithFailureThreshold defaults to 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown defaults to 30s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

// WithStateChange registers a callback run on every transition. It is called
// with the breaker's lock held and must not call back into the breaker.
func WithStateChange(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onChange = fn
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		cooldown:         30 * time.Second,
		now:              time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether the guarded dependency should be called.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.transition(StateHalfOpen)
		return true
	case StateHalfOpen:
		// A probe is already in flight.
		return false
	default:
		return true
	}
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateClosed {
		b.transition(StateClosed)
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.state == StateHalfOpen || (b.state == StateClosed && b.failures >= b.failureThreshold) {
		b.openedAt = b.now()
		b.transition(StateOpen)
	}
}

// Reset closes the breaker and clears the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateClosed {
		b.transition(StateClosed)
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	if b.onChange != nil && from != to {
		b.onChange(b.name, from, to)
	}
}
