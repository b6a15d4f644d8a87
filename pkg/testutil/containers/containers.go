//go:build integration

// Package containers starts the Postgres, Redis and Redpanda instances used
// by integration-tagged suites. Each kind starts at most once per test binary.
package containers

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// lazy starts a container on first use and hands the same instance to every
// later caller.
type lazy[T any] struct {
	mu  sync.Mutex
	val *T
}

func (l *lazy[T]) get(t *testing.T, start func(*testing.T) *T) *T {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.val == nil {
		l.val = start(t)
	}
	return l.val
}

// Manager hands out the shared containers.
type Manager struct {
	postgres lazy[PostgresContainer]
	redis    lazy[RedisContainer]
	kafka    lazy[KafkaContainer]
}

var manager = &Manager{}

func GetManager() *Manager {
	return manager
}

// GetPostgres returns Postgres with the embedded migrations applied.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	return m.postgres.get(t, NewPostgresContainer)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	return m.redis.get(t, NewRedisContainer)
}

// GetKafka returns Redpanda, which speaks the Kafka protocol.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	return m.kafka.get(t, NewKafkaContainer)
}

// abort terminates c and fails the test.
func abort(t *testing.T, c testcontainers.Container, format string, args ...any) {
	t.Helper()
	if c != nil {
		_ = c.Terminate(context.Background())
	}
	t.Fatalf(format, args...)
}
