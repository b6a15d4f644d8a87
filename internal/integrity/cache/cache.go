// Package cache stores hash results by URL. Memory is process local; Redis is
// shared between replicas and sits behind a circuit breaker with the memory
// cache as fallback.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"vctbuilder/internal/integrity/models"
	"vctbuilder/pkg/platform/sentinel"
)

const keyPrefix = "vct:hash:v1:"

// Key derives the cache key for a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Memory is a TTL cache backed by go-cache.
type Memory struct {
	cache *gocache.Cache
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns sentinel.ErrNotFound on a miss.
func (m *Memory) Get(_ context.Context, url string) (*models.HashResult, error) {
	v, ok := m.cache.Get(Key(url))
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	res := v.(models.HashResult)
	return &res, nil
}

func (m *Memory) Set(_ context.Context, url string, res *models.HashResult) error {
	m.cache.SetDefault(Key(url), *res)
	return nil
}

func (m *Memory) Len() int {
	return m.cache.ItemCount()
}
