// Package sync provides keyed locking for operations that must not run twice
// for the same resource at once.
package sync

import (
	"hash/fnv"
	"sync"
)

const defaultShards = 32

// ShardedMutex spreads keys over a fixed set of mutexes. Two keys may share a
// shard, so holders must not lock a second key while holding one.
type ShardedMutex struct {
	shards []sync.Mutex
}

// NewShardedMutex returns a mutex with n shards; n <= 0 selects 32.
func NewShardedMutex(n int) *ShardedMutex {
	if n <= 0 {
		n = defaultShards
	}
	return &ShardedMutex{shards: make([]sync.Mutex, n)}
}

func (m *ShardedMutex) Lock(key string) {
	m.shards[m.shardFor(key)].Lock()
}

func (m *ShardedMutex) Unlock(key string) {
	m.shards[m.shardFor(key)].Unlock()
}

// Do runs fn while holding key's shard.
func (m *ShardedMutex) Do(key string, fn func() error) error {
	m.Lock(key)
	defer m.Unlock(key)
	return fn()
}

func (m *ShardedMutex) shardFor(key string) int {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(m.shards)))
}
