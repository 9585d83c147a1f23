// Package cache provides small TTL caches that are injected into services and handlers.
package cache

import (
	"sync"
	"time"
)

// Store is a key/value cache whose freshness is decided at read time.
// Stale values are still returned (fresh == false) so callers can fall back to them.
type Store[V any] interface {
	Get(key string) (value V, fresh bool, ok bool)
	Set(key string, value V)
}

// entry は cache_contributions.json と同じ {timestamp(ms), data} 形式で保存される
type entry[V any] struct {
	Timestamp int64 `json:"timestamp"`
	Value     V     `json:"data"`
}

func newEntry[V any](value V, now time.Time) entry[V] {
	return entry[V]{Timestamp: now.UnixMilli(), Value: value}
}

func (e entry[V]) fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(time.UnixMilli(e.Timestamp)) < ttl
}

// Memory is an in-process Store.
type Memory[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// NewMemory creates a Memory store with the given TTL.
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	return &Memory[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

func (m *Memory[V]) Get(key string) (V, bool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, false, false
	}
	return e.Value, e.fresh(m.now(), m.ttl), true
}

func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = newEntry(value, m.now())
}
