package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryCache is an in-process Repository. Entries expire after ttl; a zero
// ttl keeps them until the process exits. Expired entries are swept from Set
// at most once per ttl.
type MemoryCache struct {
	mu        sync.RWMutex
	data      map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (e memoryEntry) expiredAt(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if now := m.now(); entry.expiredAt(now) {
		m.mu.Lock()
		// a concurrent Set may have refreshed the key
		if current, ok := m.data[key]; ok && current.expiredAt(now) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return "", false
	}
	return entry.value, true
}

func (m *MemoryCache) Set(_ context.Context, key string, value string) error {
	now := m.now()
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = now.Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ttl > 0 && !now.Before(m.lastSweep.Add(m.ttl)) {
		m.sweep(now)
	}
	m.data[key] = entry
	return nil
}

// sweep drops expired entries. The caller holds the write lock.
func (m *MemoryCache) sweep(now time.Time) {
	for key, entry := range m.data {
		if entry.expiredAt(now) {
			delete(m.data, key)
		}
	}
	m.lastSweep = now
}

// Len returns the number of stored entries, expired ones not yet swept included.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
