package ratelimiter

import (
	"sync"
	"time"
)

type inMemoryEntry struct {
	value     int
	expiresAt time.Time
}

// InMemory is a process-local GetterSetter suitable for a single
// instance deployment. Expired entries are removed by a background
// sweep so abandoned source keys do not accumulate.
type InMemory struct {
	mu      sync.Mutex
	entries map[string]inMemoryEntry
	done    chan struct{}
}

func NewInMemory() *InMemory {
	m := &InMemory{
		entries: make(map[string]inMemoryEntry),
		done:    make(chan struct{}),
	}

	go m.sweep()

	return m
}

func (m *InMemory) Get(key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return 0, ErrCacheMiss
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, key)
		return 0, ErrCacheMiss
	}

	return entry.value, nil
}

func (m *InMemory) SetWithExpiration(key string, value int, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := inMemoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	m.entries[key] = entry

	return nil
}

func (m *InMemory) Close() {
	close(m.done)
}

func (m *InMemory) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()

			m.mu.Lock()
			for key, entry := range m.entries {
				if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
