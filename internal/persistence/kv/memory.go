package kv

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	hash      map[string]string
	list      [][]byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-process Store with real expiry semantics, evaluated
// lazily on access. It exists for tests and local development without a
// Redis instance.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]*memoryEntry),
	}
}

// get returns the live entry for key, dropping it first if expired.
func (m *Memory) get(key string) *memoryEntry {
	entry, ok := m.entries[key]
	if !ok {
		return nil
	}
	if entry.expired(time.Now()) {
		delete(m.entries, key)
		return nil
	}
	return entry
}

func (m *Memory) HSet(_ context.Context, key string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.get(key)
	if entry == nil {
		entry = &memoryEntry{hash: make(map[string]string)}
		m.entries[key] = entry
	}
	if entry.hash == nil {
		entry.hash = make(map[string]string)
	}

	for k, v := range fields {
		entry.hash[k] = fmt.Sprint(v)
	}
	return nil
}

func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.get(key)
	if entry == nil {
		return nil
	}
	entry.expiresAt = time.Now().Add(ttl)
	return nil
}

func (m *Memory) TTL(_ context.Context, key string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.get(key)
	if entry == nil || entry.expiresAt.IsZero() {
		return 0, nil
	}

	remaining := time.Until(entry.expiresAt)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.get(key) != nil, nil
}

func (m *Memory) RPush(_ context.Context, key string, values ...[]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.get(key)
	if entry == nil {
		entry = &memoryEntry{}
		m.entries[key] = entry
	}

	for _, v := range values {
		buf := make([]byte, len(v))
		copy(buf, v)
		entry.list = append(entry.list, buf)
	}
	return nil
}

func (m *Memory) LRange(_ context.Context, key string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.get(key)
	if entry == nil {
		return [][]byte{}, nil
	}

	out := make([][]byte, len(entry.list))
	copy(out, entry.list)
	return out, nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
