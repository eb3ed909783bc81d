package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value  []byte
	expiry time.Time
}

// Memory is an in-process Backend. It backs tests and the one-off
// fetch command, where a Redis round-trip buys nothing.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (b *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiry.IsZero() && b.now().After(e.expiry) {
		delete(b.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (b *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var expiry time.Time
	if ttl > 0 {
		expiry = b.now().Add(ttl)
	}
	b.entries[key] = memoryEntry{value: value, expiry: expiry}
	return nil
}

var _ Backend = (*Memory)(nil)
