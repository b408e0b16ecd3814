package tokenstore

import (
	"context"
	"sync"
)

type memoryBackend struct {
	items map[string]string
	mutex sync.RWMutex
}

// NewMemory builds a process-local backend. The token does not survive exit.
func NewMemory() Backend {
	return &memoryBackend{items: make(map[string]string)}
}

func (b *memoryBackend) Name() string { return DriverMemory }

func (b *memoryBackend) Read(_ context.Context, key string) (string, bool, error) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	v, ok := b.items[key]
	return v, ok, nil
}

func (b *memoryBackend) Write(_ context.Context, key, value string) error {
	b.mutex.Lock()
	b.items[key] = value
	b.mutex.Unlock()
	return nil
}

func (b *memoryBackend) Delete(_ context.Context, key string) error {
	b.mutex.Lock()
	delete(b.items, key)
	b.mutex.Unlock()
	return nil
}

func (b *memoryBackend) Close() error { return nil }
