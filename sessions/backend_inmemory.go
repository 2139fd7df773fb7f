package sessions

import (
	"context"
	"sync"
)

var _ Backend = (*InMemoryBackend)(nil)

// InMemoryBackend keeps values for the life of the process.
type InMemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		values: make(map[string]string),
	}
}

func (b *InMemoryBackend) Get(_ context.Context, keys ...string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	found := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := b.values[k]; ok {
			found[k] = v
		}
	}
	return found, nil
}

func (b *InMemoryBackend) Apply(_ context.Context, set map[string]string, del []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, k := range del {
		delete(b.values, k)
	}
	for k, v := range set {
		b.values[k] = v
	}
	return nil
}

// Set writes a single raw value. Tests use it to plant corrupt or partial
// state.
func (b *InMemoryBackend) Set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
}

// Len returns the number of stored keys.
func (b *InMemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.values)
}

func (b *InMemoryBackend) Close() error {
	return nil
}
