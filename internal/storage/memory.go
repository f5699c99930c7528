package storage

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend returns a process-local Backend. Nothing survives a restart.
func NewMemoryBackend() Backend {
	return &memoryBackend{data: make(map[string]string)}
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryBackend) Close() error { return nil }
