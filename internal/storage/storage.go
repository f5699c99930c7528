// Package storage persists JSON blobs under string keys. It is best-effort:
// nothing in this package returns an error to callers of the Adapter.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// DefaultPrefix namespaces every key written by the Adapter.
const DefaultPrefix = "captureThisGPT"

// ErrNotFound is returned by a Backend when a key does not exist. It never
// leaves this package through the Adapter.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a durable string-keyed store.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Adapter serializes values to JSON and swallows every failure after
// logging it, so a broken store degrades to an empty state.
type Adapter struct {
	backend Backend
	prefix  string
}

func NewAdapter(backend Backend, prefix string) *Adapter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Adapter{backend: backend, prefix: prefix}
}

// Key returns the namespaced backend key for name.
func (a *Adapter) Key(name string) string {
	return a.prefix + "_" + name
}

// Save writes value under key. It reports whether the write succeeded.
func (a *Adapter) Save(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("Failed to encode value for storage", "key", key, "error", err)
		return false
	}
	if a.backend == nil {
		slog.Warn("Storage is unavailable, dropping write", "key", key)
		return false
	}
	if err := a.backend.Set(ctx, a.Key(key), string(data)); err != nil {
		slog.Error("Failed to save value to storage", "key", key, "error", err)
		return false
	}
	return true
}

// Remove deletes key. It reports whether the delete succeeded.
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if a.backend == nil {
		return false
	}
	if err := a.backend.Delete(ctx, a.Key(key)); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("Failed to remove value from storage", "key", key, "error", err)
		return false
	}
	return true
}

// Close releases the backend.
func (a *Adapter) Close() error {
	if a.backend == nil {
		return nil
	}
	return a.backend.Close()
}

// Load reads key into a copy of def. Missing keys, corrupt payloads and
// backend failures all yield def; only the latter two are logged.
func Load[T any](ctx context.Context, a *Adapter, key string, def T) T {
	if a == nil || a.backend == nil {
		return def
	}
	raw, err := a.backend.Get(ctx, a.Key(key))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("Failed to load value from storage", "key", key, "error", err)
		}
		return def
	}
	v := def
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		slog.Warn("Discarding corrupt stored value", "key", key, "error", err)
		return def
	}
	return v
}
