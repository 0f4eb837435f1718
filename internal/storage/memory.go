package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
)

// MemoryStorage is an in-process service.KeyValueStore. Values are copied on
// the way in and out so callers cannot alias stored data.
type MemoryStorage struct {
	entries map[string][]byte
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string][]byte)}
}

// Get returns the stored value for key, or common.ErrNotFound.
func (m *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	value, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, key)
	}
	return clone(value), nil
}

// Set stores value under key.
func (m *MemoryStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := validateEntry(ctx, key, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries[key] = clone(value)
	return nil
}

// SetMany stores all entries, or none if any entry is invalid.
func (m *MemoryStorage) SetMany(ctx context.Context, entries map[string][]byte) error {
	for key, value := range entries {
		if err := validateEntry(ctx, key, value); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	for key, value := range entries {
		m.entries[key] = clone(value)
	}
	return nil
}

// Delete removes key.
func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries, key)
	return nil
}

// Keys returns all stored keys in ascending order.
func (m *MemoryStorage) Keys(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close marks the store closed; later calls fail with ErrClosed.
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
