package cursorstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// MemoryStore is an in-process Store. Values are kept JSON encoded so callers
// observe the same round-trip semantics as the durable stores.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string, value interface{}) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	m.mu.RLock()
	data, ok := m.values[key]
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, value); err != nil {
		return false, errors.Wrapf(err, "failed to decode cursor %s", key)
	}
	return true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	if err := checkKey(key); err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cursor %s", key)
	}

	m.mu.Lock()
	m.values[key] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Keys returns the stored keys.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}

func (m *MemoryStore) Close() error {
	return nil
}
