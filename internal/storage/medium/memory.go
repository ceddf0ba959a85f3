// Package medium provides the byte-level key/value stores a database blob
// can live in.
package medium

import (
	"sort"
	"sync"

	"github.com/leengari/lsdb/internal/storage"
)

// Memory is a map-backed medium. It is safe for concurrent use and is the
// medium of choice in tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

var _ storage.Medium = (*Memory)(nil)

// NewMemory creates an empty, unbounded in-memory medium
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// NewMemoryWithQuota creates an in-memory medium holding at most quota
// bytes of keys and values, like a browser's local storage
func NewMemoryWithQuota(quota int64) *Quota {
	return NewQuota(NewMemory(), quota)
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	m.mu.Lock()
	m.items[key] = v
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}
