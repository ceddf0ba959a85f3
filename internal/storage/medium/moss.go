package medium

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/couchbase/moss"

	"github.com/leengari/lsdb/internal/storage"
)

// Moss keeps keys in a couchbase/moss collection, either purely in memory
// or backed by a persisted store directory
type Moss struct {
	mu         sync.RWMutex
	store      *moss.Store
	collection moss.Collection
}

var _ storage.Medium = (*Moss)(nil)

// OpenMossInMemory starts a memory-only moss collection
func OpenMossInMemory() (*Moss, error) {
	collection, err := moss.NewCollection(moss.CollectionOptions{
		MergerIdleRunTimeoutMS: 50,
		MaxPreMergerBatches:    128,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory collection: %w", err)
	}
	if err := collection.Start(); err != nil {
		return nil, fmt.Errorf("failed to start collection: %w", err)
	}
	return &Moss{collection: collection}, nil
}

// OpenMoss opens (or creates) a persisted moss store in dataDir
func OpenMoss(dataDir string) (*Moss, error) {
	absPath, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get the absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create moss directory: %w", err)
	}

	storeOptions := moss.StoreOptions{
		CollectionOptions: moss.CollectionOptions{
			MergerIdleRunTimeoutMS: 10,
			MaxPreMergerBatches:    256,
		},
		CompactionPercentage: 0.3,
	}
	persistOptions := moss.StorePersistOptions{
		CompactionConcern: moss.CompactionAllow,
	}

	store, collection, err := moss.OpenStoreCollection(absPath, storeOptions, persistOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open moss store: %w", err)
	}
	return &Moss{store: store, collection: collection}, nil
}

func (m *Moss) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, err := m.collection.Get([]byte(key), moss.ReadOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("couldn't get key %s: %w", key, err)
	}
	if value == nil {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *Moss) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch, err := m.collection.NewBatch(1, len(key)+len(value))
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	defer batch.Close()

	if err := batch.Set([]byte(key), value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return m.collection.ExecuteBatch(batch, moss.WriteOptions{})
}

func (m *Moss) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch, err := m.collection.NewBatch(1, len(key))
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	defer batch.Close()

	if err := batch.Del([]byte(key)); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return m.collection.ExecuteBatch(batch, moss.WriteOptions{})
}

func (m *Moss) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ss, err := m.collection.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to take snapshot: %w", err)
	}
	defer ss.Close()

	iter, err := ss.StartIterator(nil, nil, moss.IteratorOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start iterator: %w", err)
	}
	defer iter.Close()

	var keys []string
	for {
		k, _, err := iter.Current()
		if err == moss.ErrIteratorDone {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		keys = append(keys, string(k))
		if err := iter.Next(); err == moss.ErrIteratorDone {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to advance iterator: %w", err)
		}
	}
	return keys, nil
}

// Close persists outstanding writes of a store-backed medium and releases
// the collection
func (m *Moss) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		ss, err := m.collection.Snapshot()
		if err != nil {
			return fmt.Errorf("failed to snapshot collection: %w", err)
		}
		_, err = m.store.Persist(ss, moss.StorePersistOptions{
			CompactionConcern: moss.CompactionAllow,
		})
		ss.Close()
		if err != nil {
			return fmt.Errorf("failed to persist collection: %w", err)
		}
	}

	if err := m.collection.Close(); err != nil {
		return fmt.Errorf("failed to close collection: %w", err)
	}
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			return fmt.Errorf("failed to close moss store: %w", err)
		}
	}
	return nil
}
