package medium

import (
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/leengari/lsdb/internal/storage"
)

// Quota enforces a byte budget over another medium. Usage counts the
// length of every key plus its value. A write that would exceed the
// budget fails with storage.ErrQuotaExceeded and leaves the medium as it
// was.
type Quota struct {
	inner storage.Medium
	limit int64

	mu     sync.Mutex
	sizes  map[string]int64
	used   int64
	loaded bool
}

var _ storage.Medium = (*Quota)(nil)

// NewQuota wraps inner with a budget of limit bytes; limit <= 0 disables it
func NewQuota(inner storage.Medium, limit int64) *Quota {
	return &Quota{inner: inner, limit: limit}
}

// load measures what the inner medium already holds
func (q *Quota) load() error {
	if q.loaded {
		return nil
	}
	keys, err := q.inner.Keys()
	if err != nil {
		return fmt.Errorf("failed to measure medium: %w", err)
	}
	q.sizes = make(map[string]int64, len(keys))
	q.used = 0
	for _, k := range keys {
		v, ok, err := q.inner.Get(k)
		if err != nil {
			return fmt.Errorf("failed to measure key %s: %w", k, err)
		}
		if !ok {
			continue
		}
		size := int64(len(k) + len(v))
		q.sizes[k] = size
		q.used += size
	}
	q.loaded = true
	return nil
}

func (q *Quota) Get(key string) ([]byte, bool, error) {
	return q.inner.Get(key)
}

func (q *Quota) Set(key string, value []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.load(); err != nil {
		return err
	}
	size := int64(len(key) + len(value))
	next := q.used - q.sizes[key] + size
	if q.limit > 0 && next > q.limit {
		return fmt.Errorf("%w: writing %s to %s would use %s of %s", storage.ErrQuotaExceeded,
			humanize.Bytes(uint64(len(value))), key,
			humanize.Bytes(uint64(next)), humanize.Bytes(uint64(q.limit)))
	}
	if err := q.inner.Set(key, value); err != nil {
		return err
	}
	q.sizes[key] = size
	q.used = next
	return nil
}

func (q *Quota) Remove(key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.load(); err != nil {
		return err
	}
	if err := q.inner.Remove(key); err != nil {
		return err
	}
	q.used -= q.sizes[key]
	delete(q.sizes, key)
	return nil
}

func (q *Quota) Keys() ([]string, error) {
	return q.inner.Keys()
}

// Used returns the bytes currently counted against the budget
func (q *Quota) Used() (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.load(); err != nil {
		return 0, err
	}
	return q.used, nil
}

// Limit returns the configured budget
func (q *Quota) Limit() int64 {
	return q.limit
}

// Close closes the wrapped medium when it holds resources
func (q *Quota) Close() error {
	return Close(q.inner)
}
