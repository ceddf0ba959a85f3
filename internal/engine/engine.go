package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/leengari/lsdb/internal/domain/operation"
	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/storage"
)

// DB is the main entry point for one database: an in-memory table set that
// is flushed to its medium as a single blob on Commit.
// A DB is not safe for concurrent use.
type DB struct {
	db        *schema.Database
	medium    storage.Medium
	logger    *slog.Logger
	observers []Observer // Observers for lifecycle events
}

// Option configures a DB at Open time
type Option func(*DB)

// WithLogger sets the logger used for load and commit diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(d *DB) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers an observer before the database is loaded, so it
// also sees the load event
func WithObserver(o Observer) Option {
	return func(d *DB) {
		d.AddObserver(o)
	}
}

// Open loads the named database from the medium. A missing or corrupt blob
// yields an empty database for which IsNew reports true.
func Open(name string, medium storage.Medium, opts ...Option) (*DB, error) {
	if name == "" {
		return nil, fmt.Errorf("database name is required")
	}
	if medium == nil {
		return nil, fmt.Errorf("database %s: medium is required", name)
	}

	d := &DB{
		medium:    medium,
		logger:    slog.Default(),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(d)
	}

	op := operation.Begin(operation.KindLoad)

	d.db = storage.Load(name, medium, d.logger)
	d.notify(op, "", map[string]any{
		"is_new": d.db.IsNew,
		"tables": d.db.Count(),
	})
	return d, nil
}

// Name returns the database name
func (d *DB) Name() string {
	return d.db.Name
}

// IsNew reports whether Open found no valid stored blob
func (d *DB) IsNew() bool {
	return d.db.IsNew
}

// Medium returns the medium the database commits to
func (d *DB) Medium() storage.Medium {
	return d.medium
}

// AddObserver registers an observer to receive lifecycle events
func (d *DB) AddObserver(observer Observer) {
	if observer == nil {
		return
	}
	d.observers = append(d.observers, observer)
}

// RemoveObserver unregisters an observer
func (d *DB) RemoveObserver(observer Observer) {
	for i, o := range d.observers {
		if o == observer {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event for op to all registered observers
func (d *DB) notify(op *operation.Operation, table string, payload any) {
	if len(d.observers) == 0 {
		return
	}
	event := Event{
		Type:      EventType(op.Kind),
		OpID:      op.ID,
		Database:  d.db.Name,
		Table:     table,
		Timestamp: time.Now(),
		Data:      payload,
	}
	for _, observer := range d.observers {
		observer.OnEvent(event)
	}
}
