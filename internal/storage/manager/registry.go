package manager

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/storage"
)

// Registry manages the databases stored on one medium in a thread-safe way.
// Databases are opened on first use and cached until dropped.
type Registry struct {
	mu        sync.RWMutex
	loaded    map[string]*engine.DB
	medium    storage.Medium
	logger    *slog.Logger
	observers []engine.Observer
}

// NewRegistry creates a registry over the given medium. Observers are
// attached to every database it opens.
func NewRegistry(medium storage.Medium, logger *slog.Logger, observers ...engine.Observer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		loaded:    make(map[string]*engine.DB),
		medium:    medium,
		logger:    logger,
		observers: observers,
	}
}

// Get opens a database (or returns the cached one). A database that does
// not exist yet is created empty and appears on the medium after its first
// commit.
func (r *Registry) Get(name string) (*engine.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.loaded[name]; ok {
		return db, nil
	}

	db, err := r.open(name)
	if err != nil {
		return nil, err
	}

	r.loaded[name] = db
	return db, nil
}

// open loads a database with the registry's logger and observers
func (r *Registry) open(name string) (*engine.DB, error) {
	opts := []engine.Option{engine.WithLogger(r.logger)}
	for _, o := range r.observers {
		opts = append(opts, engine.WithObserver(o))
	}
	db, err := engine.Open(name, r.medium, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database '%s': %w", name, err)
	}
	return db, nil
}

// Drop unloads a database and deletes its blob
func (r *Registry) Drop(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, ok := r.loaded[name]
	if !ok {
		var err error
		db, err = r.open(name)
		if err != nil {
			return err
		}
	}
	if err := db.Drop(); err != nil {
		return err
	}
	delete(r.loaded, name)
	return nil
}

// CommitAll commits every loaded database and returns the names of those
// whose commit failed
func (r *Registry) CommitAll() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed []string
	for name, db := range r.loaded {
		if !db.Commit() {
			r.logger.Error("failed to commit database", "name", name)
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// List returns the names of every database stored on the medium, plus any
// loaded database that has not been committed yet
func (r *Registry) List() ([]string, error) {
	keys, err := r.medium.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	for _, k := range keys {
		if name, ok := storage.NameFromKey(k); ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	r.mu.RLock()
	for name := range r.loaded {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names, nil
}

// Loaded reports whether the database is currently open
func (r *Registry) Loaded(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[name]
	return ok
}
