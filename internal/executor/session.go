package executor

import (
	"fmt"

	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/storage/manager"
)

// Session tracks the database selected by one REPL or connection and
// routes commands to it. The selection is kept by name and resolved
// through the registry on every command, so a database dropped by another
// session is reopened empty instead of lingering.
type Session struct {
	registry *manager.Registry
	name     string
}

// NewSession creates a session; database, if not empty, is selected at once
func NewSession(registry *manager.Registry, database string) (*Session, error) {
	s := &Session{registry: registry}
	if database != "" {
		if _, err := s.Use(database); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// DB returns the selected database, or nil
func (s *Session) DB() *engine.DB {
	db, err := s.current()
	if err != nil {
		return nil
	}
	return db
}

// current resolves the selected database through the registry
func (s *Session) current() (*engine.DB, error) {
	if s.name == "" {
		return nil, nil
	}
	db, err := s.registry.Get(s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to load database '%s': %w", s.name, err)
	}
	return db, nil
}

// Use selects a database, opening it through the registry
func (s *Session) Use(name string) (*Result, error) {
	if name == "" {
		return nil, fmt.Errorf("use: database name is required")
	}
	db, err := s.registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load database '%s': %w", name, err)
	}
	s.name = name

	msg := fmt.Sprintf("Switched to database '%s'", name)
	if db.IsNew() && db.TableCount() == 0 {
		msg += " (new)"
	}
	return &Result{Message: msg}, nil
}

// Run executes a command, handling database selection itself
func (s *Session) Run(cmd Command) (*Result, error) {
	switch cmd.Op {
	case "use":
		return s.Use(cmd.Database)

	case "databases", "ls":
		names, err := s.registry.List()
		if err != nil {
			return nil, err
		}
		return &Result{Names: names, Count: len(names)}, nil

	case "drop_database":
		name := cmd.Database
		if name == "" {
			name = s.name
		}
		if name == "" {
			return nil, fmt.Errorf("drop_database: database name is required")
		}
		if err := s.registry.Drop(name); err != nil {
			return nil, err
		}
		if s.name == name {
			s.name = ""
		}
		return &Result{Message: fmt.Sprintf("Database '%s' dropped", name)}, nil
	}

	db, err := s.current()
	if err != nil {
		return nil, err
	}
	return Execute(db, cmd)
}
