package engine

import (
	"time"

	"github.com/leengari/lsdb/internal/domain/operation"
)

// EventType represents the kind of engine call that produced an event.
// It mirrors the operation kind.
type EventType string

const (
	EventLoad     = EventType(operation.KindLoad)
	EventCommit   = EventType(operation.KindCommit)
	EventDrop     = EventType(operation.KindDrop)
	EventReplace  = EventType(operation.KindReplace)
	EventDDL      = EventType(operation.KindDDL)
	EventMutation = EventType(operation.KindMutation)
)

// Event represents a completed engine call
type Event struct {
	Type      EventType // Type of event
	OpID      string    // Operation ID for tracing
	Database  string    // Database name
	Table     string    // Affected table, empty for database-wide events
	Timestamp time.Time // When the event occurred
	Data      any       // Call-specific data (e.g. action, affected ids, commit outcome)
}

// Observer interface for event subscribers
// Observers are called synchronously after each DDL, mutation and
// persistence call of a DB
type Observer interface {
	OnEvent(event Event)
}
