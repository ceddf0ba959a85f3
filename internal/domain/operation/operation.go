package operation

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// seqCounter numbers operations in the order they start
var seqCounter uint64

// Kind names the engine call an operation belongs to
type Kind string

const (
	KindLoad     Kind = "load"
	KindCommit   Kind = "commit"
	KindDrop     Kind = "drop"
	KindReplace  Kind = "replace"
	KindDDL      Kind = "ddl"
	KindMutation Kind = "mutation"
)

// ChangeType represents the type of record modification
type ChangeType string

const (
	ChangeTypeInsert ChangeType = "INSERT"
	ChangeTypeUpdate ChangeType = "UPDATE"
	ChangeTypeDelete ChangeType = "DELETE"
)

// Change represents a single record modification within an operation
type Change struct {
	Type  ChangeType
	Table string
	RowID int64
}

// Operation is the context of one engine call: an id for tracing plus the
// record changes it made. It is never persisted.
type Operation struct {
	ID        string // UUID
	Seq       uint64 // process-wide start order
	Kind      Kind
	StartTime time.Time
	Changes   []Change
}

// Begin starts a new operation with a unique id
func Begin(kind Kind) *Operation {
	return &Operation{
		ID:        uuid.New().String(),
		Seq:       atomic.AddUint64(&seqCounter, 1),
		Kind:      kind,
		StartTime: time.Now(),
	}
}

// Record notes a change made by the operation
func (op *Operation) Record(t ChangeType, table string, rowID int64) {
	op.Changes = append(op.Changes, Change{Type: t, Table: table, RowID: rowID})
}

// RowIDs returns the ids touched by changes of the given type
func (op *Operation) RowIDs(t ChangeType) []int64 {
	var ids []int64
	for _, c := range op.Changes {
		if c.Type == t {
			ids = append(ids, c.RowID)
		}
	}
	return ids
}

// Elapsed returns the time since the operation began
func (op *Operation) Elapsed() time.Duration {
	return time.Since(op.StartTime)
}
