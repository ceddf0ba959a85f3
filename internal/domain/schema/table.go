package schema

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
)

// Table represents a named table: its column schema, records and
// auto-increment counter
type Table struct {
	Name    string
	Columns []string // declared columns in order, never data.IDField
	Records []*data.Record
	NextID  int64 // id handed to the next insert; starts at 1
	// IDIndex maps record id to its position in Records
	IDIndex map[int64]int
}

// NewTable validates the column list and returns an empty table
func NewTable(name string, columns []string) (*Table, error) {
	if name == "" {
		return nil, &errors.SchemaError{Reason: "table name is required"}
	}
	if err := validateColumns(name, nil, columns); err != nil {
		return nil, err
	}
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Name:    name,
		Columns: cols,
		Records: []*data.Record{},
		NextID:  1,
		IDIndex: make(map[int64]int),
	}, nil
}

// validateColumns rejects empty, reserved and duplicate names, both within
// columns and against the already declared ones
func validateColumns(table string, existing, columns []string) error {
	seen := make(map[string]bool, len(existing)+len(columns))
	for _, c := range existing {
		seen[c] = true
	}
	for _, c := range columns {
		if c == "" {
			return &errors.SchemaError{Table: table, Reason: "column name is required"}
		}
		if c == data.IDField {
			return errors.NewReservedColumn(table, c)
		}
		if seen[c] {
			return errors.NewDuplicateColumn(table, c)
		}
		seen[c] = true
	}
	return nil
}

// HasColumn reports whether the column is declared; IDField is always present
func (t *Table) HasColumn(name string) bool {
	if name == data.IDField {
		return true
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.Records)
}

// Lookup finds a record through the id index
func (t *Table) Lookup(id int64) (*data.Record, bool) {
	pos, ok := t.IDIndex[id]
	if !ok || pos < 0 || pos >= len(t.Records) || t.Records[pos].ID != id {
		return nil, false
	}
	return t.Records[pos], true
}

// Project keeps only the declared columns of fields, dropping IDField and
// anything unknown. Values are deep-copied.
func (t *Table) Project(fields data.Fields) data.Fields {
	out := make(data.Fields, len(fields))
	for _, c := range t.Columns {
		if v, ok := fields[c]; ok {
			out[c] = v.Clone()
		}
	}
	return out
}

// Append assigns the next id to a new record built from fields and appends it.
// Unknown fields are dropped.
func (t *Table) Append(fields data.Fields) *data.Record {
	id := t.NextID
	rec := data.NewRecord(id, t.Project(fields))
	rec.SetOrder(t.Columns)

	if t.IDIndex == nil {
		t.IDIndex = make(map[int64]int)
	}
	t.IDIndex[id] = len(t.Records)
	t.Records = append(t.Records, rec)
	t.NextID = id + 1
	return rec
}

// Merge applies the declared columns of fields to rec; the id never changes.
// Returns true if any field value changed.
func (t *Table) Merge(rec *data.Record, fields data.Fields) bool {
	changed := false
	for k, v := range t.Project(fields) {
		if old, ok := rec.Fields[k]; ok && old.Equal(v) && old.Kind() == v.Kind() {
			continue
		}
		rec.Set(k, v)
		changed = true
	}
	return changed
}

// Truncate removes all records and restarts ids at 1
func (t *Table) Truncate() {
	t.Records = []*data.Record{}
	t.IDIndex = make(map[int64]int)
	t.NextID = 1
}

// setOrder refreshes the encoding order of every record after a schema change
func (t *Table) setOrder() {
	for _, rec := range t.Records {
		rec.SetOrder(t.Columns)
	}
}
