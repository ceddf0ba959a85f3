package schema

import (
	"sort"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
)

// Database represents the in-memory state behind one serialized blob:
// a set of tables kept in creation order
type Database struct {
	Name  string
	IsNew bool // true only when no prior blob existed at load time

	tables map[string]*Table
	order  []string
}

// NewDatabase creates an empty database
func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		tables: make(map[string]*Table),
	}
}

// Table returns the named table or a TableNotFoundError
func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, errors.NewTableNotFound(name)
	}
	return t, nil
}

// Exists reports whether the table exists (names are case-sensitive)
func (db *Database) Exists(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// Count returns the number of tables
func (db *Database) Count() int {
	return len(db.tables)
}

// Tables returns the tables in creation order
func (db *Database) Tables() []*Table {
	out := make([]*Table, 0, len(db.order))
	for _, name := range db.order {
		out = append(out, db.tables[name])
	}
	return out
}

// Add registers an already built table
func (db *Database) Add(t *Table) error {
	if db.Exists(t.Name) {
		return errors.NewTableAlreadyExists(t.Name)
	}
	if db.tables == nil {
		db.tables = make(map[string]*Table)
	}
	db.tables[t.Name] = t
	db.order = append(db.order, t.Name)
	return nil
}

// Clear removes every table
func (db *Database) Clear() {
	db.tables = make(map[string]*Table)
	db.order = nil
}

// ReplaceTables swaps in the tables of other, keeping this database's
// name and IsNew flag
func (db *Database) ReplaceTables(other *Database) {
	db.tables = other.tables
	db.order = other.order
	if db.tables == nil {
		db.tables = make(map[string]*Table)
	}
}

// CreateTable adds an empty table with the given columns
func (db *Database) CreateTable(name string, columns []string) (*Table, error) {
	if db.Exists(name) {
		return nil, errors.NewTableAlreadyExists(name)
	}
	t, err := NewTable(name, columns)
	if err != nil {
		return nil, err
	}
	if err := db.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTableWithData creates a table whose columns are the union of the
// rows' keys and inserts every row. Keys are discovered row by row, each
// row's new keys in sorted order. Nothing is created on error.
func (db *Database) CreateTableWithData(name string, rows []data.Fields) (*Table, error) {
	if db.Exists(name) {
		return nil, errors.NewTableAlreadyExists(name)
	}
	if len(rows) == 0 {
		return nil, &errors.SchemaError{Table: name, Reason: "at least one row is required to infer columns"}
	}

	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			if !seen[k] {
				keys = append(keys, k)
				seen[k] = true
			}
		}
		sort.Strings(keys)
		columns = append(columns, keys...)
	}

	t, err := NewTable(name, columns)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.Append(row)
	}
	if err := db.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Alteration describes a schema change: columns to add (with optional
// backfill values) and columns to remove
type Alteration struct {
	Add      []string
	Defaults data.Fields // backfill per added column; missing entries backfill null
	Remove   []string
}

// AlterTable applies an Alteration. Added columns that are already declared
// are skipped; every existing record is backfilled for the others.
// Removed columns are stripped from every record. The table is untouched
// when the alteration is rejected.
func (db *Database) AlterTable(name string, alt Alteration) error {
	t, err := db.Table(name)
	if err != nil {
		return err
	}

	// validate removals first so a rejected alteration changes nothing
	remove := make(map[string]bool, len(alt.Remove))
	for _, c := range alt.Remove {
		if c == data.IDField {
			return errors.NewReservedColumn(name, c)
		}
		if !t.HasColumn(c) {
			return &errors.SchemaError{Table: name, Column: c, Reason: "column does not exist"}
		}
		remove[c] = true
	}

	var add []string
	pending := make(map[string]bool, len(alt.Add))
	for _, c := range alt.Add {
		if c == data.IDField {
			return errors.NewReservedColumn(name, c)
		}
		if c == "" {
			return &errors.SchemaError{Table: name, Reason: "column name is required"}
		}
		if pending[c] {
			return errors.NewDuplicateColumn(name, c)
		}
		pending[c] = true
		if t.HasColumn(c) && !remove[c] {
			continue
		}
		add = append(add, c)
	}

	if len(remove) > 0 {
		kept := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			if !remove[c] {
				kept = append(kept, c)
			}
		}
		t.Columns = kept
		for _, rec := range t.Records {
			for c := range remove {
				rec.Delete(c)
			}
		}
	}

	if len(add) > 0 {
		cols := make([]string, 0, len(t.Columns)+len(add))
		cols = append(cols, t.Columns...)
		t.Columns = append(cols, add...)
		for _, rec := range t.Records {
			for _, c := range add {
				def, ok := alt.Defaults[c]
				if !ok {
					def = data.Null()
				}
				rec.Set(c, def.Clone())
			}
		}
	}

	t.setOrder()
	return nil
}

// DropTable removes the table and all of its records
func (db *Database) DropTable(name string) error {
	if !db.Exists(name) {
		return errors.NewTableNotFound(name)
	}
	delete(db.tables, name)
	for i, n := range db.order {
		if n == name {
			db.order = append(db.order[:i:i], db.order[i+1:]...)
			break
		}
	}
	return nil
}

// Truncate empties the table and restarts its ids at 1
func (db *Database) Truncate(name string) error {
	t, err := db.Table(name)
	if err != nil {
		return err
	}
	t.Truncate()
	return nil
}
