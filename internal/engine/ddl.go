package engine

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/operation"
	"github.com/leengari/lsdb/internal/domain/schema"
)

// TableCount returns the number of tables
func (d *DB) TableCount() int {
	return d.db.Count()
}

// Tables returns the table names in creation order
func (d *DB) Tables() []string {
	tables := d.db.Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// TableExists reports whether the table exists
func (d *DB) TableExists(name string) bool {
	return d.db.Exists(name)
}

// TableFields returns the declared columns of a table, without ID
func (d *DB) TableFields(name string) ([]string, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return nil, err
	}
	fields := make([]string, len(t.Columns))
	copy(fields, t.Columns)
	return fields, nil
}

// ColumnExists reports whether the table declares the column. ID exists on
// every table; a missing table has no columns.
func (d *DB) ColumnExists(name, field string) bool {
	t, err := d.db.Table(name)
	if err != nil {
		return false
	}
	return t.HasColumn(field)
}

// RowCount returns the number of records in a table
func (d *DB) RowCount(name string) (int, error) {
	t, err := d.db.Table(name)
	if err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// CreateTable creates an empty table with the given columns
func (d *DB) CreateTable(name string, fields []string) error {
	op := operation.Begin(operation.KindDDL)

	if _, err := d.db.CreateTable(name, fields); err != nil {
		return err
	}
	d.notify(op, name, map[string]any{"action": "create", "fields": fields})
	return nil
}

// CreateTableWithData creates a table whose columns are the union of the
// rows' keys and inserts every row, assigning ids 1..n. Nothing is created
// when the rows are rejected.
func (d *DB) CreateTableWithData(name string, rows []data.Fields) error {
	op := operation.Begin(operation.KindDDL)

	t, err := d.db.CreateTableWithData(name, rows)
	if err != nil {
		return err
	}
	for _, rec := range t.Records {
		op.Record(operation.ChangeTypeInsert, name, rec.ID)
	}
	d.notify(op, name, map[string]any{
		"action": "create_with_data",
		"fields": t.Columns,
		"ids":    op.RowIDs(operation.ChangeTypeInsert),
	})
	return nil
}

// AlterTable adds columns, backfilling every existing record with the
// column's entry in defaults or null when it has none. Columns that already
// exist are left alone.
func (d *DB) AlterTable(name string, newFields []string, defaults data.Fields) error {
	return d.alter(name, "alter", schema.Alteration{Add: newFields, Defaults: defaults})
}

// AlterTableWithDefault adds a single column backfilled with value
func (d *DB) AlterTableWithDefault(name, field string, value data.Value) error {
	return d.alter(name, "alter", schema.Alteration{
		Add:      []string{field},
		Defaults: data.Fields{field: value},
	})
}

// DropColumns removes columns from the schema and from every record
func (d *DB) DropColumns(name string, fields ...string) error {
	return d.alter(name, "drop_columns", schema.Alteration{Remove: fields})
}

func (d *DB) alter(name, action string, alt schema.Alteration) error {
	op := operation.Begin(operation.KindDDL)

	if err := d.db.AlterTable(name, alt); err != nil {
		return err
	}
	d.notify(op, name, map[string]any{
		"action":  action,
		"added":   alt.Add,
		"removed": alt.Remove,
	})
	return nil
}

// DropTable removes a table and its records
func (d *DB) DropTable(name string) error {
	op := operation.Begin(operation.KindDDL)

	if err := d.db.DropTable(name); err != nil {
		return err
	}
	d.notify(op, name, map[string]any{"action": "drop_table"})
	return nil
}

// Truncate removes every record of a table and restarts its ids at 1
func (d *DB) Truncate(name string) error {
	op := operation.Begin(operation.KindDDL)

	if err := d.db.Truncate(name); err != nil {
		return err
	}
	d.notify(op, name, map[string]any{"action": "truncate"})
	return nil
}
