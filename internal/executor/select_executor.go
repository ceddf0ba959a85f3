package executor

import (
	"fmt"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/errors"
	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/query/operations/projection"
)

// executeSelect handles read-only table commands
func executeSelect(db *engine.DB, cmd Command) (*Result, error) {
	if cmd.Op == "exists" {
		exists := db.TableExists(cmd.Table)
		for _, f := range cmd.Fields {
			exists = exists && db.ColumnExists(cmd.Table, f)
		}
		return &Result{Exists: &exists}, nil
	}

	if err := requireTable(cmd); err != nil {
		return nil, err
	}

	if cmd.Op == "count" {
		n, err := db.RowCount(cmd.Table)
		if err != nil {
			return nil, err
		}
		return &Result{Count: n, Message: fmt.Sprintf("%d rows", n)}, nil
	}

	params, err := paramsOf(cmd)
	if err != nil {
		return nil, err
	}
	fields, err := db.TableFields(cmd.Table)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryAll(cmd.Table, params)
	if err != nil {
		return nil, err
	}

	// "fields" narrows the returned columns
	if len(cmd.Fields) > 0 {
		for _, f := range cmd.Fields {
			if f != data.IDField && !db.ColumnExists(cmd.Table, f) {
				return nil, errors.NewInvalidQuery("column %q does not exist in table %q", f, cmd.Table)
			}
		}
		for i := range rows {
			rows[i] = projection.ProjectRecord(&rows[i], cmd.Fields)
		}
		fields = cmd.Fields
	}

	return &Result{
		Columns: columnsOf(fields),
		Rows:    rows,
		Count:   len(rows),
		Message: fmt.Sprintf("Returned %d rows", len(rows)),
	}, nil
}
