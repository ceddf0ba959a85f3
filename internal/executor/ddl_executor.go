package executor

import (
	"fmt"

	"github.com/leengari/lsdb/internal/engine"
)

// executeDDL handles table-level commands
func executeDDL(db *engine.DB, cmd Command) (*Result, error) {
	if cmd.Op == "tables" {
		names := db.Tables()
		return &Result{
			Names:   names,
			Count:   len(names),
			Message: fmt.Sprintf("%d tables", len(names)),
		}, nil
	}

	if err := requireTable(cmd); err != nil {
		return nil, err
	}

	switch cmd.Op {
	case "create":
		if err := db.CreateTable(cmd.Table, cmd.Columns); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table '%s' created", cmd.Table)}, nil

	case "create_with_data":
		if err := db.CreateTableWithData(cmd.Table, cmd.Rows); err != nil {
			return nil, err
		}
		n, _ := db.RowCount(cmd.Table)
		return &Result{
			RowsAffected: n,
			Message:      fmt.Sprintf("Table '%s' created with %d rows", cmd.Table, n),
		}, nil

	case "alter":
		if err := db.AlterTable(cmd.Table, cmd.Fields, cmd.Defaults); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table '%s' altered", cmd.Table)}, nil

	case "drop_columns":
		if err := db.DropColumns(cmd.Table, cmd.Fields...); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Dropped %d columns from '%s'", len(cmd.Fields), cmd.Table)}, nil

	case "drop_table":
		if err := db.DropTable(cmd.Table); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table '%s' dropped", cmd.Table)}, nil

	case "truncate":
		if err := db.Truncate(cmd.Table); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table '%s' truncated", cmd.Table)}, nil

	case "fields":
		fields, err := db.TableFields(cmd.Table)
		if err != nil {
			return nil, err
		}
		return &Result{Names: fields, Count: len(fields)}, nil
	}
	return nil, fmt.Errorf("unsupported command: %q", cmd.Op)
}
