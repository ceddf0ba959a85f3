package executor

import (
	"fmt"

	"github.com/leengari/lsdb/internal/engine"
)

// executeDelete handles delete; without a query every row goes
func executeDelete(db *engine.DB, cmd Command) (*Result, error) {
	if err := requireTable(cmd); err != nil {
		return nil, err
	}
	pred, err := predicateOf(cmd.Query)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := db.DeleteRows(cmd.Table, pred)
	if err != nil {
		return nil, err
	}

	return &Result{
		Message:      fmt.Sprintf("DELETE %d", rowsAffected),
		RowsAffected: rowsAffected,
	}, nil
}
