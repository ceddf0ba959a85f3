package executor

import (
	"fmt"

	"github.com/leengari/lsdb/internal/engine"
)

// executeInsert handles insert of "data", or of every entry of "rows"
func executeInsert(db *engine.DB, cmd Command) (*Result, error) {
	if err := requireTable(cmd); err != nil {
		return nil, err
	}

	if len(cmd.Rows) > 0 {
		ids, err := db.InsertMany(cmd.Table, cmd.Rows)
		if err != nil {
			return nil, err
		}
		return &Result{
			IDs:          ids,
			RowsAffected: len(ids),
			Message:      fmt.Sprintf("INSERT %d", len(ids)),
		}, nil
	}

	id, err := db.Insert(cmd.Table, cmd.Data)
	if err != nil {
		return nil, err
	}

	return &Result{
		IDs:          []int64{id},
		RowsAffected: 1,
		Message:      fmt.Sprintf("INSERT 1 (ID %d)", id),
	}, nil
}
