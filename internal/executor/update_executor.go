package executor

import (
	"fmt"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/engine"
)

// executeUpdate handles update and upsert. Over the wire an update can
// only apply the static "set" mapping.
func executeUpdate(db *engine.DB, cmd Command) (*Result, error) {
	if err := requireTable(cmd); err != nil {
		return nil, err
	}
	pred, err := predicateOf(cmd.Query)
	if err != nil {
		return nil, err
	}

	if cmd.Op == "upsert" {
		ids, inserted, err := db.InsertOrUpdate(cmd.Table, pred, cmd.Data)
		if err != nil {
			return nil, err
		}
		verb := "UPDATE"
		if inserted {
			verb = "INSERT"
		}
		return &Result{
			IDs:          ids,
			Inserted:     &inserted,
			RowsAffected: len(ids),
			Message:      fmt.Sprintf("%s %d", verb, len(ids)),
		}, nil
	}

	set := cmd.Set
	if set == nil {
		set = data.Fields{}
	}
	n, err := db.Update(cmd.Table, pred, func(data.Record) data.Fields {
		return set.Copy()
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		RowsAffected: n,
		Message:      fmt.Sprintf("UPDATE %d", n),
	}, nil
}
