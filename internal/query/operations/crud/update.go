package crud

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/query"
)

// UpdateFunc computes the fields to change for one record. It receives a
// copy; only the returned fields are merged back.
type UpdateFunc func(rec data.Record) data.Fields

// Update merges fn's result into every record matching pred.
// Returns the number of records fn returned a mapping for; a nil result
// leaves that record alone. ID and undeclared fields in the returned
// mapping are ignored. A nil pred matches every record.
func Update(table *schema.Table, pred query.Predicate, fn UpdateFunc) (int, error) {
	matched, err := query.Evaluate(table, query.Params{Query: pred})
	if err != nil {
		return 0, err
	}

	// every change is computed before any is applied
	changes := make([]data.Fields, len(matched))
	for i, rec := range matched {
		if fn != nil {
			changes[i] = fn(rec.Copy())
		}
	}
	updated := 0
	for i, rec := range matched {
		if changes[i] == nil {
			continue
		}
		table.Merge(rec, changes[i])
		updated++
	}

	return updated, nil
}
