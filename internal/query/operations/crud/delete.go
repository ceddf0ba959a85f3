package crud

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/query"
	"github.com/leengari/lsdb/internal/query/indexing"
)

// Delete removes records matching pred and returns how many were removed.
// Ids are never renumbered and the auto-increment counter is kept.
// A nil pred deletes every record.
func Delete(table *schema.Table, pred query.Predicate) (int, error) {
	matched, err := query.Evaluate(table, query.Params{Query: pred})
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}

	doomed := make(map[*data.Record]bool, len(matched))
	for _, rec := range matched {
		doomed[rec] = true
	}

	kept := make([]*data.Record, 0, len(table.Records)-len(matched))
	for _, rec := range table.Records {
		if !doomed[rec] {
			kept = append(kept, rec)
		}
	}
	table.Records = kept

	// positions have changed
	indexing.Rebuild(table)

	return len(matched), nil
}
