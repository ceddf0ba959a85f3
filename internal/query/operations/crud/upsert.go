package crud

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/query"
)

// InsertOrUpdate inserts fields as a new row when pred matches nothing, and
// otherwise merges fields into every match.
// Returns the affected ids and whether a row was inserted.
func InsertOrUpdate(table *schema.Table, pred query.Predicate, fields data.Fields) ([]int64, bool, error) {
	matched, err := query.Evaluate(table, query.Params{Query: pred})
	if err != nil {
		return nil, false, err
	}

	if len(matched) == 0 {
		return []int64{Insert(table, fields)}, true, nil
	}

	ids := make([]int64, 0, len(matched))
	for _, rec := range matched {
		table.Merge(rec, fields)
		ids = append(ids, rec.ID)
	}
	return ids, false, nil
}
