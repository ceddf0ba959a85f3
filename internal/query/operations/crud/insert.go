package crud

import (
	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
)

// Insert appends a row and returns its new id.
// Only declared columns are stored; unknown fields and any ID are dropped.
func Insert(table *schema.Table, fields data.Fields) int64 {
	return table.Append(fields).ID
}

// InsertMany inserts rows in order and returns their ids
func InsertMany(table *schema.Table, rows []data.Fields) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, Insert(table, row))
	}
	return ids
}
