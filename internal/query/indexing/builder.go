package indexing

import (
	"fmt"
	"log/slog"

	"github.com/leengari/lsdb/internal/domain/data"
	"github.com/leengari/lsdb/internal/domain/schema"
)

// BuildIDIndex rebuilds the implicit id index of a table.
// Returns an error on duplicate ids or ids the auto-increment counter has
// not reached yet, both of which mean the table data is inconsistent.
func BuildIDIndex(table *schema.Table) error {
	idx := make(map[int64]int, len(table.Records))

	for pos, rec := range table.Records {
		if rec.ID < 0 {
			return fmt.Errorf("table %s row %d: negative %s %d", table.Name, pos, data.IDField, rec.ID)
		}
		if prev, dup := idx[rec.ID]; dup {
			return fmt.Errorf("table %s: duplicate %s %d at rows %d and %d",
				table.Name, data.IDField, rec.ID, prev, pos)
		}
		if rec.ID >= table.NextID {
			return fmt.Errorf("table %s row %d: %s %d is not below autoincrement %d",
				table.Name, pos, data.IDField, rec.ID, table.NextID)
		}
		idx[rec.ID] = pos
	}

	table.IDIndex = idx

	slog.Debug("id index built",
		slog.String("table", table.Name),
		slog.Int("entries", len(idx)))

	return nil
}

// Rebuild refreshes positions after records were removed or reordered.
// Ids are already known to be unique, so it cannot fail.
func Rebuild(table *schema.Table) {
	idx := make(map[int64]int, len(table.Records))
	for pos, rec := range table.Records {
		idx[rec.ID] = pos
	}
	table.IDIndex = idx
}
