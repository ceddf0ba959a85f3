package projection

import (
	"github.com/leengari/lsdb/internal/domain/errors"
	"github.com/leengari/lsdb/internal/domain/schema"
)

// ValidateFields checks that every field is declared by the table (or is ID)
// Returns an InvalidQuery error naming the first unknown field
func ValidateFields(table *schema.Table, fields []string) error {
	for _, f := range fields {
		if !table.HasColumn(f) {
			return errors.NewInvalidQuery("column %q does not exist in table %q", f, table.Name)
		}
	}
	return nil
}
