package writer

import (
	"fmt"
	"log/slog"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/leengari/lsdb/internal/domain/schema"
	"github.com/leengari/lsdb/internal/storage"
)

// Serialize encodes the database as its blob: one entry per table in
// creation order, records in their current in-memory order
func Serialize(db *schema.Database) ([]byte, error) {
	if db == nil {
		return nil, fmt.Errorf("cannot serialize nil database")
	}

	tables := orderedmap.New[string, storage.TableBlob]()
	for _, t := range db.Tables() {
		tables.Set(t.Name, storage.NewTableBlob(t))
	}

	blob, err := tables.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal database %s: %w", db.Name, err)
	}
	return blob, nil
}

// SaveDatabase writes the serialized database under its key on the medium.
// The in-memory database is never modified, whatever the outcome.
func SaveDatabase(db *schema.Database, medium storage.Medium) error {
	blob, err := Serialize(db)
	if err != nil {
		return err
	}

	key := storage.Key(db.Name)
	if err := medium.Set(key, blob); err != nil {
		return fmt.Errorf("failed to write database %s to key %s: %w", db.Name, key, err)
	}

	slog.Debug("Database saved successfully",
		slog.String("name", db.Name),
		slog.String("key", key),
		slog.Int("table_count", db.Count()),
		slog.Int("blob_bytes", len(blob)),
	)
	return nil
}

// DropDatabase removes the database blob from the medium. Removing a blob
// that was never written succeeds.
func DropDatabase(name string, medium storage.Medium) error {
	key := storage.Key(name)
	if err := medium.Remove(key); err != nil {
		return fmt.Errorf("failed to remove database %s: %w", name, err)
	}
	return nil
}
