package engine

import (
	"fmt"
	"log/slog"

	"github.com/leengari/lsdb/internal/domain/operation"
	"github.com/leengari/lsdb/internal/storage"
	"github.com/leengari/lsdb/internal/storage/writer"
)

// Commit writes the whole database to its medium.
// Returns false, after logging the cause, when the medium rejects the
// write (for example storage.ErrQuotaExceeded); the in-memory state is
// left untouched either way.
func (d *DB) Commit() bool {
	op := operation.Begin(operation.KindCommit)

	err := writer.SaveDatabase(d.db, d.medium)
	if err != nil {
		d.logger.Error("commit failed",
			slog.String("database", d.db.Name),
			slog.String("op_id", op.ID),
			slog.Any("error", err),
		)
		d.notify(op, "", map[string]any{"ok": false, "error": err.Error()})
		return false
	}

	d.notify(op, "", map[string]any{"ok": true, "elapsed": op.Elapsed()})
	return true
}

// Drop removes the stored blob and every table. Dropping twice, or
// dropping a database that was never committed, succeeds.
func (d *DB) Drop() error {
	op := operation.Begin(operation.KindDrop)

	if err := writer.DropDatabase(d.db.Name, d.medium); err != nil {
		return err
	}
	d.db.Clear()

	d.logger.Info("database dropped", slog.String("database", d.db.Name))
	d.notify(op, "", nil)
	return nil
}

// Serialize returns the database blob as JSON text: tables in creation
// order, records in their current order
func (d *DB) Serialize() (string, error) {
	blob, err := writer.Serialize(d.db)
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

// Replace swaps the whole in-memory database for the one encoded in text.
// Fails with a MalformedDataError, changing nothing, when text is not a
// valid blob. Nothing is persisted until Commit.
func (d *DB) Replace(text string) error {
	op := operation.Begin(operation.KindReplace)

	decoded, err := storage.Decode(d.db.Name, []byte(text))
	if err != nil {
		return fmt.Errorf("replace %s: %w", d.db.Name, err)
	}
	d.db.ReplaceTables(decoded)

	d.notify(op, "", map[string]any{"tables": d.db.Count()})
	return nil
}
