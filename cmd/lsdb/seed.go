package main

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/leengari/lsdb/internal/storage"
)

//go:embed seed/*.json
var seedFS embed.FS

// ensureDatabaseSeeded writes the embedded blob for dbName to the medium
// unless a blob is already stored under its key
func ensureDatabaseSeeded(m storage.Medium, dbName string) error {
	key := storage.Key(dbName)
	if _, found, err := m.Get(key); err != nil {
		return err
	} else if found {
		return nil // Already exists
	}

	blob, err := seedFS.ReadFile("seed/" + dbName + ".json")
	if err != nil {
		return fmt.Errorf("no seed for database %s: %w", dbName, err)
	}
	if _, err := storage.Decode(dbName, blob); err != nil {
		return fmt.Errorf("seed for database %s: %w", dbName, err)
	}

	slog.Info("Seeding database...", "database", dbName, "key", key)
	return m.Set(key, blob)
}
