package integration

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/leengari/lsdb/internal/engine"
	"github.com/leengari/lsdb/internal/storage"
	"github.com/leengari/lsdb/internal/storage/manager"
	"github.com/leengari/lsdb/internal/storage/medium"
)

// persistentKinds are the media that survive a reopen, with the path each
// is opened at inside a test directory
var persistentKinds = []struct {
	kind medium.Kind
	path string
}{
	{medium.KindFile, "files"},
	{medium.KindMoss, "moss"},
	{medium.KindSQLite, "lsdb.sqlite"},
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// openMedium opens a medium and closes it when the test ends unless the
// test closes it first
func openMedium(t *testing.T, kind medium.Kind, path string) storage.Medium {
	t.Helper()
	m, err := medium.Open(kind, path, 0)
	if err != nil {
		t.Fatalf("open %s medium: %v", kind, err)
	}
	t.Cleanup(func() { medium.Close(m) })
	return m
}

// setupTestDB opens a registry on m and returns the "app" database from it
func setupTestDB(t *testing.T, m storage.Medium, observers ...engine.Observer) (*manager.Registry, *engine.DB) {
	t.Helper()
	registry := manager.NewRegistry(m, quietLogger(), observers...)
	db, err := registry.Get("app")
	if err != nil {
		t.Fatalf("Get(app): %v", err)
	}
	return registry, db
}

func testPath(t *testing.T, name string) string {
	return filepath.Join(t.TempDir(), name)
}
