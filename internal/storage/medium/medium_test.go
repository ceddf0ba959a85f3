package medium

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/leengari/lsdb/internal/storage"
)

func openAll(t *testing.T) map[string]storage.Medium {
	t.Helper()

	dir, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	mossMem, err := OpenMossInMemory()
	if err != nil {
		t.Fatalf("OpenMossInMemory: %v", err)
	}
	t.Cleanup(func() { mossMem.Close() })

	return map[string]storage.Medium{
		"memory": NewMemory(),
		"dir":    dir,
		"sqlite": sqlite,
		"moss":   mossMem,
		"quota":  NewMemoryWithQuota(1 << 20),
	}
}

func TestMediumContract(t *testing.T) {
	for name, m := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := m.Get("db_missing"); err != nil || ok {
				t.Fatalf("Get(absent) = ok %v, err %v; want false, nil", ok, err)
			}

			if err := m.Set("db_a", []byte(`{"t":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := m.Set("db_b/slash", []byte(`{}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := m.Set("db_a", []byte(`{"t":2}`)); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}

			got, ok, err := m.Get("db_a")
			if err != nil || !ok {
				t.Fatalf("Get = ok %v, err %v", ok, err)
			}
			if !bytes.Equal(got, []byte(`{"t":2}`)) {
				t.Errorf("Get = %s, want overwritten value", got)
			}

			keys, err := m.Keys()
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if len(keys) != 2 || keys[0] != "db_a" || keys[1] != "db_b/slash" {
				t.Errorf("Keys = %v", keys)
			}

			if err := m.Remove("db_a"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if err := m.Remove("db_a"); err != nil {
				t.Errorf("Remove(absent) = %v, want nil", err)
			}
			if _, ok, _ := m.Get("db_a"); ok {
				t.Error("key still present after Remove")
			}
		})
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	m.Set("k", []byte("abc"))

	got, _, _ := m.Get("k")
	got[0] = 'z'

	again, _, _ := m.Get("k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get: %s", again)
	}
}

func TestQuotaExceeded(t *testing.T) {
	q := NewMemoryWithQuota(20)

	if err := q.Set("k1", []byte("0123456789")); err != nil {
		t.Fatalf("Set within quota: %v", err)
	}

	err := q.Set("k2", []byte("0123456789"))
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("Set over quota = %v, want ErrQuotaExceeded", err)
	}
	if _, ok, _ := q.Get("k2"); ok {
		t.Error("rejected write was stored")
	}

	// overwriting an existing key only counts the difference
	if err := q.Set("k1", []byte("01234567890123")); err != nil {
		t.Errorf("overwrite within quota: %v", err)
	}

	if err := q.Remove("k1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if used, _ := q.Used(); used != 0 {
		t.Errorf("Used after Remove = %d, want 0", used)
	}
	if err := q.Set("k2", []byte("0123456789")); err != nil {
		t.Errorf("Set after freeing space: %v", err)
	}
}

func TestQuotaCountsExistingContent(t *testing.T) {
	inner := NewMemory()
	inner.Set("big", bytes.Repeat([]byte("x"), 97))

	q := NewQuota(inner, 110)
	if err := q.Set("k", []byte("0123456789")); !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Errorf("Set = %v, want ErrQuotaExceeded", err)
	}
}

func TestDirPersistsAcrossInstances(t *testing.T) {
	root := t.TempDir()

	d1, err := NewDir(root)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if err := d1.Set("db_people", []byte("{}")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	d2, _ := NewDir(root)
	if _, ok, _ := d2.Get("db_people"); !ok {
		t.Error("blob not visible to a second instance")
	}
}

func TestMossPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	m, err := OpenMoss(dir)
	if err != nil {
		t.Fatalf("OpenMoss: %v", err)
	}
	if err := m.Set("db_people", []byte(`{"people":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m2, err := OpenMoss(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer m2.Close()

	got, ok, err := m2.Get("db_people")
	if err != nil || !ok {
		t.Fatalf("Get after reopen = ok %v, err %v", ok, err)
	}
	if string(got) != `{"people":1}` {
		t.Errorf("Get after reopen = %s", got)
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		kind    Kind
		path    string
		quota   int64
		wantErr bool
	}{
		{kind: KindMemory},
		{kind: "MEMORY"},
		{kind: KindFile, path: t.TempDir()},
		{kind: KindFile, wantErr: true},
		{kind: KindSQLite},
		{kind: KindMoss},
		{kind: KindMemory, quota: 100},
		{kind: "redis", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			m, err := Open(tt.kind, tt.path, tt.quota)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer Close(m)

			if _, isQuota := m.(*Quota); isQuota != (tt.quota > 0) {
				t.Errorf("quota wrapper = %v, want %v", isQuota, tt.quota > 0)
			}
			if err := m.Set("k", []byte("v")); err != nil {
				t.Errorf("Set: %v", err)
			}
		})
	}
}
