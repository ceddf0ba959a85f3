package medium

import (
	"fmt"
	"io"
	"strings"

	"github.com/leengari/lsdb/internal/storage"
)

// Kind names a medium implementation
type Kind string

const (
	KindMemory Kind = "memory"
	KindFile   Kind = "file"
	KindMoss   Kind = "moss"
	KindSQLite Kind = "sqlite"
)

// Open builds a medium of the given kind. path is the directory for file
// and moss media and the database file for sqlite; an empty path keeps
// moss and sqlite in memory. A positive quota wraps the result in a Quota.
func Open(kind Kind, path string, quota int64) (storage.Medium, error) {
	var (
		m   storage.Medium
		err error
	)

	switch Kind(strings.ToLower(string(kind))) {
	case KindMemory, "":
		m = NewMemory()
	case KindFile:
		m, err = NewDir(path)
	case KindMoss:
		if path == "" {
			m, err = OpenMossInMemory()
		} else {
			m, err = OpenMoss(path)
		}
	case KindSQLite:
		if path == "" {
			path = ":memory:"
		}
		m, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown medium kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	if quota > 0 {
		return NewQuota(m, quota), nil
	}
	return m, nil
}

// Close releases the medium's resources if it holds any
func Close(m storage.Medium) error {
	if c, ok := m.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
