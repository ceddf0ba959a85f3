package medium

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/leengari/lsdb/internal/storage"
)

const blobExt = ".json"

// Dir stores each key as one file in a directory. Writes go to a temp file
// first and are renamed into place.
type Dir struct {
	root string
}

var _ storage.Medium = (*Dir)(nil)

// NewDir opens (creating if needed) a directory medium
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, fmt.Errorf("directory medium needs a path")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create medium directory %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

// Root returns the directory holding the blobs
func (d *Dir) Root() string {
	return d.root
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, url.PathEscape(key)+blobExt)
}

func (d *Dir) Get(key string) ([]byte, bool, error) {
	b, err := os.ReadFile(d.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return b, true, nil
}

func (d *Dir) Set(key string, value []byte) error {
	path := d.path(key)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, value, 0644); err != nil {
		return fmt.Errorf("failed to write temp file for key %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file for key %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Remove(key string) error {
	err := os.Remove(d.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Keys() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read medium directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), blobExt)
		if entry.IsDir() || !ok {
			continue
		}
		key, err := url.PathUnescape(name)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
