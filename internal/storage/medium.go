// Package storage is the persistence gateway: it encodes a database into a
// single JSON blob, stores it under one key of a key/value medium, and
// loads it back with a fallback to an empty database when the blob is
// absent or corrupt.
package storage

import (
	"errors"
	"strings"
)

// ErrQuotaExceeded is returned by a Medium whose capacity would be exceeded
// by a write. The write has no effect.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KeyPrefix namespaces database blobs on a shared medium
const KeyPrefix = "db_"

// Medium is the byte-level key/value store a database blob lives in
type Medium interface {
	// Get returns the stored bytes and true, or nil and false if absent
	Get(key string) ([]byte, bool, error)
	// Set stores value under key, replacing any previous value
	Set(key string, value []byte) error
	// Remove deletes key; removing an absent key is not an error
	Remove(key string) error
	// Keys lists every stored key
	Keys() ([]string, error)
}

// Key returns the medium key holding the named database
func Key(name string) string {
	return KeyPrefix + name
}

// NameFromKey reverses Key; ok is false for keys that hold no database
func NameFromKey(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}
