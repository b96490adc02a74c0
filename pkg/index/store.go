// Package index remembers how many lines a file has, so repeated
// extractions from an unchanged large file can skip the counting pass.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Key identifies one version of a file. A file whose size or modification
// time changed gets a different key and misses the index.
type Key struct {
	Path    string // absolute path
	Size    int64
	ModTime time.Time
}

// KeyFor builds the key for path from its file info.
func KeyFor(path string, info os.FileInfo) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	return Key{Path: abs, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.Path == ""
}

// Matches reports whether other describes the same file version.
func (k Key) Matches(other Key) bool {
	return k.Path == other.Path && k.Size == other.Size && k.ModTime.Equal(other.ModTime)
}

// Entry is a stored line count.
type Entry struct {
	Key
	Lines     int
	UpdatedAt time.Time
}

// Store persists line counts. Only the latest version of each path is kept.
type Store interface {
	// Lookup returns the line count stored for key, if its version matches.
	Lookup(key Key) (lines int, ok bool, err error)

	// Put stores the line count for key, replacing any older version.
	Put(key Key, lines int) error

	// Entries returns every stored entry ordered by path.
	Entries() ([]Entry, error)

	// Remove deletes the entry for path. Removing a missing path is not an error.
	Remove(path string) error

	// Close releases the store.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for a process-local index (useful for testing).
	Path string
}

// New opens the store described by cfg.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("index path is required")
	}
	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}
	return NewSQLite(cfg.Path)
}
