package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns a fresh instance of every backend.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func testKey(path string, size int64) Key {
	return Key{
		Path:    path,
		Size:    size,
		ModTime: time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC),
	}
}

func TestStore_LookupMiss(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Lookup(testKey("/data/a.log", 10))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStore_PutLookup(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := testKey("/data/a.log", 1024)
			require.NoError(t, s.Put(key, 42))

			lines, ok, err := s.Lookup(key)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 42, lines)
		})
	}
}

func TestStore_ChangedFileMisses(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := testKey("/data/a.log", 1024)
			require.NoError(t, s.Put(key, 42))

			grown := key
			grown.Size = 2048
			_, ok, err := s.Lookup(grown)
			require.NoError(t, err)
			assert.False(t, ok, "size change must miss")

			touched := key
			touched.ModTime = key.ModTime.Add(time.Nanosecond)
			_, ok, err = s.Lookup(touched)
			require.NoError(t, err)
			assert.False(t, ok, "mtime change must miss")
		})
	}
}

func TestStore_PutReplacesOlderVersion(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			old := testKey("/data/a.log", 10)
			require.NoError(t, s.Put(old, 1))

			updated := testKey("/data/a.log", 20)
			require.NoError(t, s.Put(updated, 2))

			entries, err := s.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, 2, entries[0].Lines)
			assert.Equal(t, int64(20), entries[0].Size)
			assert.True(t, entries[0].ModTime.Equal(updated.ModTime))
			assert.False(t, entries[0].UpdatedAt.IsZero())
		})
	}
}

func TestStore_EntriesOrderedByPath(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(testKey("/b", 1), 1))
			require.NoError(t, s.Put(testKey("/c", 1), 1))
			require.NoError(t, s.Put(testKey("/a", 1), 1))

			entries, err := s.Entries()
			require.NoError(t, err)

			var paths []string
			for _, e := range entries {
				paths = append(paths, e.Path)
			}
			assert.Equal(t, []string{"/a", "/b", "/c"}, paths)
		})
	}
}

func TestStore_Remove(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := testKey("/data/a.log", 10)
			require.NoError(t, s.Put(key, 3))
			require.NoError(t, s.Remove(key.Path))
			require.NoError(t, s.Remove("/never/stored"))

			_, ok, err := s.Lookup(key)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLite_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "index.db")
	key := testKey("/data/big.log", 1<<30)

	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Put(key, 123456))
	require.NoError(t, s.Close())

	s, err = NewSQLite(dbPath)
	require.NoError(t, err)
	defer s.Close()

	lines, ok, err := s.Lookup(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 123456, lines)
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	s, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(Config{Path: filepath.Join(t.TempDir(), "index.db")})
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
}

func TestKeyFor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0644))

	info, err := os.Stat(path)
	require.NoError(t, err)

	key, err := KeyFor(path, info)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(key.Path))
	assert.Equal(t, int64(4), key.Size)
	assert.True(t, key.ModTime.Equal(info.ModTime()))
	assert.False(t, key.IsZero())
	assert.True(t, Key{}.IsZero())
}
