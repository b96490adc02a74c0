package index

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements Store with a map. Its contents die with the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry // keyed by absolute path
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Lookup returns the line count stored for key.
func (m *MemoryStore) Lookup(key Key) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key.Path]
	if !ok || !e.Key.Matches(key) {
		return 0, false, nil
	}
	return e.Lines, true, nil
}

// Put stores the line count for key.
func (m *MemoryStore) Put(key Key, lines int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key.Path] = Entry{Key: key, Lines: lines, UpdatedAt: m.now()}
	return nil
}

// Entries returns every entry ordered by path.
func (m *MemoryStore) Entries() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		result = append(result, e)
	}
	slices.SortFunc(result, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
	return result, nil
}

// Remove deletes the entry for path.
func (m *MemoryStore) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, path)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
