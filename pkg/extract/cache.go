package extract

import (
	"cmp"
	"errors"
	"slices"
)

// ErrFrozen is returned when inserting into a frozen cache.
var ErrFrozen = errors.New("line cache is frozen")

type cachedLine struct {
	number int
	bytes  []byte
}

// Cache maps zero-based line numbers to their bytes. Lines are kept sorted
// by number; filling in ascending order appends without shifting.
type Cache struct {
	lines  []cachedLine
	frozen bool
}

// NewCache returns an empty cache sized for capacity lines.
func NewCache(capacity int) *Cache {
	return &Cache{lines: make([]cachedLine, 0, capacity)}
}

// Insert stores b for line. It reports false if the line was already
// present, in which case the stored bytes are kept.
func (c *Cache) Insert(line int, b []byte) (bool, error) {
	if c.frozen {
		return false, ErrFrozen
	}
	if n := len(c.lines); n == 0 || c.lines[n-1].number < line {
		c.lines = append(c.lines, cachedLine{number: line, bytes: b})
		return true, nil
	}
	i, found := c.search(line)
	if found {
		return false, nil
	}
	c.lines = slices.Insert(c.lines, i, cachedLine{number: line, bytes: b})
	return true, nil
}

// Get returns the bytes of line.
func (c *Cache) Get(line int) ([]byte, bool) {
	i, found := c.search(line)
	if !found {
		return nil, false
	}
	return c.lines[i].bytes, true
}

// Has reports whether line is cached.
func (c *Cache) Has(line int) bool {
	_, found := c.search(line)
	return found
}

// Len returns the number of cached lines.
func (c *Cache) Len() int {
	return len(c.lines)
}

// Freeze makes the cache read-only.
func (c *Cache) Freeze() {
	c.frozen = true
}

// Frozen reports whether Freeze was called.
func (c *Cache) Frozen() bool {
	return c.frozen
}

func (c *Cache) search(line int) (int, bool) {
	return slices.BinarySearchFunc(c.lines, line, func(l cachedLine, target int) int {
		return cmp.Compare(l.number, target)
	})
}
