package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens or creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Lookup returns the line count stored for key.
func (s *SQLiteStore) Lookup(key Key) (int, bool, error) {
	var lines int
	err := s.db.QueryRow(`
		SELECT lines FROM line_counts
		WHERE path = ? AND size = ? AND mod_time = ?
	`, key.Path, key.Size, key.ModTime.UnixNano()).Scan(&lines)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying line count: %w", err)
	}
	return lines, true, nil
}

// Put stores the line count for key.
func (s *SQLiteStore) Put(key Key, lines int) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO line_counts (path, size, mod_time, lines, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		key.Path,
		key.Size,
		key.ModTime.UnixNano(),
		lines,
		s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting line count: %w", err)
	}
	return nil
}

// Entries returns every stored entry ordered by path.
func (s *SQLiteStore) Entries() ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT path, size, mod_time, lines, updated_at
		FROM line_counts
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("querying line counts: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var modTime, updatedAt int64
		if err := rows.Scan(&e.Path, &e.Size, &modTime, &e.Lines, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning line count: %w", err)
		}
		e.ModTime = time.Unix(0, modTime)
		e.UpdatedAt = time.Unix(0, updatedAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line counts: %w", err)
	}

	return entries, nil
}

// Remove deletes the entry for path.
func (s *SQLiteStore) Remove(path string) error {
	if _, err := s.db.Exec("DELETE FROM line_counts WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting line count: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
