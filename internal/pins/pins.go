// Package pins provides local SQLite persistence for bookmarked search
// requests. Pinning copies the record out of the remote listing so it
// stays available after it ages out of the server's pages.
package pins

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"querydeck/internal/api"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Pinned is a bookmarked search request plus the time it was pinned.
type Pinned struct {
	Record   api.SearchRequest
	PinnedAt time.Time
}

// Open creates a Store at dbPath, creating tables if needed.
// Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pins (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		result TEXT,
		pinned_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pins_pinned ON pins(pinned_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Pin bookmarks a record, returning true if it was newly pinned.
// Re-pinning an already pinned record is a no-op.
func (s *Store) Pin(rec api.SearchRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var createdAt any
	if rec.CreatedAt != nil {
		createdAt = *rec.CreatedAt
	}
	var result any
	if len(rec.Result) > 0 {
		result = string(rec.Result)
	}

	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO pins (id, query, status, created_at, duration_ms, result, pinned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Query, string(rec.Status), createdAt, rec.DurationMS, result, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("pin %s: %w", rec.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Unpin removes a bookmark. Unknown IDs are a no-op.
func (s *Store) Unpin(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM pins WHERE id = ?`, id); err != nil {
		return fmt.Errorf("unpin %s: %w", id, err)
	}
	return nil
}

// Has reports whether a record is pinned.
func (s *Store) Has(id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pins WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns all pins, most recently pinned first.
func (s *Store) List() ([]Pinned, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, query, status, created_at, duration_ms, result, pinned_at
		FROM pins
		ORDER BY pinned_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pins []Pinned
	for rows.Next() {
		var (
			p         Pinned
			status    string
			createdAt sql.NullTime
			result    sql.NullString
		)
		if err := rows.Scan(&p.Record.ID, &p.Record.Query, &status, &createdAt,
			&p.Record.DurationMS, &result, &p.PinnedAt); err != nil {
			return nil, err
		}
		p.Record.Status = api.Status(status)
		if createdAt.Valid {
			t := createdAt.Time
			p.Record.CreatedAt = &t
		}
		if result.Valid {
			p.Record.Result = []byte(result.String)
		}
		pins = append(pins, p)
	}
	return pins, rows.Err()
}
