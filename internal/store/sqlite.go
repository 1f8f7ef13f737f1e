package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SchemaVersion is the evaluations schema written by this package.
const SchemaVersion = "1"

const versionKey = "schema_version"

// SQLite stores evaluations in a SQLite database file.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens or creates the evaluation database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init runs before s is shared, so it uses the unlocked metadata helpers.
func (s *SQLite) init() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`); err != nil {
		return err
	}

	version, err := s.getMetadataUnlocked(versionKey)
	if err != nil {
		return err
	}
	switch version {
	case SchemaVersion:
		return nil
	case "":
		if err := s.migrateToV1(); err != nil {
			return err
		}
		return s.setMetadataUnlocked(versionKey, SchemaVersion)
	}
	return fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
}

// migrateToV1 creates the evaluation tables.
func (s *SQLite) migrateToV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS evaluations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			digest INTEGER NOT NULL,
			input TEXT NOT NULL,
			answer TEXT NOT NULL,
			engine TEXT NOT NULL,
			ts TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS evaluations_digest ON evaluations (digest, engine);
	`)
	return err
}

// Record appends an evaluation.
func (s *SQLite) Record(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// database/sql rejects uint64 values with the high bit set.
	_, err := s.db.Exec(`
		INSERT INTO evaluations (digest, input, answer, engine, ts) VALUES (?, ?, ?, ?, ?)
	`, int64(e.Digest), e.Input, e.Answer, e.Engine, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Lookup returns the newest entry for digest evaluated by engine.
func (s *SQLite) Lookup(digest uint64, engine string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`
		SELECT id, digest, input, answer, engine, ts FROM evaluations
		WHERE digest = ? AND engine = ? ORDER BY id DESC LIMIT 1
	`, int64(digest), engine)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// History returns up to limit entries, newest first.
func (s *SQLite) History(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT id, digest, input, answer, engine, ts FROM evaluations
		ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked returns "" for a missing key. Caller holds s.mu.
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadataUnlocked upserts key. Caller holds s.mu.
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*Entry, error) {
	var (
		e      Entry
		digest int64
	)
	if err := r.Scan(&e.ID, &digest, &e.Input, &e.Answer, &e.Engine, &e.Ts); err != nil {
		return nil, err
	}
	e.Digest = uint64(digest)
	return &e, nil
}
