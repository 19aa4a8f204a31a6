// Package identity persists the small amount of client-local state that has
// to survive a restart: the stable participant id, the display name, and the
// active room handle. Storage is a single SQLite file opened through
// database/sql.
package identity

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Scope separates values by lifetime. Session-scoped values belong to one
// play session and are cleared together; local-scoped values (the display
// name) outlive sessions.
type Scope string

const (
	ScopeSession Scope = "session"
	ScopeLocal   Scope = "local"
)

const schema = `
CREATE TABLE IF NOT EXISTS client_state (
	scope TEXT NOT NULL,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (scope, key)
);`

// Store is a scoped key/value store over SQLite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the state database at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	return open(path)
}

// OpenMemoryStore opens an in-memory store, for tests.
func OpenMemoryStore() (*Store, error) {
	return open(":memory:")
}

func open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// A single connection keeps :memory: databases coherent and is plenty
	// for a client-side store.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the stored value and whether it exists.
func (s *Store) Get(scope Scope, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM client_state WHERE scope = ? AND key = ?`, string(scope), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

// Put stores or replaces a value.
func (s *Store) Put(scope Scope, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO client_state (scope, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value`,
		string(scope), key, value,
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes a value. Deleting a missing key is not an error.
func (s *Store) Delete(scope Scope, key string) error {
	if _, err := s.db.Exec(
		`DELETE FROM client_state WHERE scope = ? AND key = ?`, string(scope), key,
	); err != nil {
		return fmt.Errorf("delete %s/%s: %w", scope, key, err)
	}
	return nil
}
