// Package store is driverkeep's on-disk history: recorded backup sessions,
// their per-package outcomes, and driver-store change events observed by the
// watch daemon.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the history database. All access goes through its query
// methods; the schema is guaranteed to exist once New returns.
type Store struct {
	db *sql.DB
}

// New opens the history database at dbPath, creating the file and schema as
// needed. Use ":memory:" for a private in-memory database in tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every driverkeep command is a short-lived single writer, so one
	// connection is all the pool needs. The busy timeout covers the case
	// where a backup run records history while the watch daemon is flushing
	// events into the same file.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying database connection for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
