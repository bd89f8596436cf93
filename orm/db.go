// Package orm is a small record mapper over SQLite, consumed by
// application handlers. Models are plain structs whose orm struct tags
// describe column constraints; the mapper derives the schema, persists
// instances and answers chainable queries.
package orm

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrDoesNotExist reports a Get that matched no row.
	ErrDoesNotExist = errors.New("object not found")
	// ErrMultipleObjects reports a Get that matched more than one row.
	ErrMultipleObjects = errors.New("multiple objects found")
)

// Manager owns one database handle. database/sql pools connections
// internally, so a single Manager is safe for concurrent handlers.
type Manager struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path. Use
// ":memory:" for an in-memory database.
func Open(path string) (*Manager, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return &Manager{db: db}, nil
}

// Close releases the database handle.
func (m *Manager) Close() error {
	return m.db.Close()
}

// DB exposes the raw handle for queries the mapper does not cover.
func (m *Manager) DB() *sql.DB {
	return m.db
}
