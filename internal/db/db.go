// Package db provides SQLite storage for tickets.
//
// The database is stored at ~/.tickets/tickets.db by default.
// Use Open() to connect and Init() to create the schema.
package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"

	"github.com/baiirun/tickets/internal/query"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(query.FoldFunc, 1, fold)
}

// fold exposes query.Fold to SQL so searches fold non-ASCII text the same
// way in the store as in memory.
func fold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return query.Fold(v), nil
	case []byte:
		return query.Fold(string(v)), nil
	default:
		return v, nil
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	link TEXT NOT NULL,
	lead_comment TEXT NOT NULL DEFAULT '',
	action_plan TEXT NOT NULL DEFAULT '',
	other_details TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tickets_link ON tickets(link);
CREATE INDEX IF NOT EXISTS idx_tickets_created ON tickets(created_at);
CREATE INDEX IF NOT EXISTS idx_tickets_category ON tickets(category);
`

// DB wraps a SQL database connection with ticket operations.
type DB struct {
	*sql.DB
}

// DefaultPath returns the default database path (~/.tickets/tickets.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tickets", "tickets.db"), nil
}

// Open opens or creates the database at the given path
func Open(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer; pragmas below stick to the one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = FULL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	return &DB{db}, nil
}

// Init creates the schema. Safe to call on an existing database.
func (db *DB) Init() error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
