package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens an embedded SQLite store at path (":memory:" for a
// throwaway store) with WAL mode, foreign keys and a 5s busy timeout.
func OpenSQLite(ctx context.Context, path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection: SQLite serializes writers, and an in-memory store
	// lives only as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to exec %q: %w", p, err)
		}
	}

	return &Database{SQL: db, Dialect: DialectSQLite}, nil
}
