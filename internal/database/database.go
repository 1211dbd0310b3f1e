package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stwalsh4118/dirtboard/internal/config"
)

// Dialect names the SQL flavour spoken by the record store.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Database is the record store handle shared by every repository.
// SQL is always set. Pool is set only for postgres, where SQL is a
// database/sql view over the same pgx pool.
type Database struct {
	Pool    *pgxpool.Pool
	SQL     *sql.DB
	Dialect Dialect
}

// Open connects to the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresPool(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}

// Ping checks if the database connection is alive.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	return db.SQL.PingContext(ctx)
}

// Close releases the database/sql handle and, for postgres, the pool behind it.
func (db *Database) Close() {
	if db.SQL != nil {
		_ = db.SQL.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Stats returns statistics about the postgres connection pool, or nil for sqlite.
func (db *Database) Stats() *pgxpool.Stat {
	if db.Pool == nil {
		return nil
	}
	return db.Pool.Stat()
}

// Rebind rewrites ? placeholders into the dialect's bind syntax.
// Queries must not contain a literal question mark.
func (db *Database) Rebind(query string) string {
	if db.Dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
