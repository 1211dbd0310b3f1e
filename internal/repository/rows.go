package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate is wrapped into errors caused by a unique constraint,
	// such as a second property with the same parcel id in a county.
	ErrDuplicate = errors.New("duplicate row")
	// ErrMissingParent is wrapped into errors caused by a foreign key, such
	// as a contact for a property that does not exist.
	ErrMissingParent = errors.New("referenced row does not exist")
)

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify tags constraint violations from either driver with ErrDuplicate
// or ErrMissingParent. Other errors pass through unchanged.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrMissingParent, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", ErrMissingParent, err)
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := liteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%w: %w", ErrDuplicate, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%w: %w", ErrMissingParent, err)
			}
		}
	}
	return err
}

// rowModel is a pointer to a model that maps its own columns.
type rowModel[T any] interface {
	*T
	Columns() []models.Column
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// selectList returns the comma separated column list of T.
func selectList[T any, PT rowModel[T]]() string {
	return strings.Join(models.ColumnNames(PT(new(T)).Columns()), ", ")
}

func scanOne[T any, PT rowModel[T]](row scanner) (*T, error) {
	v := new(T)
	if err := row.Scan(models.ScanDest(PT(v).Columns())...); err != nil {
		return nil, err
	}
	return v, nil
}

// queryOne runs a single-row query. A missing row yields nil, nil.
func queryOne[T any, PT rowModel[T]](ctx context.Context, db *database.Database, query string, args ...interface{}) (*T, error) {
	v, err := scanOne[T, PT](db.SQL.QueryRowContext(ctx, db.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(err)
	}
	return v, nil
}

// queryAll runs a multi-row query. No rows yields an empty, non-nil slice.
func queryAll[T any, PT rowModel[T]](ctx context.Context, db *database.Database, query string, args ...interface{}) ([]T, error) {
	rows, err := db.SQL.QueryContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		v, err := scanOne[T, PT](rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return results, nil
}

// insertStatement builds an INSERT of every column in cols.
func insertStatement(table string, cols []models.Column, returning string) (string, []interface{}) {
	names := models.ColumnNames(cols)
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		args[i] = c.Value
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(names, ", "), placeholders, returning)
	return query, args
}

// updateStatement builds an UPDATE by id assigning every column in set.
func updateStatement(table, id string, set []models.Column, returning string) (string, []interface{}) {
	assignments := make([]string, len(set))
	args := make([]interface{}, 0, len(set)+1)
	for i, c := range set {
		assignments[i] = c.Name + " = ?"
		args = append(args, c.Value)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? RETURNING %s",
		table, strings.Join(assignments, ", "), returning)
	return query, args
}

// deleteByID removes one row and reports whether it existed.
func deleteByID(ctx context.Context, db *database.Database, table, id string) (bool, error) {
	res, err := db.SQL.ExecContext(ctx, db.Rebind(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
