package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrRLSUnsupported is returned when the store has no row level security.
var ErrRLSUnsupported = errors.New("row level security requires postgres")

// policyName is the allow-all policy installed on each table.
func policyName(table string) string {
	return fmt.Sprintf("Allow all access to %s", table)
}

// EnableRowLevelSecurity turns on row level security for every application
// table and installs a permissive policy granting full access. Re-running it
// replaces the policies.
func (db *Database) EnableRowLevelSecurity(ctx context.Context) error {
	if db.Pool == nil {
		return ErrRLSUnsupported
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rls bootstrap: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, table := range Tables {
		ident := pgx.Identifier{table}.Sanitize()
		policy := pgx.Identifier{policyName(table)}.Sanitize()

		stmts := []string{
			fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY", ident),
			fmt.Sprintf("DROP POLICY IF EXISTS %s ON %s", policy, ident),
			fmt.Sprintf("CREATE POLICY %s ON %s FOR ALL USING (true) WITH CHECK (true)", policy, ident),
		}
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to enable rls on %s: %w", table, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rls bootstrap: %w", err)
	}
	return nil
}
