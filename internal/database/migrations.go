package database

import (
	"context"
	"fmt"
	"strings"
)

// Column type tokens used in migrations, expanded per dialect.
var dialectTypes = map[Dialect]*strings.Replacer{
	DialectPostgres: strings.NewReplacer(
		"{ts}", "TIMESTAMPTZ",
		"{date}", "DATE",
		"{json}", "JSONB",
		"{num}", "DOUBLE PRECISION",
		"{bool}", "BOOLEAN",
	),
	DialectSQLite: strings.NewReplacer(
		"{ts}", "TIMESTAMP",
		"{date}", "DATE",
		"{json}", "TEXT",
		"{num}", "REAL",
		"{bool}", "BOOLEAN",
	),
}

// migrations is an ordered list of migration groups. Each group runs in a
// single transaction and its version is the 1-based index into this slice.
var migrations = [][]string{
	// 1: leads and their children
	{
		`CREATE TABLE properties (
			id TEXT PRIMARY KEY,
			parcel_id TEXT NOT NULL,
			county TEXT NOT NULL,
			owner_name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'new',
			pipeline_stage INTEGER NOT NULL DEFAULT 1,
			disqualification_reason TEXT,
			disqualification_notes TEXT,
			source TEXT,
			address TEXT,
			city TEXT,
			zip TEXT,
			subdivision TEXT,
			legal_description TEXT,
			boundary {json},
			acreage {num},
			improvement_value {num},
			land_value {num},
			market_value {num},
			dor_code TEXT,
			zoning TEXT,
			property_type TEXT,
			has_hoa {bool},
			hoa_fee {num},
			flood_zone TEXT,
			has_road_access {bool},
			road_type TEXT,
			has_power_at_road {bool},
			is_landlocked {bool},
			has_wetlands {bool},
			allows_mobile_homes {bool},
			tax_status TEXT,
			annual_taxes {num},
			taxes_owed {num},
			years_delinquent INTEGER,
			has_tax_certificate {bool},
			tax_sale_date {date},
			has_liens {bool},
			lien_details {json},
			has_mortgage {bool},
			mortgage_details TEXT,
			title_status TEXT,
			is_out_of_state {bool},
			is_inherited {bool},
			is_long_term_holder {bool},
			is_tax_delinquent_motivated {bool},
			seller_type TEXT,
			asking_price {num},
			price_per_acre {num},
			estimated_retail_value {num},
			target_offer_price {num},
			estimated_margin_percent {num},
			deal_verdict TEXT,
			offer_amount {num},
			offer_date {date},
			counter_amount {num},
			offer_status TEXT,
			accepted_price {num},
			closing_date {date},
			actual_purchase_price {num},
			sale_price {num},
			actual_profit {num},
			notes TEXT,
			created_at {ts} NOT NULL,
			updated_at {ts} NOT NULL,
			UNIQUE (parcel_id, county)
		)`,
		`CREATE INDEX idx_properties_status ON properties(status)`,
		`CREATE INDEX idx_properties_county ON properties(county)`,
		`CREATE INDEX idx_properties_created ON properties(created_at)`,

		`CREATE TABLE contacts (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			contact_type TEXT NOT NULL,
			value TEXT NOT NULL,
			label TEXT,
			is_valid {bool},
			source TEXT,
			created_at {ts} NOT NULL
		)`,
		`CREATE INDEX idx_contacts_property ON contacts(property_id)`,

		`CREATE TABLE comps (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			address TEXT,
			county TEXT,
			subdivision TEXT,
			acreage {num},
			price {num},
			price_per_acre {num},
			comp_type TEXT,
			comp_date {date},
			comp_source TEXT,
			notes TEXT,
			created_at {ts} NOT NULL
		)`,
		`CREATE INDEX idx_comps_property ON comps(property_id)`,

		`CREATE TABLE activity_log (
			id TEXT PRIMARY KEY,
			property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			activity_type TEXT NOT NULL,
			activity_date {ts} NOT NULL,
			outcome TEXT,
			follow_up_date {date},
			method TEXT,
			contact_used TEXT,
			notes TEXT,
			created_by TEXT NOT NULL,
			created_at {ts} NOT NULL
		)`,
		`CREATE INDEX idx_activity_property ON activity_log(property_id, activity_date)`,
	},
	// 2: saved views
	{
		`CREATE TABLE saved_views (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			filters {json} NOT NULL,
			sort {json},
			visible_columns {json} NOT NULL,
			is_default {bool} NOT NULL DEFAULT FALSE,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at {ts} NOT NULL,
			updated_at {ts} NOT NULL
		)`,
	},
	// 3: buyers
	{
		`CREATE TABLE buyers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			buyer_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			company TEXT,
			county TEXT,
			counties {json},
			phone TEXT,
			email TEXT,
			website TEXT,
			source TEXT,
			notes TEXT,
			buy_box {json},
			created_at {ts} NOT NULL,
			updated_at {ts} NOT NULL
		)`,
		`CREATE INDEX idx_buyers_type ON buyers(buyer_type)`,
	},
}

// Tables lists every application table in creation order.
var Tables = []string{"properties", "contacts", "comps", "activity_log", "saved_views", "buyers"}

// Migrate runs all pending schema migrations. Applied versions are tracked
// in the schema_migrations table.
func (db *Database) Migrate(ctx context.Context) error {
	types, ok := dialectTypes[db.Dialect]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", db.Dialect)
	}

	if _, err := db.SQL.ExecContext(ctx, types.Replace(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at {ts} NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	for i, stmts := range migrations {
		version := i + 1

		var exists int
		if err := db.SQL.QueryRowContext(ctx,
			db.Rebind("SELECT COUNT(*) FROM schema_migrations WHERE version = ?"), version,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		tx, err := db.SQL.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", version, err)
		}

		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, types.Replace(stmt)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", version, err)
			}
		}

		if _, err := tx.ExecContext(ctx, db.Rebind("INSERT INTO schema_migrations (version) VALUES (?)"), version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, or 0.
func (db *Database) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.SQL.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
