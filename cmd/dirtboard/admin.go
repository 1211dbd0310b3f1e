package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/logger"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Import a lead spreadsheet",
		Long: `Import a lead spreadsheet exported as CSV. Each row is upserted on
parcel id and county, so a sheet can be imported again after edits. Rows that
fail are listed in the printed summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			res, err := c.app.Importer.Import(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

// SchemaStatus is printed by migrate.
type SchemaStatus struct {
	Store   string `json:"store"`
	Version int    `json:"version"`
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db := c.app.DB
			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			version, err := db.SchemaVersion(cmd.Context())
			if err != nil {
				return err
			}
			c.log.Info("Schema up to date", logger.Fields{"version": version})
			return printJSON(cmd, SchemaStatus{Store: string(db.Dialect), Version: version})
		},
	}
}

func (c *cli) bootstrapRLSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap-rls",
		Short: "Enable row level security with allow-all policies (postgres only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.app.DB.EnableRowLevelSecurity(cmd.Context())
			if errors.Is(err, database.ErrRLSUnsupported) {
				return fmt.Errorf("%w: STORE_DRIVER is %s", err, c.cfg.Database.Driver)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]interface{}{"tables": database.Tables})
		},
	}
}
