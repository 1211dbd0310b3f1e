// Package main implements the dirtboard operator CLI. It talks to the record
// store directly, using the same configuration as the API server, and prints
// JSON to stdout. Logs go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/dirtboard/internal/app"
	"github.com/stwalsh4118/dirtboard/internal/config"
	"github.com/stwalsh4118/dirtboard/internal/handlers"
	"github.com/stwalsh4118/dirtboard/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand for one invocation.
type cli struct {
	cfg *config.Config
	log *logger.Logger
	app *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "dirtboard",
		Short: "Operate the DirtBoard lead tracker from the command line",
		Long: `dirtboard reads and edits the lead pipeline directly in the record store.

The store is selected with the same environment variables as the API server
(STORE_DRIVER, SQLITE_PATH, DB_HOST, ...). Results are printed as JSON.

Examples:
  # List qualified leads in Putnam county
  dirtboard list --status qualified --county Putnam

  # Disqualify a lead
  dirtboard disqualify <id> flood_zone "AE zone over most of the lot"

  # Load a lead spreadsheet
  dirtboard import leads.csv`,
		Version:           handlers.APIVersion,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: c.teardown,
	}

	root.AddCommand(
		c.listCmd(),
		c.getCmd(),
		c.findParcelCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.disqualifyCmd(),
		c.qualifyCmd(),
		c.addContactCmd(),
		c.logCmd(),
		c.needsValidationCmd(),
		c.statsCmd(),
		c.importCmd(),
		c.migrateCmd(),
		c.bootstrapRLSCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger.New(logger.Options{
		Env:   cfg.Server.Env,
		Level: cfg.Log.Level,
		Out:   cmd.ErrOrStderr(),
	}).Component("cli")

	a, err := app.New(cmd.Context(), cfg, c.log)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) teardown(*cobra.Command, []string) {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v interface{}) error {
	return writeJSON(cmd.OutOrStdout(), v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
