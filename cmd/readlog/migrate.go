// ABOUTME: Migration command for copying readlog data between local backends
// ABOUTME: Supports csv-to-sqlite and sqlite-to-csv with an empty-target safety check

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/readlog/internal/config"
	"github.com/harper/readlog/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between local backends",
	Long: `Copy every session from the configured local backend to the other one.

Unknown columns travel with the rows. The target must be empty. Does NOT
update the config file; verify the migration then set local_backend.

Examples:
  readlog migrate --to sqlite
  readlog migrate --to csv`,
	RunE: runMigrate,
}

var migrateTo string

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (csv or sqlite)")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetLocalBackend()
	targetBackend := migrateTo

	if targetBackend != config.BackendCSV && targetBackend != config.BackendSQLite {
		return fmt.Errorf("invalid target backend %q: must be \"csv\" or \"sqlite\"", targetBackend)
	}
	if targetBackend == sourceBackend {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	sourcePath := cfg.LocalPath(sourceBackend)
	hasData, err := storage.IsFileNonEmpty(sourcePath)
	if err != nil {
		return fmt.Errorf("check source file: %w", err)
	}
	if !hasData {
		return fmt.Errorf("nothing to migrate: %s does not exist or is empty", sourcePath)
	}

	src, err := cfg.OpenLocal(logger)
	if err != nil {
		return fmt.Errorf("open source storage (%s): %w", sourceBackend, err)
	}
	defer src.Close()

	dst, err := cfg.OpenLocalBackend(targetBackend, logger)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer dst.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.YellowString("Migrating readlog data:"))
	fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, src.Location())
	fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, dst.Location())
	fmt.Fprintln(out)

	summary, err := storage.MigrateData(src, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, color.GreenString("Migration complete!"))
	fmt.Fprintf(out, "  Entries: %d\n", summary.Entries)
	if len(summary.Extra) > 0 {
		fmt.Fprintf(out, "  Extra columns: %v\n", summary.Extra)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, color.YellowString("Note: the config was NOT updated. To switch to the new backend, edit:"))
	fmt.Fprintf(out, "  %s\n", cfg.Path())
	fmt.Fprintf(out, "  Set local_backend: %s\n", targetBackend)

	return nil
}
