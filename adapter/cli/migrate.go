package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every embedded migration not yet recorded in schema_migrations.

Migrations for the configured driver (SQLite or PostgreSQL) are applied in
version order, each in its own transaction. Running it twice is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		if app.DBConn == nil {
			return fmt.Errorf("database connection not configured")
		}

		ctx := cmd.Context()
		applied, err := migrations.Run(ctx, app.DBConn)
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		all, err := migrations.List(app.DBConn.Driver())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, version := range applied {
			fmt.Fprintf(out, "applied %s\n", version)
		}
		fmt.Fprintf(out, "%s schema up to date (%d migrations, %d applied now)\n",
			app.DBConn.Driver(), len(all), len(applied))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
