package cli

import (
	"bistro-pos/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(e *env) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default MIGRATIONS_DIR)")

	migrationsDir := func() string {
		if dir != "" {
			return dir
		}
		return e.cfg.Server.MigrationsDir
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			return database.RunMigrationsContext(cmd.Context(), db, migrationsDir(), e.logger)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			return database.GetMigrationStatus(cmd.Context(), db, migrationsDir(), e.logger)
		},
	})

	return cmd
}
