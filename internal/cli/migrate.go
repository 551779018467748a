package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/foodgram/backend/internal/database"
)

var errSQLiteDown = errors.New("sqlite databases are migrated with auto-migration and cannot be rolled back")

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			return database.RunMigrations(a.db, a.cfg, a.log)
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (all of them unless --steps is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger(os.Stderr)
			if err != nil {
				return err
			}
			if cfg.DBDriver == "sqlite" {
				return errSQLiteDown
			}
			if err := database.MigrateDown(cfg.PostgresURL(), steps); err != nil {
				return err
			}
			log.Info("migrations rolled back")
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to roll back (0 = all)")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}
