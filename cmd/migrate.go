package cmd

import (
	"fmt"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/datastore"
	"github.com/frahmantamala/crm-management/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	cfg, err := setupLogger()
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	// The goose files are postgres DDL; sqlite schemas come from the models.
	if cfg.Database.Driver == internal.DriverSQLite {
		if migrateRollback {
			return fmt.Errorf("rollback is not supported for the sqlite driver")
		}
		store, err := datastore.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		lg.Info("migrating sqlite schema from models")
		return datastore.Migrate(store.Gorm)
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}

	lg.Info("running migrations", "command", command, "dir", migrateDir)
	if err := goose.RunContext(cmd.Context(), command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
