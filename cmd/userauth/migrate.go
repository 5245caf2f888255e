package main

import (
	"context"
	"log/slog"
	"os"

	"userauth/config"
	"userauth/internal/errors"
	"userauth/internal/infra/persistence/postgres"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Run database migrations",
		Long:      `Apply, roll back, or report the embedded schema migrations against the configured PostgreSQL database.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.MigrateUp), string(postgres.MigrateDown), string(postgres.MigrateStatus)},
		RunE:      runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := postgres.MigrateUp
	if len(args) == 1 {
		direction = postgres.MigrationDirection(args[0])
	}

	cfg, err := config.NewFromFile(configFile)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		return errors.Errorf("migrations need storage.driver %q, got %q", config.StorageDriverPostgres, cfg.Storage.Driver)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cmd.Println("Connecting to database...")
	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}
	defer sqlDB.Close()

	cmd.Printf("Running migrations (%s)...\n", direction)
	if err := postgres.Migrate(context.Background(), db, direction, logger); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")

	return nil
}
