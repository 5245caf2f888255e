package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"userauth/internal/errors"
	"userauth/internal/infra/persistence/postgres/migrations"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

const migrationDialect = "postgres"

// MigrationDirection selects which goose command Migrate runs.
type MigrationDirection string

const (
	MigrateUp     MigrationDirection = "up"
	MigrateDown   MigrationDirection = "down"
	MigrateStatus MigrationDirection = "status"
)

// Migrate runs the embedded migrations against the primary connection of db.
func Migrate(ctx context.Context, db *gorm.DB, direction MigrationDirection, logger *slog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	return migrateSQL(ctx, sqlDB, direction, logger)
}

func migrateSQL(ctx context.Context, sqlDB *sql.DB, direction MigrationDirection, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(migrationDialect); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	var err error
	switch direction {
	case MigrateUp:
		err = goose.UpContext(ctx, sqlDB, ".")
	case MigrateDown:
		err = goose.DownContext(ctx, sqlDB, ".")
	case MigrateStatus:
		err = goose.StatusContext(ctx, sqlDB, ".")
	default:
		return errors.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return errors.Wrapf(err, "migrate %s failed", direction)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}
	if logger != nil {
		logger.Info("Migrations applied", slog.String("direction", string(direction)), slog.Int64("version", version))
	}

	return nil
}
