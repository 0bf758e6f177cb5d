package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/bnema/careshell/internal/logging"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	log := logging.FromContext(ctx)

	if err := configureGoose(); err != nil {
		return err
	}

	currentVersion, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		log.Debug().Err(err).Msg("could not read schema version, assuming new database")
		currentVersion = 0
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get db version after migration: %w", err)
	}

	if newVersion > currentVersion {
		log.Info().
			Int64("from_version", currentVersion).
			Int64("to_version", newVersion).
			Msg("database migrations applied")
	} else {
		log.Debug().Int64("version", newVersion).Msg("database schema up to date")
	}

	return nil
}

// SchemaVersion returns the applied migration version.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	if err := configureGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

func configureGoose() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}
