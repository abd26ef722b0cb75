package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq" // database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/mhersel/vitae/internal/config"
	"github.com/mhersel/vitae/migrations"
)

// Migrate runs all pending goose migrations from the embedded filesystem.
// Goose wants a database/sql handle, so this opens a short-lived lib/pq
// connection separate from the pgx pool.
func Migrate(cfg *config.DatabaseConfig, logger *slog.Logger) error {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("database migrations applied", slog.Int64("version", version))
	return nil
}
