package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/maxviazov/station-vendor-service/internal/config"
	"github.com/maxviazov/station-vendor-service/migrations"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// Migration directions accepted by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// gooseLogger routes goose progress output into zerolog.
type gooseLogger struct{ l zerolog.Logger }

func (g gooseLogger) Printf(format string, v ...any) { g.l.Info().Msgf(format, v...) }
func (g gooseLogger) Fatalf(format string, v ...any) { g.l.Fatal().Msgf(format, v...) }

// Migrate applies the embedded schema migrations in the given direction.
// goose works on database/sql, so I open a short-lived handle through the pgx stdlib driver.
func Migrate(ctx context.Context, cfg config.PostgresConfig, logger zerolog.Logger, direction string) error {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return fmt.Errorf("open migration handle: %w", err)
	}
	defer db.Close()

	return migrateDB(ctx, db, logger, direction)
}

func migrateDB(ctx context.Context, db *sql.DB, logger zerolog.Logger, direction string) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{l: logger.With().Str("component", "migrations").Logger()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	var err error
	switch direction {
	case MigrateUp:
		err = goose.UpContext(ctx, db, ".")
	case MigrateDown:
		err = goose.DownContext(ctx, db, ".")
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, ".")
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}

// MigrateDB runs migrations on an already opened handle; contract tests use it.
func MigrateDB(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	return migrateDB(ctx, db, logger, MigrateUp)
}
