package migrate

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Migration is a single versioned schema step. Versions must be unique and
// are applied in ascending order exactly once.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// Run applies all pending migrations inside individual transactions.
// Callers run this once at startup, before any ledger operation is served.
func Run(ctx context.Context, db *sqlx.DB, migrations []Migration) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		applied, err := isApplied(ctx, db, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}

		log.Info().Int("version", m.Version).Str("name", m.Name).Msg("Applied migration")
	}

	return nil
}

func isApplied(ctx context.Context, db *sqlx.DB, version int) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schema_migrations WHERE version = $1`, version)
	return count > 0, err
}

func apply(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schema_migrations (version, name) VALUES ($1, $2)
	`, m.Version, m.Name); err != nil {
		return err
	}

	return tx.Commit()
}
