package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; each entry runs at most once, tracked by
// the schema_migrations table.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS hosts (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		display_name  TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		disabled      INTEGER NOT NULL DEFAULT 0,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		host_id    TEXT NOT NULL REFERENCES hosts(id) ON DELETE CASCADE,
		token      TEXT NOT NULL UNIQUE,
		expires_at TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		revoked_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id                     TEXT PRIMARY KEY,
		host_id                TEXT NOT NULL REFERENCES hosts(id) ON DELETE CASCADE,
		title                  TEXT NOT NULL,
		description            TEXT NOT NULL DEFAULT '',
		start_at               TEXT NOT NULL,
		end_at                 TEXT NOT NULL,
		address                TEXT NOT NULL DEFAULT '',
		unit                   TEXT NOT NULL DEFAULT '',
		show_map               INTEGER NOT NULL DEFAULT 0,
		private_guest_list     INTEGER NOT NULL DEFAULT 0,
		allow_plus_ones        INTEGER NOT NULL DEFAULT 0,
		allow_maybe_rsvp       INTEGER NOT NULL DEFAULT 0,
		allow_family_headcount INTEGER NOT NULL DEFAULT 0,
		limit_event_capacity   INTEGER NOT NULL DEFAULT 0,
		max_plus_ones          INTEGER NOT NULL DEFAULT 0,
		max_event_capacity     INTEGER NOT NULL DEFAULT 1,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS guests (
		id           TEXT PRIMARY KEY,
		event_id     TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL DEFAULT '',
		phone        TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'PENDING',
		response     TEXT NOT NULL DEFAULT '',
		plus_ones    INTEGER NOT NULL DEFAULT 0,
		adults       INTEGER NOT NULL DEFAULT 1,
		children     INTEGER NOT NULL DEFAULT 0,
		invited_at   TEXT,
		responded_at TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_guests_event_id ON guests(event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_host_id ON events(host_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token)`,
}

// Migrate applies any pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for version, stmt := range migrations {
		applied, err := d.migrationApplied(ctx, version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := d.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %d: %w", version, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at) VALUES (?, datetime('now'))`,
				version,
			); err != nil {
				return fmt.Errorf("record migration %d: %w", version, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

func (d *DB) migrationApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	return count > 0, nil
}
