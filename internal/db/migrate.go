package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillLastUpdate(db); err != nil {
		return fmt.Errorf("backfilling last_update values: %w", err)
	}
	return nil
}

// migrateBackfillLastUpdate stamps documents written before last_update was
// tracked, so version polling and "last writer wins" have a timestamp to show.
func migrateBackfillLastUpdate(db *sql.DB) error {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.ExecContext(ctx,
		`UPDATE board_documents SET last_update = ? WHERE last_update IS NULL OR last_update = ''`, now,
	); err != nil {
		return fmt.Errorf("stamping board_documents: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS board_documents (
		id          TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		last_update TEXT NOT NULL DEFAULT '',
		version     INTEGER NOT NULL DEFAULT 0 CHECK(version >= 0)
	)`,

	`ALTER TABLE board_documents ADD COLUMN writer TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS history_stacks (
		id         TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_board_documents_version ON board_documents(id, version)`,
}
