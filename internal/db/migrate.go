package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list is re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Columns added by ALTER TABLE already exist on re-runs.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := backfillRevisions(db); err != nil {
		return fmt.Errorf("backfilling kv revisions: %w", err)
	}
	return nil
}

var migrations = []string{
	// One row per snapshot part (projects, roster, meta, undo ledger).
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`ALTER TABLE kv ADD COLUMN revision TEXT NOT NULL DEFAULT ''`,

	// Append-only log of snapshot saves.
	`CREATE TABLE IF NOT EXISTS snapshot_revisions (
		id       TEXT PRIMARY KEY,
		saved_at TEXT NOT NULL,
		projects INTEGER NOT NULL DEFAULT 0,
		tasks    INTEGER NOT NULL DEFAULT 0,
		bytes    INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_snapshot_revisions_saved ON snapshot_revisions(saved_at)`,
}

// backfillRevisions tags kv rows written before revisions existed so every
// row points at some revision.
func backfillRevisions(db *sql.DB) error {
	var pending int
	if err := db.QueryRow(`SELECT COUNT(*) FROM kv WHERE revision = ''`).Scan(&pending); err != nil {
		return err
	}
	if pending == 0 {
		return nil
	}
	_, err := db.Exec(`UPDATE kv SET revision = 'legacy' WHERE revision = ''`)
	return err
}
