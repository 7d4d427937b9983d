package db

import (
	"database/sql"
	"fmt"
	"strings"
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
	if err := migrateBackfillRecurrenceCron(db); err != nil {
		return fmt.Errorf("backfilling recurrence cron: %w", err)
	}
	return nil
}

// migrateBackfillRecurrenceCron clears the cron column on rows that carry
// no recurrence, so a NULL frequency always means a one-off event.
func migrateBackfillRecurrenceCron(db *sql.DB) error {
	_, err := db.Exec(`UPDATE calendar_events SET recur_cron = NULL
		WHERE recur_freq IS NULL AND recur_cron IS NOT NULL`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS calendar_events (
		user_id            TEXT NOT NULL,
		id                 TEXT NOT NULL,
		title              TEXT NOT NULL DEFAULT '',
		start_at           TEXT NOT NULL,
		end_at             TEXT NOT NULL,
		background_color   TEXT NOT NULL DEFAULT '',
		item_type          TEXT NOT NULL
		                   CHECK(item_type IN ('task','goal','plan','template','completed')),
		event_id           TEXT NOT NULL DEFAULT '',
		parent_id          TEXT NOT NULL DEFAULT '',
		completed_start_at TEXT,
		completed_end_at   TEXT,
		recur_freq         TEXT,
		recur_dtstart      TEXT,
		recur_duration_min INTEGER,
		updated_at         TEXT NOT NULL,
		PRIMARY KEY (user_id, id),
		CHECK(end_at > start_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_user_start ON calendar_events(user_id, start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_calendar_events_event ON calendar_events(user_id, event_id)`,
	`CREATE TABLE IF NOT EXISTS generation_runs (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		ran_at       TEXT NOT NULL,
		success      INTEGER NOT NULL,
		candidates   INTEGER NOT NULL DEFAULT 0,
		scheduled    INTEGER NOT NULL DEFAULT 0,
		failed       INTEGER NOT NULL DEFAULT 0,
		frozen       INTEGER NOT NULL DEFAULT 0,
		created      INTEGER NOT NULL DEFAULT 0,
		updated      INTEGER NOT NULL DEFAULT 0,
		deleted      INTEGER NOT NULL DEFAULT 0,
		duration_ms  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generation_runs_user ON generation_runs(user_id, ran_at)`,
	// Add recur_cron to calendar_events (resolved cron expression of recurring templates)
	`ALTER TABLE calendar_events ADD COLUMN recur_cron TEXT`,
	// Add warnings count to generation_runs
	`ALTER TABLE generation_runs ADD COLUMN warnings INTEGER NOT NULL DEFAULT 0`,
}
