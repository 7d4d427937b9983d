package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_LegacySchema upgrades a store created before the
// recurrence cron and run warning columns existed. Existing rows must
// survive and pick up the new columns with their defaults.
func TestMigrate_UpgradePath_LegacySchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	legacyStatements := []string{
		`CREATE TABLE calendar_events (
			user_id            TEXT NOT NULL,
			id                 TEXT NOT NULL,
			title              TEXT NOT NULL DEFAULT '',
			start_at           TEXT NOT NULL,
			end_at             TEXT NOT NULL,
			background_color   TEXT NOT NULL DEFAULT '',
			item_type          TEXT NOT NULL,
			event_id           TEXT NOT NULL DEFAULT '',
			parent_id          TEXT NOT NULL DEFAULT '',
			completed_start_at TEXT,
			completed_end_at   TEXT,
			recur_freq         TEXT,
			recur_dtstart      TEXT,
			recur_duration_min INTEGER,
			updated_at         TEXT NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,
		`CREATE TABLE generation_runs (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			ran_at      TEXT NOT NULL,
			success     INTEGER NOT NULL,
			candidates  INTEGER NOT NULL DEFAULT 0,
			scheduled   INTEGER NOT NULL DEFAULT 0,
			failed      INTEGER NOT NULL DEFAULT 0,
			frozen      INTEGER NOT NULL DEFAULT 0,
			created     INTEGER NOT NULL DEFAULT 0,
			updated     INTEGER NOT NULL DEFAULT 0,
			deleted     INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT INTO calendar_events (user_id, id, title, start_at, end_at, item_type, recur_freq, recur_dtstart, recur_duration_min, updated_at)
			VALUES ('u1', 'sleep', 'Sleep', '2025-06-16T23:00:00Z', '2025-06-17T07:00:00Z', 'template', 'weekly', '2025-06-16T23:00:00Z', 480, '2025-06-16T00:00:00Z')`,
		`INSERT INTO generation_runs (id, user_id, ran_at, success, scheduled)
			VALUES ('r1', 'u1', '2025-06-16T08:00:00Z', 1, 3)`,
	}
	for _, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "second run tolerates existing columns")

	var title string
	var cron sql.NullString
	require.NoError(t, db.QueryRow(`SELECT title, recur_cron FROM calendar_events WHERE id = 'sleep'`).Scan(&title, &cron))
	assert.Equal(t, "Sleep", title)
	assert.False(t, cron.Valid, "legacy rows have no cron until the next sync")

	var scheduled, warnings int
	require.NoError(t, db.QueryRow(`SELECT scheduled, warnings FROM generation_runs WHERE id = 'r1'`).Scan(&scheduled, &warnings))
	assert.Equal(t, 3, scheduled)
	assert.Equal(t, 0, warnings)

	var idx string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_calendar_events_user_start'`).Scan(&idx))
}

func TestMigrate_ClearsStrayCron(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO calendar_events (user_id, id, start_at, end_at, item_type, recur_cron, updated_at)
		VALUES ('u1', 'e1', '2025-06-16T09:00:00Z', '2025-06-16T10:00:00Z', 'task', '0 9 * * 1', '2025-06-16T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var cron sql.NullString
	require.NoError(t, db.QueryRow(`SELECT recur_cron FROM calendar_events WHERE id = 'e1'`).Scan(&cron))
	assert.False(t, cron.Valid)
}
