package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/timeweave/internal/db"
)

// NewTestDB opens a migrated in-memory store that is closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows of table owned by userID.
func CountRows(t *testing.T, database *sql.DB, table, userID string) int {
	t.Helper()
	var n int
	// table is always a test-supplied constant.
	err := database.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		t.Fatalf("counting %s rows: %v", table, err)
	}
	return n
}
