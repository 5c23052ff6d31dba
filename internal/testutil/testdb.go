package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/taskline/internal/db"
)

// NewTestDB opens a migrated in-memory board database that is closed when
// the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW wraps a test database in a UnitOfWork.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
