package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/repository"
)

// NewTestDB opens a migrated in-memory database that is closed with the test.
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

// NewTestDocumentStore returns a board document store over database with a
// fixed clock.
func NewTestDocumentStore(database *sql.DB, opts ...repository.DocumentOption) *repository.SQLiteDocumentStore {
	opts = append([]repository.DocumentOption{repository.WithDocumentClock(FixedClock)}, opts...)
	return repository.NewSQLiteDocumentStore(database, NewTestUoW(database), opts...)
}
