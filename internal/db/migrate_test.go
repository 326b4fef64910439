package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"board_documents", "history_stacks"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, "idx_board_documents_version").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "idx_board_documents_version", name)
}

func TestMigrate_VersionCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO board_documents (id, payload, last_update, version) VALUES ('board', '{}', 'x', -1)`)
	assert.Error(t, err)
}

func TestMigrate_WriterColumnDefaultsEmpty(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO board_documents (id, payload, last_update, version) VALUES ('board', '{}', 'x', 1)`)
	require.NoError(t, err)

	var writer string
	require.NoError(t, db.QueryRow(`SELECT writer FROM board_documents WHERE id = 'board'`).Scan(&writer))
	assert.Empty(t, writer)
}

func TestMigrate_HistoryPayloadRequired(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO history_stacks (id, payload, updated_at) VALUES ('board', NULL, 'x')`)
	assert.Error(t, err)
}
