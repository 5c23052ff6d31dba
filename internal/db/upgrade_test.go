package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database written before the revision column existed keeps its rows and
// has them tagged as legacy.
func TestMigrate_UpgradeFromUnversionedKV(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE kv (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES
		('projects', '[]', '2024-01-01T00:00:00Z'),
		('pics', '["Ana"]', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT key, value, revision FROM kv ORDER BY key`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct{ key, value, revision string }
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.key, &r.value, &r.revision))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []row{
		{"pics", `["Ana"]`, "legacy"},
		{"projects", "[]", "legacy"},
	}, got)

	require.NoError(t, Migrate(db), "re-running after upgrade is a no-op")
}
