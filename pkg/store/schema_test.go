//go:build !wasm

package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestCreateSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, CreateSchema(db))
	// Idempotent.
	require.NoError(t, CreateSchema(db))

	for _, table := range []string{"schema_version", "sources", "provenance", "diagnostics", "imports"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var version int
	require.NoError(t, db.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, SchemaVersion, version)

	var rows int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestCreateSchema_RejectsOtherVersion(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	_, err = db.Exec("CREATE TABLE schema_version (version INTEGER NOT NULL)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO schema_version (version) VALUES (70)")
	require.NoError(t, err)

	err = CreateSchema(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version 70")
}
