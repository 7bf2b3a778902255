//go:build !wasm

package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createSourcesTable(db); err != nil {
		return fmt.Errorf("creating sources table: %w", err)
	}

	if err := createProvenanceTable(db); err != nil {
		return fmt.Errorf("creating provenance table: %w", err)
	}

	if err := createDiagnosticsTable(db); err != nil {
		return fmt.Errorf("creating diagnostics table: %w", err)
	}

	if err := createImportsTable(db); err != nil {
		return fmt.Errorf("creating imports table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return err
	}
	if version != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", version, SchemaVersion)
	}
	return nil
}

func createSourcesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY NOT NULL,
			size INTEGER NOT NULL
		)
	`)
	return err
}

func createProvenanceTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS provenance (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL REFERENCES sources(id),
			type TEXT NOT NULL,
			path TEXT NOT NULL,
			repo_path TEXT NOT NULL DEFAULT '',
			commit_id TEXT NOT NULL DEFAULT '',
			UNIQUE(source_id, type, path, repo_path, commit_id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_provenance_source_id ON provenance(source_id)
	`)
	return err
}

func createDiagnosticsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS diagnostics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_id TEXT NOT NULL,
			path TEXT NOT NULL,
			filename TEXT NOT NULL,
			kind TEXT NOT NULL,
			message TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			line INTEGER NOT NULL,
			col INTEGER NOT NULL,
			extract_json TEXT,
			UNIQUE(source_id, path, filename, start_offset, message)
		)
	`)
	return err
}

func createImportsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS imports (
			from_path TEXT NOT NULL,
			to_path TEXT NOT NULL,
			PRIMARY KEY (from_path, to_path)
		)
	`)
	return err
}
