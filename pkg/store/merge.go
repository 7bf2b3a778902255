//go:build !wasm

package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	SourcesMerged     int
	ProvenanceMerged  int
	DiagnosticsMerged int
	ImportsMerged     int
	DatabasesRead     int
}

// Merge combines several check databases into one, for example the results
// of checking separate repositories. Duplicates are dropped by the tables'
// unique keys.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	destDB, err := sql.Open("sqlite", cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()

	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.SourcesMerged += sourceStats.SourcesMerged
		stats.ProvenanceMerged += sourceStats.ProvenanceMerged
		stats.DiagnosticsMerged += sourceStats.DiagnosticsMerged
		stats.ImportsMerged += sourceStats.ImportsMerged
		stats.DatabasesRead++
	}

	return stats, nil
}

// mergeFrom copies data from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := sql.Open("sqlite", sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	var version int
	if err := sourceDB.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	if version != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version %d", version)
	}

	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &MergeStats{}
	steps := []struct {
		name   string
		query  string
		insert string
		cols   int
		count  *int
	}{
		{
			name:   "sources",
			query:  "SELECT id, size FROM sources",
			insert: "INSERT OR IGNORE INTO sources (id, size) VALUES (?, ?)",
			cols:   2,
			count:  &stats.SourcesMerged,
		},
		{
			name:   "provenance",
			query:  "SELECT source_id, type, path, repo_path, commit_id FROM provenance ORDER BY id",
			insert: "INSERT OR IGNORE INTO provenance (source_id, type, path, repo_path, commit_id) VALUES (?, ?, ?, ?, ?)",
			cols:   5,
			count:  &stats.ProvenanceMerged,
		},
		{
			name: "diagnostics",
			query: `SELECT source_id, path, filename, kind, message, start_offset, line, col, extract_json
				FROM diagnostics ORDER BY id`,
			insert: `INSERT OR IGNORE INTO diagnostics
				(source_id, path, filename, kind, message, start_offset, line, col, extract_json)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			cols:  9,
			count: &stats.DiagnosticsMerged,
		},
		{
			name:   "imports",
			query:  "SELECT from_path, to_path FROM imports",
			insert: "INSERT OR IGNORE INTO imports (from_path, to_path) VALUES (?, ?)",
			cols:   2,
			count:  &stats.ImportsMerged,
		},
	}

	for _, step := range steps {
		n, err := copyRows(tx, sourceDB, step.query, step.insert, step.cols)
		if err != nil {
			return nil, fmt.Errorf("merging %s: %w", step.name, err)
		}
		*step.count = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return stats, nil
}

// copyRows inserts every row of query into the destination and returns how
// many were new.
func copyRows(tx *sql.Tx, sourceDB *sql.DB, query, insert string, cols int) (int, error) {
	rows, err := sourceDB.Query(query)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	values := make([]interface{}, cols)
	ptrs := make([]interface{}, cols)
	for i := range values {
		ptrs[i] = &values[i]
	}

	count := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		result, err := stmt.Exec(values...)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}
