//go:build !wasm

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/lessc/pkg/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
// Use ":memory:" for in-memory database (useful for testing).
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddSource records a source and one place it was found.
func (s *SQLiteStore) AddSource(id types.SourceID, prov types.Provenance, size int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR IGNORE INTO sources (id, size) VALUES (?, ?)", id, size); err != nil {
		return fmt.Errorf("inserting source: %w", err)
	}

	if prov != nil {
		var repoPath, commitID string
		switch p := prov.(type) {
		case types.FileProvenance:
		case types.GitProvenance:
			repoPath, commitID = p.RepoPath, p.CommitID
		default:
			return fmt.Errorf("unknown provenance type: %T", prov)
		}

		_, err := tx.Exec(`
			INSERT OR IGNORE INTO provenance (source_id, type, path, repo_path, commit_id)
			VALUES (?, ?, ?, ?, ?)
		`, id, prov.Kind(), prov.Path(), repoPath, commitID)
		if err != nil {
			return fmt.Errorf("inserting provenance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing source: %w", err)
	}
	return nil
}

// SourceExists reports whether a source was already checked.
func (s *SQLiteStore) SourceExists(id types.SourceID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sources WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking source existence: %w", err)
	}
	return count > 0, nil
}

// AddDiagnostic stores a diagnostic (deduplicated).
func (s *SQLiteStore) AddDiagnostic(d *types.Diagnostic) error {
	extractJSON, err := json.Marshal(d.Extract)
	if err != nil {
		return fmt.Errorf("marshaling extract: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR IGNORE INTO diagnostics
		(source_id, path, filename, kind, message, start_offset, line, col, extract_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.SourceID,
		d.Path,
		d.Filename,
		string(d.Kind),
		d.Message,
		d.Index,
		d.Line,
		d.Column,
		string(extractJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting diagnostic: %w", err)
	}
	return nil
}

// AddImport stores an import edge (deduplicated).
func (s *SQLiteStore) AddImport(from, to string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO imports (from_path, to_path) VALUES (?, ?)", from, to)
	if err != nil {
		return fmt.Errorf("inserting import: %w", err)
	}
	return nil
}

// GetSources retrieves all sources with their provenance.
func (s *SQLiteStore) GetSources() ([]*Source, error) {
	rows, err := s.db.Query(`
		SELECT s.id, s.size, p.type, p.path, p.repo_path, p.commit_id
		FROM sources s
		LEFT JOIN provenance p ON p.source_id = s.id
		ORDER BY s.id, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []*Source
	var current *Source
	for rows.Next() {
		var id types.SourceID
		var size int64
		var kind, path, repoPath, commitID sql.NullString

		if err := rows.Scan(&id, &size, &kind, &path, &repoPath, &commitID); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}

		if current == nil || current.ID != id {
			current = &Source{ID: id, Size: size, Provenance: []types.Provenance{}}
			sources = append(sources, current)
		}
		if kind.Valid {
			current.Provenance = append(current.Provenance,
				types.NewProvenance(kind.String, path.String, repoPath.String, commitID.String))
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", err)
	}
	return sources, nil
}

// GetDiagnostics retrieves all diagnostics in insertion order.
func (s *SQLiteStore) GetDiagnostics() ([]*types.Diagnostic, error) {
	rows, err := s.db.Query(`
		SELECT source_id, path, filename, kind, message, start_offset, line, col, extract_json
		FROM diagnostics
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying diagnostics: %w", err)
	}
	defer rows.Close()

	var diagnostics []*types.Diagnostic
	for rows.Next() {
		var d types.Diagnostic
		var kind string
		var extractJSON sql.NullString

		err := rows.Scan(
			&d.SourceID,
			&d.Path,
			&d.Filename,
			&kind,
			&d.Message,
			&d.Index,
			&d.Line,
			&d.Column,
			&extractJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning diagnostic: %w", err)
		}
		d.Kind = types.ErrorKind(kind)

		if extractJSON.Valid && extractJSON.String != "" {
			if err := json.Unmarshal([]byte(extractJSON.String), &d.Extract); err != nil {
				return nil, fmt.Errorf("unmarshaling extract: %w", err)
			}
		}

		diagnostics = append(diagnostics, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating diagnostics: %w", err)
	}
	return diagnostics, nil
}

// GetImports retrieves all import edges sorted by importing file.
func (s *SQLiteStore) GetImports() ([]Import, error) {
	rows, err := s.db.Query("SELECT from_path, to_path FROM imports ORDER BY from_path, to_path")
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.From, &imp.To); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		imports = append(imports, imp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating imports: %w", err)
	}
	return imports, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
