package store

import (
	"github.com/praetorian-inc/lessc/pkg/types"
)

// Store records the results of checking stylesheets: which sources were
// seen, the diagnostics they produced and the import edges between files.
// It is not a parse cache.
type Store interface {
	// AddSource records a source and one place it was found. Adding the
	// same content again only adds the provenance.
	AddSource(id types.SourceID, prov types.Provenance, size int64) error

	// SourceExists reports whether a source was already checked.
	SourceExists(id types.SourceID) (bool, error)

	// AddDiagnostic stores a diagnostic (deduplicated).
	AddDiagnostic(d *types.Diagnostic) error

	// AddImport stores an import edge between two files (deduplicated).
	AddImport(from, to string) error

	// GetSources retrieves all sources with their provenance.
	GetSources() ([]*Source, error)

	// GetDiagnostics retrieves all diagnostics in insertion order.
	GetDiagnostics() ([]*types.Diagnostic, error)

	// GetImports retrieves all import edges sorted by importing file.
	GetImports() ([]Import, error)

	// Close closes the database connection.
	Close() error
}

// Source is a checked stylesheet.
type Source struct {
	ID         types.SourceID     `json:"id"`
	Size       int64              `json:"size"`
	Provenance []types.Provenance `json:"-"`
}

// Paths returns the display path of every provenance.
func (s *Source) Paths() []string {
	out := make([]string, len(s.Provenance))
	for i, p := range s.Provenance {
		out[i] = p.Path()
	}
	return out
}

// Import is an edge of the import graph.
type Import struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store (useful for testing).
	Path string
}
