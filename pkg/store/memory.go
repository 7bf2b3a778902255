package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/praetorian-inc/lessc/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
// Used for ":memory:" paths and for WASM builds.
type MemoryStore struct {
	mu          sync.RWMutex
	sources     map[types.SourceID]*Source
	diagnostics []*types.Diagnostic
	diagKeys    map[string]bool
	imports     map[Import]bool
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		sources:  make(map[types.SourceID]*Source),
		diagKeys: make(map[string]bool),
		imports:  make(map[Import]bool),
	}
}

// AddSource records a source and one place it was found.
func (m *MemoryStore) AddSource(id types.SourceID, prov types.Provenance, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, exists := m.sources[id]
	if !exists {
		src = &Source{ID: id, Size: size, Provenance: []types.Provenance{}}
		m.sources[id] = src
	}
	if prov == nil {
		return nil
	}

	for _, p := range src.Provenance {
		if p == prov {
			return nil
		}
	}
	src.Provenance = append(src.Provenance, prov)
	return nil
}

// SourceExists reports whether a source was already checked.
func (m *MemoryStore) SourceExists(id types.SourceID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.sources[id]
	return exists, nil
}

// AddDiagnostic stores a diagnostic (deduplicated).
func (m *MemoryStore) AddDiagnostic(d *types.Diagnostic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := fmt.Sprintf("%s\x00%s\x00%s\x00%d\x00%s", d.SourceID, d.Path, d.Filename, d.Index, d.Message)
	if m.diagKeys[key] {
		return nil
	}
	m.diagKeys[key] = true
	m.diagnostics = append(m.diagnostics, d)
	return nil
}

// AddImport stores an import edge (deduplicated).
func (m *MemoryStore) AddImport(from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.imports[Import{From: from, To: to}] = true
	return nil
}

// GetSources retrieves all sources ordered by ID, matching SQLiteStore.
func (m *MemoryStore) GetSources() ([]*Source, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Source, 0, len(m.sources))
	for _, src := range m.sources {
		provs := make([]types.Provenance, len(src.Provenance))
		copy(provs, src.Provenance)
		result = append(result, &Source{ID: src.ID, Size: src.Size, Provenance: provs})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.Hex() < result[j].ID.Hex()
	})
	return result, nil
}

// GetDiagnostics retrieves all diagnostics in insertion order.
func (m *MemoryStore) GetDiagnostics() ([]*types.Diagnostic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Diagnostic, len(m.diagnostics))
	copy(result, m.diagnostics)
	return result, nil
}

// GetImports retrieves all import edges sorted by importing file.
func (m *MemoryStore) GetImports() ([]Import, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Import, 0, len(m.imports))
	for imp := range m.imports {
		result = append(result, imp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].From != result[j].From {
			return result[i].From < result[j].From
		}
		return result[i].To < result[j].To
	})
	return result, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
