//go:build !wasm

package store

import "fmt"

// New creates a store for native builds.
// For ":memory:" paths, returns MemoryStore.
// For file paths, returns SQLite.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}
