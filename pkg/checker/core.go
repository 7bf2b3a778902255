// Package checker parses stylesheets and records the outcome. It is the
// shared core of the check command, the NDJSON server and the WASM build.
package checker

import (
	"context"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/store"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// Core wraps a parser and an optional store. Without a store, results are
// only returned to the caller.
type Core struct {
	parser *lessc.Parser
	store  store.Store
	logger types.DebugLogger

	// keepTrees controls whether results carry the parsed tree.
	keepTrees bool
}

// Option configures a Core.
type Option func(*Core)

// WithStore records sources, diagnostics and import edges in s. The caller
// keeps ownership of s.
func WithStore(s store.Store) Option {
	return func(c *Core) {
		c.store = s
	}
}

// WithLogger sends progress messages to logger.
func WithLogger(logger types.DebugLogger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// WithoutTrees drops the parsed tree from results.
func WithoutTrees() Option {
	return func(c *Core) {
		c.keepTrees = false
	}
}

// NewCore creates a Core that parses with p.
func NewCore(p *lessc.Parser, opts ...Option) (*Core, error) {
	c := &Core{parser: p, logger: types.NoopLogger{}, keepTrees: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = types.NoopLogger{}
	}
	return c, nil
}

// Store returns the store results are recorded in, or nil.
func (c *Core) Store() store.Store {
	return c.store
}

// Check parses one stylesheet with its imports. A parse or import failure
// is reported in the result, not as an error; the error is only set when
// the result could not be recorded.
func (c *Core) Check(ctx context.Context, item ContentItem, prov types.Provenance) (*CheckResult, error) {
	content := []byte(item.Content)
	id := types.ComputeSourceID(content)
	if prov == nil {
		prov = types.FileProvenance{FilePath: item.Filename}
	}

	if c.store != nil {
		if err := c.store.AddSource(id, prov, int64(len(content))); err != nil {
			return nil, err
		}
	}

	result := &CheckResult{Filename: item.Filename, SourceID: id}
	parsed, err := c.parser.Parse(ctx, item.Filename, item.Content)
	if err != nil {
		c.logger.Log("%s: %v", item.Filename, err)
		result.Diagnostic = types.NewDiagnostic(prov.Path(), id, err)
		if c.store != nil {
			if err := c.store.AddDiagnostic(result.Diagnostic); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	result.OK = true
	result.Imports = parsed.Imports
	if c.keepTrees {
		result.Root = parsed.Root
	}
	if c.store == nil {
		return result, nil
	}
	for _, rec := range parsed.Imports {
		if rec.FullPath == "" {
			continue
		}
		if err := c.store.AddImport(rec.From, rec.FullPath); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// CheckBatch checks items in order. Items that fail to parse are counted
// in Failed.
func (c *Core) CheckBatch(ctx context.Context, items []ContentItem) (*BatchResult, error) {
	batch := &BatchResult{Results: make([]CheckResult, 0, len(items))}
	for _, item := range items {
		result, err := c.Check(ctx, item, nil)
		if err != nil {
			return nil, err
		}
		if !result.OK {
			batch.Failed++
		}
		batch.Results = append(batch.Results, *result)
	}
	return batch, nil
}
