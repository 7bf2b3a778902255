// Package imports resolves the @import graph of a parsed stylesheet.
//
// Each distinct file is loaded and parsed once. Imports are followed
// concurrently; one failing import does not stop the others, and the
// first error observed is reported once the whole graph has settled.
package imports

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// ParseFunc parses the contents of one file. It is called from several
// goroutines and must not share parser state between calls.
type ParseFunc func(input string, file *ast.FileInfo) (*ast.Ruleset, error)

// Record describes one resolved @import statement.
type Record struct {
	Path     string `json:"path"`               // as written
	FullPath string `json:"fullPath,omitempty"` // empty when resolution failed
	From     string `json:"from"`               // importing file
	Index    int    `json:"index"`              // offset of the @import in From
	Imported bool   `json:"imported"`           // FullPath was already loaded
	Err      error  `json:"-"`
}

// entry is the shared state of one full path. done is closed once root and
// err are final.
type entry struct {
	done chan struct{}
	root *ast.Ruleset
	err  error
}

// Coordinator follows the imports of one graph. A Coordinator must not be
// reused for a second graph.
type Coordinator struct {
	resolver Resolver
	parse    ParseFunc
	logger   types.DebugLogger

	g errgroup.Group

	mu      sync.Mutex
	files   map[string]*entry
	records []Record
}

// New returns a coordinator that locates files with resolver and parses
// them with parse. A nil logger discards messages.
func New(resolver Resolver, parse ParseFunc, logger types.DebugLogger) *Coordinator {
	if logger == nil {
		logger = types.NoopLogger{}
	}
	return &Coordinator{
		resolver: resolver,
		parse:    parse,
		logger:   logger,
		files:    make(map[string]*entry),
	}
}

// Run resolves every import reachable from root, which was parsed from
// input. It returns after all of them have settled, with the first error
// seen anywhere in the graph. Import nodes are updated in place.
func (c *Coordinator) Run(ctx context.Context, root *ast.Ruleset, file *ast.FileInfo, input string) error {
	if file == nil {
		file = &ast.FileInfo{}
	}
	if file.Filename != "" {
		// A cycle back to the entry file reuses the tree we already have.
		e := &entry{done: make(chan struct{}), root: root}
		close(e.done)
		c.mu.Lock()
		c.files[file.Filename] = e
		c.mu.Unlock()
	}

	c.dispatch(ctx, root, file, input)
	return c.g.Wait()
}

// Records returns the resolved imports sorted by importing file and
// offset.
func (c *Coordinator) Records() []Record {
	c.mu.Lock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].Index < out[j].Index
	})
	return out
}

// Files returns the parsed tree of every file loaded without error, keyed
// by full path.
func (c *Coordinator) Files() map[string]*ast.Ruleset {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]*ast.Ruleset, len(c.files))
	for fullPath, e := range c.files {
		select {
		case <-e.done:
			if e.err == nil && e.root != nil {
				out[fullPath] = e.root
			}
		default:
		}
	}
	return out
}

// dispatch starts one task per import statement found in root.
func (c *Coordinator) dispatch(ctx context.Context, root *ast.Ruleset, file *ast.FileInfo, input string) {
	for _, imp := range Collect(root) {
		if imp.CSS {
			c.logger.Log("import %q in %s left as CSS", imp.PathValue(), file.Filename)
			continue
		}
		if imp.PathValue() == "" {
			c.logger.Log("import at %s:%d has no literal path", file.Filename, imp.Index)
			continue
		}
		imp := imp
		c.g.Go(func() error {
			return c.follow(ctx, imp, file, input)
		})
	}
}

// follow resolves one import statement. Only the task that creates the
// entry for a full path loads it; the rest wait for that load.
func (c *Coordinator) follow(ctx context.Context, imp *ast.Import, from *ast.FileInfo, input string) error {
	importPath := imp.PathValue()
	rec := Record{Path: importPath, From: from.Filename, Index: imp.Index}

	fullPath, err := c.resolver.Resolve(importPath, from)
	if err != nil {
		err = types.NewImportError(importPath, from.Filename, input, imp.Index, err)
		rec.Err = err
		c.record(rec)
		return err
	}
	rec.FullPath = fullPath

	c.mu.Lock()
	e, seen := c.files[fullPath]
	if !seen {
		e = &entry{done: make(chan struct{})}
		c.files[fullPath] = e
	}
	c.mu.Unlock()

	var loadErr error
	if seen {
		c.logger.Log("import %s already loaded", fullPath)
		<-e.done
	} else {
		c.logger.Log("import %q from %s -> %s", importPath, from.Filename, fullPath)
		loadErr = c.load(ctx, e, imp, fullPath, from, input)
	}

	imp.FullPath = fullPath
	imp.Root = e.root
	imp.Imported = seen
	imp.Skip = seen && !imp.Multiple()

	rec.Imported = seen
	rec.Err = e.err
	c.record(rec)
	return loadErr
}

// load fetches and parses fullPath, publishes the result on e, and then
// follows the file's own imports.
func (c *Coordinator) load(ctx context.Context, e *entry, imp *ast.Import, fullPath string, from *ast.FileInfo, input string) error {
	content, err := c.resolver.Load(ctx, fullPath)
	if err != nil {
		e.err = types.NewImportError(imp.PathValue(), from.Filename, input, imp.Index, err)
		close(e.done)
		return e.err
	}

	file := &ast.FileInfo{
		Filename:         fullPath,
		CurrentDirectory: c.dir(fullPath),
		EntryPath:        from.EntryPath,
		RootFilename:     from.RootFilename,
	}
	root, err := c.parse(content, file)
	e.root, e.err = root, err
	close(e.done)
	if err != nil {
		c.logger.Log("import %s failed: %v", fullPath, err)
		return err
	}

	c.dispatch(ctx, root, file, content)
	return nil
}

// dir returns the directory later imports of fullPath resolve against.
// Resolvers that are not file based get the disk layout.
func (c *Coordinator) dir(fullPath string) string {
	if d, ok := c.resolver.(interface{ Dir(string) string }); ok {
		return d.Dir(fullPath)
	}
	return OSFileSystem{}.Dir(fullPath)
}

func (c *Coordinator) record(rec Record) {
	c.mu.Lock()
	c.records = append(c.records, rec)
	c.mu.Unlock()
}

// Collect returns the import statements of root in source order, including
// ones nested in rulesets, media blocks and mixins. Trees of already
// resolved imports are not entered.
func Collect(root ast.Node) []*ast.Import {
	var out []*ast.Import
	ast.Inspect(root, func(n ast.Node) bool {
		if imp, ok := n.(*ast.Import); ok {
			out = append(out, imp)
			return false
		}
		return true
	})
	return out
}
