// Package lessc parses LESS stylesheets into a syntax tree.
//
// The parser reads one file, then follows its @import statements
// concurrently, parsing every distinct file once. The tree is returned only
// when the whole import graph has settled.
//
// # Basic Usage
//
//	p, err := lessc.NewParser()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root, err := p.ParseString(".a { color: red; }")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(root.Rules))
//
// # With Imports
//
// ParseFile resolves imports relative to the file and then each search
// path:
//
//	p, err := lessc.NewParser(lessc.WithPaths("vendor", "node_modules/**/less"))
//	result, err := p.ParseFile(ctx, "styles/main.less")
//	for _, rec := range result.Imports {
//	    fmt.Printf("%s -> %s\n", rec.Path, rec.FullPath)
//	}
package lessc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/config"
	"github.com/praetorian-inc/lessc/pkg/imports"
	"github.com/praetorian-inc/lessc/pkg/parser"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Ruleset is the root of a parsed stylesheet.
	Ruleset = ast.Ruleset

	// Node is any syntax tree node.
	Node = ast.Node

	// FileInfo describes the file nodes were read from.
	FileInfo = ast.FileInfo

	// ParseError is returned for syntax and structural errors.
	ParseError = types.ParseError

	// ImportError is returned when an @import cannot be resolved or read.
	ImportError = types.ImportError

	// ImportRecord describes one resolved @import.
	ImportRecord = imports.Record

	// Resolver locates and loads imported files.
	Resolver = imports.Resolver

	// DebugLogger receives progress messages.
	DebugLogger = types.DebugLogger
)

// Re-export error kinds.
const (
	KindSyntax = types.KindSyntax
	KindParse  = types.KindParse
)

// ErrImportNotFound is wrapped by errors for imports that do not exist.
var ErrImportNotFound = types.ErrImportNotFound

// parserConfig holds parser configuration.
type parserConfig struct {
	paths           []string
	compress        bool
	strictImports   bool
	dumpLineNumbers bool
	processImports  bool
	filename        string
	resolver        imports.Resolver
	logger          types.DebugLogger
}

// Option configures a Parser.
type Option func(*parserConfig)

// WithPaths adds import search paths. Entries may be doublestar globs, which
// are expanded to the directories they match.
func WithPaths(paths ...string) Option {
	return func(c *parserConfig) {
		c.paths = append(c.paths, paths...)
	}
}

// WithCompress reads declaration values through the raw-text fast path
// first.
func WithCompress() Option {
	return func(c *parserConfig) {
		c.compress = true
	}
}

// WithStrictImports marks every ruleset as strict for the evaluator.
func WithStrictImports() Option {
	return func(c *parserConfig) {
		c.strictImports = true
	}
}

// WithDumpLineNumbers attaches line and file to every node.
func WithDumpLineNumbers() Option {
	return func(c *parserConfig) {
		c.dumpLineNumbers = true
	}
}

// WithFilename names the input of ParseString in diagnostics and is the
// base for its relative imports.
func WithFilename(filename string) Option {
	return func(c *parserConfig) {
		c.filename = filename
	}
}

// WithResolver replaces the disk resolver. Search paths are ignored.
func WithResolver(r Resolver) Option {
	return func(c *parserConfig) {
		c.resolver = r
	}
}

// WithoutImports leaves every @import unresolved.
func WithoutImports() Option {
	return func(c *parserConfig) {
		c.processImports = false
	}
}

// WithLogger sends progress messages to logger.
func WithLogger(logger DebugLogger) Option {
	return func(c *parserConfig) {
		c.logger = logger
	}
}

// WithConfig applies settings from a config file. Options given after it
// override them.
func WithConfig(cfg *config.Config) Option {
	return func(c *parserConfig) {
		if cfg == nil {
			return
		}
		c.paths = append(c.paths, cfg.SearchPaths()...)
		c.compress = c.compress || cfg.Compress
		c.strictImports = c.strictImports || cfg.StrictImports
		c.dumpLineNumbers = c.dumpLineNumbers || cfg.DumpLineNumbers
		if !cfg.ImportsEnabled() {
			c.processImports = false
		}
	}
}

// Parser parses stylesheets. A Parser holds no per-parse state and may be
// used from several goroutines.
type Parser struct {
	config   *parserConfig
	resolver imports.Resolver
}

// Result is a parsed stylesheet and its resolved imports.
type Result struct {
	Root    *Ruleset
	Imports []ImportRecord
	// Files holds the tree of every imported file, keyed by full path.
	Files map[string]*Ruleset
}

// NewParser creates a Parser with the given options.
//
// By default, the parser:
//   - Follows @import statements from disk
//   - Searches only the importing file's directory
//   - Does not record line numbers
func NewParser(opts ...Option) (*Parser, error) {
	cfg := &parserConfig{
		processImports: true,
		logger:         types.NoopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = types.NoopLogger{}
	}

	resolver := cfg.resolver
	if resolver == nil {
		paths, err := imports.ExpandPaths(cfg.paths)
		if err != nil {
			return nil, fmt.Errorf("expanding search paths: %w", err)
		}
		cfg.paths = paths
		resolver = imports.NewFileResolver(nil, paths)
	}

	return &Parser{config: cfg, resolver: resolver}, nil
}

// Paths returns the expanded search paths.
func (p *Parser) Paths() []string {
	out := make([]string, len(p.config.paths))
	copy(out, p.config.paths)
	return out
}

// ParseString parses input named by WithFilename, following its imports.
//
// Example:
//
//	root, err := p.ParseString("@w: 10px; .a { width: @w; }")
func (p *Parser) ParseString(input string) (*Ruleset, error) {
	result, err := p.Parse(context.Background(), p.config.filename, input)
	if err != nil {
		return nil, err
	}
	return result.Root, nil
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return p.Parse(ctx, path, string(content))
}

// Parse parses input as the file filename and resolves its import graph.
// On error no tree is returned: the error is a *ParseError for the first
// file that failed to parse or an *ImportError for an import that could
// not be loaded. ctx is checked before each file is loaded.
func (p *Parser) Parse(ctx context.Context, filename, input string) (*Result, error) {
	file := p.fileInfo(filename)
	parse := p.parseFunc()

	root, err := parse(input, file)
	if err != nil {
		return nil, err
	}

	result := &Result{Root: root, Files: map[string]*Ruleset{}}
	if !p.config.processImports {
		return result, nil
	}

	c := imports.New(p.resolver, parse, p.config.logger)
	if err := c.Run(ctx, root, file, input); err != nil {
		return nil, err
	}
	result.Imports = c.Records()
	result.Files = c.Files()
	delete(result.Files, file.Filename)
	return result, nil
}

// ParseAsync parses in the background and calls done exactly once, after
// every import has settled.
func (p *Parser) ParseAsync(ctx context.Context, filename, input string, done func(error, *Ruleset)) {
	go func() {
		result, err := p.Parse(ctx, filename, input)
		if err != nil {
			done(err, nil)
			return
		}
		done(nil, result.Root)
	}()
}

// parseFunc returns the per-file parse used for the entry file and every
// import. Each call gets its own grammar state.
func (p *Parser) parseFunc() imports.ParseFunc {
	opts := parser.Options{
		Compress:        p.config.compress,
		StrictImports:   p.config.strictImports,
		DumpLineNumbers: p.config.dumpLineNumbers,
	}
	return func(input string, file *ast.FileInfo) (*ast.Ruleset, error) {
		return parser.New(opts, file).Parse(input)
	}
}

// fileInfo describes the entry file. The name is cleaned the way the
// resolver builds full paths so that an import cycle back to it is
// recognized.
func (p *Parser) fileInfo(filename string) *ast.FileInfo {
	if filename == "" {
		return &ast.FileInfo{}
	}

	dirOf := filepath.Dir
	if r, ok := p.resolver.(*imports.FileResolver); ok {
		filename = r.FS.Join(filename)
		dirOf = r.FS.Dir
	} else {
		filename = filepath.Clean(filename)
	}

	dir := dirOf(filename)
	return &ast.FileInfo{
		Filename:         filename,
		CurrentDirectory: dir,
		EntryPath:        dir,
		RootFilename:     filename,
	}
}
