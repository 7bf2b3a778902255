// Package parser turns LESS source into an ast.Ruleset.
//
// The grammar is a recursive descent over a chunked cursor. Productions
// return nil when they do not apply and leave the cursor where it was;
// missing pieces that have no alternative abort the whole parse.
package parser

import (
	"errors"
	"path/filepath"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// Options change how some constructs are read.
type Options struct {
	// Compress reads declaration values through the raw-text fast path
	// first.
	Compress bool
	// StrictImports is recorded on every ruleset for the evaluator.
	StrictImports bool
	// DumpLineNumbers attaches line and file to every node.
	DumpLineNumbers bool
}

// Parser reads one source unit. A Parser may be reused for several
// inputs, one at a time; it must not be used from several goroutines.
type Parser struct {
	opts Options
	file *ast.FileInfo

	input     string
	c         *matcher.Cursor
	lines     *types.LineIndex
	debugFile string
}

// New returns a parser for the file described by file. A nil file is
// treated as an anonymous input.
func New(opts Options, file *ast.FileInfo) *Parser {
	if file == nil {
		file = &ast.FileInfo{}
	}
	return &Parser{opts: opts, file: file}
}

// File returns the file info attached to parsed nodes.
func (p *Parser) File() *ast.FileInfo {
	return p.file
}

// Parse parses input and returns the root ruleset. On failure the error is
// a *types.ParseError and no tree is returned.
func (p *Parser) Parse(input string) (root *ast.Ruleset, err error) {
	p.input = matcher.Normalize(input)

	chunks, err := matcher.ChunkContent(p.input)
	if err != nil {
		var unbalanced *matcher.UnbalancedError
		if errors.As(err, &unbalanced) {
			return nil, types.NewParseError(types.KindParse, unbalanced.Message, p.file.Filename, p.input, unbalanced.Index)
		}
		return nil, err
	}

	p.c = matcher.NewCursor(p.input, chunks)
	p.lines = nil
	if p.opts.DumpLineNumbers {
		p.lines = types.NewLineIndex(p.input)
		p.debugFile = p.file.Filename
		if abs, absErr := filepath.Abs(p.file.Filename); absErr == nil && p.file.Filename != "" {
			p.debugFile = abs
		}
	}

	defer p.recover(&err)

	rules := p.primary()
	if !p.c.AtEnd() {
		return nil, types.NewParseError(types.KindParse, "Unrecognised input", p.file.Filename, p.input, p.c.Furthest())
	}

	return &ast.Ruleset{
		Pos:           p.pos(0),
		Selectors:     []*ast.Selector{},
		Rules:         rules,
		Root:          true,
		FirstRoot:     true,
		StrictImports: p.opts.StrictImports,
	}, nil
}

// Input returns the normalized text of the last parse.
func (p *Parser) Input() string {
	return p.input
}

// recover turns a grammar failure into the returned error.
func (p *Parser) recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	failure, ok := r.(*matcher.Failure)
	if !ok {
		panic(r)
	}
	*errp = types.NewParseError(failure.Kind, failure.Message, p.file.Filename, p.input, failure.Index)
}

// pos builds the position for a node starting at index.
func (p *Parser) pos(index int) ast.Pos {
	pos := ast.Pos{Index: index, File: p.file}
	if p.lines != nil {
		pos.Debug = &ast.DebugInfo{LineNumber: p.lines.Line(index), FileName: p.debugFile}
	}
	return pos
}

// first returns the result of the first production that matches.
func (p *Parser) first(productions ...func() ast.Node) ast.Node {
	for _, production := range productions {
		if n := production(); n != nil {
			return n
		}
	}
	return nil
}

func (p *Parser) anonymous(index int, text string) *ast.Anonymous {
	return &ast.Anonymous{Pos: p.pos(index), Value: text}
}

var (
	reWhitespaceRun = matcher.MustCompile(`^[\s\n]+`)
	reSemicolons    = matcher.MustCompile(`^;+`)
)

// primary reads the contents of the root or of a block.
func (p *Parser) primary() []ast.Node {
	nodes := []ast.Node{}
	for {
		if extends := p.extend(true); extends != nil {
			for _, e := range extends {
				nodes = append(nodes, e)
			}
			continue
		}
		if n := p.first(p.mixinDefinition, p.declaration, p.ruleset, p.mixinCall, p.comment, p.directive); n != nil {
			nodes = append(nodes, n)
			continue
		}
		if p.c.Match(reWhitespaceRun) != nil || p.c.Match(reSemicolons) != nil {
			continue
		}
		return nodes
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t'
}

// isSpace matches the JavaScript \s class for ASCII input.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}
