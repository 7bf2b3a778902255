package parser

import (
	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
)

var (
	reVariableDecl   = matcher.MustCompile(`^(@[\w-]+)\s*:`)
	reProperty       = matcher.MustCompile(`^(\*?-?[_a-zA-Z0-9-]+)\s*:`)
	reAnonymousValue = matcher.MustCompile(`^([^@+\/'"*` + "`" + `(;{}-]*);`)
	reImportant      = matcher.MustCompile(`^! *important`)
)

func (p *Parser) declaration() ast.Node {
	return p.rule(false)
}

// rule reads "name: value;". Compressed output and variable declarations
// try the raw-text fast path before a full value; other declarations try
// it after. When a value was read but the declaration did not end, the
// declaration is read once more with a full value only.
func (p *Parser) rule(retry bool) ast.Node {
	if c := p.c.Current(); c == '.' || c == '#' || c == '&' {
		return nil
	}

	cp := p.c.Checkpoint()
	index := p.c.Offset()

	name := p.variableName()
	if name == "" {
		name = p.property()
	}
	if name == "" {
		return nil
	}

	var value ast.Node
	switch {
	case retry:
		value = p.value()
	case p.opts.Compress || name[0] == '@':
		value = p.first(p.anonymousValue, p.value)
	default:
		value = p.first(p.value, p.anonymousValue)
	}
	important := p.important()

	if value != nil && p.end() {
		return &ast.Rule{Pos: p.pos(index), Name: name, Value: value, Important: important}
	}

	p.c.Rollback(cp)
	if value != nil && !retry {
		return p.rule(true)
	}
	return nil
}

// variableName reads "@name:" and returns "@name".
func (p *Parser) variableName() string {
	if !p.c.Peek('@') {
		return ""
	}
	if m := p.c.Match(reVariableDecl); m != nil {
		return m[1]
	}
	return ""
}

// property reads "name:" and returns the name, including IE hacks such as
// a leading "*".
func (p *Parser) property() string {
	if m := p.c.Match(reProperty); m != nil {
		return m[1]
	}
	return ""
}

// anonymousValue takes everything up to the next ";" as raw text when the
// text holds nothing that needs parsing. The ";" itself is left for end.
func (p *Parser) anonymousValue() ast.Node {
	index := p.c.Offset()
	m := p.c.Lookahead(reAnonymousValue)
	if m == nil {
		return nil
	}
	p.c.Advance(len(m[0]) - 1)
	return p.anonymous(index, m[1])
}

// value reads a comma separated list of expressions.
func (p *Parser) value() ast.Node {
	index := p.c.Offset()
	var expressions []ast.Node
	for {
		e := p.expression()
		if e == nil {
			break
		}
		expressions = append(expressions, e)
		if !p.c.Char(',') {
			break
		}
	}
	if len(expressions) == 0 {
		return nil
	}
	return &ast.Value{Pos: p.pos(index), Values: expressions}
}

func (p *Parser) important() bool {
	return p.c.Peek('!') && p.c.Match(reImportant) != nil
}

// end accepts ";" or a closing brace left in place.
func (p *Parser) end() bool {
	return p.c.Char(';') || p.c.Peek('}')
}
