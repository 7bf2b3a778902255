package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
)

var (
	reLineComment   = matcher.MustCompile(`^\/\/.*`)
	reBlockComment  = matcher.MustCompile(`^\/\*(?:[^*]|\*+[^\/*])*\*+\/\n?`)
	reQuoted        = matcher.MustCompile(`^(?:"((?:[^"\\\r\n]|\\.)*)"|'((?:[^'\\\r\n]|\\.)*)')`)
	reKeyword       = matcher.MustCompile(`^[_A-Za-z-][_A-Za-z0-9-]*`)
	reHexOnly       = matcher.MustCompile(`^[0-9a-fA-F]+$`)
	reCall          = matcher.MustCompile(`^([\w-]+|%|progid:[\w\.]+)\(`)
	reAssignmentKey = matcher.MustCompile(`^\w+(?=\s?=)`)
	reURL           = matcher.MustCompile(`^url\(`)
	reURLBody       = matcher.MustCompile(`^(?:(?:\\[\(\)'"])|[^\(\)'"])+`)
	reVariable      = matcher.MustCompile(`^@@?[\w-]+`)
	reVariableCurly = matcher.MustCompile(`^@\{([\w-]+)\}`)
	reColor         = matcher.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})`)
	reDimension     = matcher.MustCompile(`^([+-]?\d*\.?\d+)(%|[a-z]+)?`)
	reUnicode       = matcher.MustCompile(`^U\+[0-9a-fA-F?]+(\-[0-9a-fA-F?]+)?`)
	reScript        = matcher.MustCompile("^`([^`]*)`")
	reAlpha         = matcher.MustCompile(`(?i)^\(opacity=`)
	reDigits        = matcher.MustCompile(`^\d+`)
)

// comment reads a block comment or a silent line comment.
func (p *Parser) comment() ast.Node {
	if !p.c.Peek('/') {
		return nil
	}
	index := p.c.Offset()
	if p.c.CharAt(index+1) == '/' {
		if m := p.c.Match(reLineComment); m != nil {
			return &ast.Comment{Pos: p.pos(index), Value: m[0], Silent: true}
		}
		return nil
	}
	if m := p.c.Match(reBlockComment); m != nil {
		return &ast.Comment{Pos: p.pos(index), Value: m[0]}
	}
	return nil
}

// entity reads any single value term.
func (p *Parser) entity() ast.Node {
	return p.first(p.literal, p.variable, p.url, p.call, p.keyword, p.script, p.comment)
}

func (p *Parser) literal() ast.Node {
	return p.first(p.dimension, p.color, p.quoted, p.unicodeDescriptor)
}

// quoted reads "..." or '...', optionally escaped with a leading ~.
func (p *Parser) quoted() ast.Node {
	index := p.c.Offset()
	j := index
	escaped := false
	if p.c.CharAt(j) == '~' {
		j++
		escaped = true
	}
	if q := p.c.CharAt(j); q != '"' && q != '\'' {
		return nil
	}

	cp := p.c.Checkpoint()
	if escaped {
		p.c.Char('~')
	}
	m := p.c.Match(reQuoted)
	if m == nil {
		p.c.Rollback(cp)
		return nil
	}
	value := m[1]
	if m[0][0] == '\'' {
		value = m[2]
	}
	return &ast.Quoted{Pos: p.pos(index), Quote: m[0][:1], Value: value, Escaped: escaped}
}

// keyword reads an identifier. CSS color names become colors.
func (p *Parser) keyword() ast.Node {
	index := p.c.Offset()
	m := p.c.Match(reKeyword)
	if m == nil {
		return nil
	}
	if color := namedColor(m[0]); color != nil {
		color.Pos = p.pos(index)
		return color
	}
	return &ast.Keyword{Pos: p.pos(index), Value: m[0]}
}

// namedColor returns the color a keyword names, or nil. Words made only of
// hex digits are never colors here, since they would otherwise be read as
// hex triplets.
func namedColor(word string) *ast.Color {
	if reHexOnly.MatchString(word) {
		return nil
	}
	parsed, err := csscolorparser.Parse(word)
	if err != nil {
		return nil
	}
	color := toColor(parsed)
	color.Keyword = word
	return color
}

// hexColor decodes a 3 or 6 digit hex string.
func hexColor(hex string) *ast.Color {
	parsed, err := csscolorparser.Parse("#" + hex)
	if err != nil {
		return &ast.Color{Alpha: 1}
	}
	return toColor(parsed)
}

func toColor(c csscolorparser.Color) *ast.Color {
	return &ast.Color{
		RGB: [3]float64{
			math.Round(c.R * 255),
			math.Round(c.G * 255),
			math.Round(c.B * 255),
		},
		Alpha: c.A,
	}
}

// call reads name(args). url() is left to url and alpha(opacity=...) has
// its own node.
func (p *Parser) call() ast.Node {
	index := p.c.Offset()
	m := p.c.Lookahead(reCall)
	if m == nil {
		return nil
	}
	name := m[1]
	lower := strings.ToLower(name)
	if lower == "url" {
		return nil
	}

	cp := p.c.Checkpoint()
	p.c.Advance(len(name))
	if lower == "alpha" {
		if a := p.alpha(index); a != nil {
			return a
		}
	}

	p.c.Char('(')
	args := p.arguments()
	if !p.c.Char(')') {
		p.c.Rollback(cp)
		return nil
	}
	return &ast.Call{Pos: p.pos(index), Name: name, Args: args}
}

// alpha reads (opacity=N) after the alpha function name.
func (p *Parser) alpha(index int) ast.Node {
	cp := p.c.Checkpoint()
	if p.c.Match(reAlpha) == nil {
		return nil
	}
	var value ast.Node
	valueIndex := p.c.Offset()
	if m := p.c.Match(reDigits); m != nil {
		value = p.anonymous(valueIndex, m[0])
	} else if v := p.variable(); v != nil {
		value = v
	} else {
		p.c.Rollback(cp)
		return nil
	}
	p.c.ExpectChar(')', "")
	return &ast.Alpha{Pos: p.pos(index), Value: value}
}

// arguments reads a comma separated call argument list.
func (p *Parser) arguments() []ast.Node {
	args := []ast.Node{}
	for {
		arg := p.first(p.assignment, p.expression)
		if arg == nil {
			break
		}
		args = append(args, arg)
		if !p.c.Char(',') {
			break
		}
	}
	return args
}

// assignment reads key=value, as in filter arguments.
func (p *Parser) assignment() ast.Node {
	index := p.c.Offset()
	var n ast.Node
	p.c.Attempt(func() bool {
		m := p.c.Match(reAssignmentKey)
		if m == nil || !p.c.Char('=') {
			return false
		}
		value := p.entity()
		if value == nil {
			return false
		}
		n = &ast.Assignment{Pos: p.pos(index), Key: m[0], Value: value}
		return true
	})
	return n
}

// url reads url(...). An unquoted body is kept as raw text.
func (p *Parser) url() ast.Node {
	index := p.c.Offset()
	if !p.c.Peek('u') || p.c.Match(reURL) == nil {
		return nil
	}

	value := p.first(p.quoted, p.variable)
	if value == nil {
		bodyIndex := p.c.Offset()
		raw := ""
		if m := p.c.Match(reURLBody); m != nil {
			raw = m[0]
		}
		value = p.anonymous(bodyIndex, raw)
	}
	p.c.ExpectChar(')', "")
	return &ast.URL{Pos: p.pos(index), Value: value}
}

// variable reads @name or @@name.
func (p *Parser) variable() ast.Node {
	index := p.c.Offset()
	if !p.c.Peek('@') {
		return nil
	}
	if m := p.c.Match(reVariable); m != nil {
		return &ast.Variable{Pos: p.pos(index), Name: m[0]}
	}
	return nil
}

// variableCurly reads an interpolation @{name}.
func (p *Parser) variableCurly() ast.Node {
	index := p.c.Offset()
	if !p.c.Peek('@') {
		return nil
	}
	if m := p.c.Match(reVariableCurly); m != nil {
		return &ast.Variable{Pos: p.pos(index), Name: "@" + m[1]}
	}
	return nil
}

func (p *Parser) color() ast.Node {
	index := p.c.Offset()
	if !p.c.Peek('#') {
		return nil
	}
	m := p.c.Match(reColor)
	if m == nil {
		return nil
	}
	color := hexColor(m[1])
	color.Pos = p.pos(index)
	return color
}

func (p *Parser) dimension() ast.Node {
	index := p.c.Offset()
	c := p.c.Current()
	if c > '9' || c < '+' || c == '/' || c == ',' {
		return nil
	}
	m := p.c.Match(reDimension)
	if m == nil {
		return nil
	}
	value, _ := strconv.ParseFloat(m[1], 64)
	return &ast.Dimension{Pos: p.pos(index), Value: value, Unit: m[2]}
}

func (p *Parser) unicodeDescriptor() ast.Node {
	index := p.c.Offset()
	if m := p.c.Match(reUnicode); m != nil {
		return &ast.UnicodeDescriptor{Pos: p.pos(index), Value: m[0]}
	}
	return nil
}

// script reads a backtick expression, optionally escaped with ~.
func (p *Parser) script() ast.Node {
	index := p.c.Offset()
	j := index
	escaped := false
	if p.c.CharAt(j) == '~' {
		j++
		escaped = true
	}
	if p.c.CharAt(j) != '`' {
		return nil
	}

	cp := p.c.Checkpoint()
	if escaped {
		p.c.Char('~')
	}
	m := p.c.Match(reScript)
	if m == nil {
		p.c.Rollback(cp)
		return nil
	}
	return &ast.ScriptExpr{Pos: p.pos(index), Expression: m[1], Escaped: escaped}
}
