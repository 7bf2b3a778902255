package parser

import (
	"strings"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
)

var (
	reCommentAhead = matcher.MustCompile(`^\/[*\/]`)
	reSpacedSign   = matcher.MustCompile(`^[-+]\s+`)
	reNot          = matcher.MustCompile(`^not`)
	reAnd          = matcher.MustCompile(`^and`)
	reComparison   = matcher.MustCompile(`^(?:>=|=<|[<=>])`)
)

// expression reads a space separated run of terms. A "/" between terms
// that is not an operator is kept as an Anonymous node.
func (p *Parser) expression() ast.Node {
	index := p.c.Offset()
	var entities []ast.Node
	for {
		e := p.first(p.addition, p.entity)
		if e == nil {
			break
		}
		entities = append(entities, e)
		if !p.c.PeekPattern(reCommentAhead) && p.c.Peek('/') {
			delimIndex := p.c.Offset()
			p.c.Char('/')
			entities = append(entities, p.anonymous(delimIndex, "/"))
		}
	}
	if len(entities) == 0 {
		return nil
	}
	return &ast.Expression{Pos: p.pos(index), Values: entities}
}

// addition reads operands joined by + and -. An unspaced sign after a
// spaced term, as in "1 -2", starts a new term instead.
func (p *Parser) addition() ast.Node {
	index := p.c.Offset()
	m := p.multiplication()
	if m == nil {
		return nil
	}

	operation := m
	isSpaced := isWhitespace(p.c.CharAt(p.c.Offset() - 1))
	for {
		cp := p.c.Checkpoint()
		op := ""
		if sign := p.c.Match(reSpacedSign); sign != nil {
			op = strings.TrimSpace(sign[0])
		} else if !isSpaced {
			if p.c.Char('+') {
				op = "+"
			} else if p.c.Char('-') {
				op = "-"
			}
		}
		if op == "" {
			break
		}
		a := p.multiplication()
		if a == nil {
			p.c.Rollback(cp)
			break
		}
		operation = &ast.Operation{Pos: p.pos(index), Op: op, Operands: [2]ast.Node{operation, a}, IsSpaced: isSpaced}
		isSpaced = isWhitespace(p.c.CharAt(p.c.Offset() - 1))
	}
	return operation
}

// multiplication reads operands joined by * and /. A "/" that starts a
// comment is not an operator.
func (p *Parser) multiplication() ast.Node {
	index := p.c.Offset()
	m := p.operand()
	if m == nil {
		return nil
	}

	operation := m
	isSpaced := isWhitespace(p.c.CharAt(p.c.Offset() - 1))
	for !p.c.PeekPattern(reCommentAhead) {
		cp := p.c.Checkpoint()
		op := ""
		if p.c.Char('/') {
			op = "/"
		} else if p.c.Char('*') {
			op = "*"
		} else {
			break
		}
		a := p.operand()
		if a == nil {
			p.c.Rollback(cp)
			break
		}
		operation = &ast.Operation{Pos: p.pos(index), Op: op, Operands: [2]ast.Node{operation, a}, IsSpaced: isSpaced}
		isSpaced = isWhitespace(p.c.CharAt(p.c.Offset() - 1))
	}
	return operation
}

// operand reads one arithmetic term. A minus directly before a variable
// or a parenthesised expression negates it.
func (p *Parser) operand() ast.Node {
	cp := p.c.Checkpoint()
	index := p.c.Offset()

	negate := false
	if next := p.c.CharAt(index + 1); p.c.Peek('-') && (next == '@' || next == '(') {
		negate = p.c.Char('-')
	}

	o := p.first(p.sub, p.dimension, p.color, p.variable, p.call)
	if !negate {
		return o
	}
	if o == nil {
		p.c.Rollback(cp)
		return nil
	}
	return &ast.Negative{Pos: p.pos(index), Value: o}
}

// sub reads a parenthesised arithmetic expression.
func (p *Parser) sub() ast.Node {
	cp := p.c.Checkpoint()
	index := p.c.Offset()
	if !p.c.Char('(') {
		return nil
	}
	a := p.addition()
	if a == nil {
		p.c.Rollback(cp)
		return nil
	}
	p.c.ExpectChar(')', "")
	return &ast.Expression{Pos: p.pos(index), Values: []ast.Node{a}, Parens: true}
}

// conditions reads a guard: conditions joined by "," (or).
func (p *Parser) conditions() ast.Node {
	index := p.c.Offset()
	a := p.condition()
	if a == nil {
		return nil
	}
	condition := a
	for p.c.Char(',') {
		b := p.condition()
		if b == nil {
			break
		}
		condition = &ast.Condition{Pos: p.pos(index), Op: "or", LValue: condition, RValue: b}
	}
	return condition
}

// condition reads "not? (a op b)" or "(a)", chained with "and".
func (p *Parser) condition() ast.Node {
	index := p.c.Offset()
	negate := p.c.Match(reNot) != nil
	p.c.ExpectChar('(', "")

	a := p.first(p.addition, p.keyword, p.quoted)
	if a == nil {
		return nil
	}

	var c *ast.Condition
	if m := p.c.Match(reComparison); m != nil {
		b := p.first(p.addition, p.keyword, p.quoted)
		if b == nil {
			p.c.Fail("expected expression")
		}
		c = &ast.Condition{Pos: p.pos(index), Op: m[0], LValue: a, RValue: b, Negate: negate}
	} else {
		truth := &ast.Keyword{Pos: p.pos(p.c.Offset()), Value: "true"}
		c = &ast.Condition{Pos: p.pos(index), Op: "=", LValue: a, RValue: truth, Negate: negate}
	}
	p.c.ExpectChar(')', "")

	if p.c.Match(reAnd) != nil {
		return &ast.Condition{Pos: p.pos(index), Op: "and", LValue: c, RValue: p.condition()}
	}
	return c
}
