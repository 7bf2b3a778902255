package parser

import (
	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
)

var (
	reExtend         = matcher.MustCompile(`^:extend\(`)
	reExtendRule     = matcher.MustCompile(`^&:extend\(`)
	reExtendAll      = matcher.MustCompile(`^(all)(?=\s*(\)|,))`)
	reCloseParen     = matcher.MustCompile(`^\)`)
	reSemicolon      = matcher.MustCompile(`^;`)
	rePercentElement = matcher.MustCompile(`^(?:\d+\.\d+|\d+)%`)
	reElementName    = matcher.MustCompile(`^(?:[.#]?|:*)(?:[\w-]|[^\x00-\x9f]|\\(?:[A-Fa-f0-9]{1,6} ?|[^A-Fa-f0-9]))+`)
	reParenText      = matcher.MustCompile(`^\([^()@]+\)`)
	reInterpolated   = matcher.MustCompile(`^[\.#](?=@)`)
	reAttributeKey   = matcher.MustCompile(`^(?:[_A-Za-z0-9-\*]*\|)?(?:[_A-Za-z0-9-]|\\.)+`)
	reAttributeOp    = matcher.MustCompile(`^[|~*$^]?=`)
	reAttributeWord  = matcher.MustCompile(`^[\w-]+`)
)

// extend reads ":extend(...)", or "&:extend(...);" when isRule is set.
// It returns nil when there is no extend at the cursor.
func (p *Parser) extend(isRule bool) []*ast.Extend {
	index := p.c.Offset()
	re := reExtend
	if isRule {
		re = reExtendRule
	}
	if p.c.Match(re) == nil {
		return nil
	}

	var extends []*ast.Extend
	for {
		var option string
		var elements []*ast.Element
		for {
			if m := p.c.Match(reExtendAll); m != nil {
				option = m[1]
				break
			}
			e := p.element()
			if e == nil {
				break
			}
			elements = append(elements, e)
		}
		extends = append(extends, &ast.Extend{
			Pos:      p.pos(index),
			Selector: &ast.Selector{Pos: p.pos(index), Elements: elements},
			Option:   option,
		})
		if !p.c.Char(',') {
			break
		}
	}

	p.c.Expect(reCloseParen, "")
	if isRule {
		p.c.Expect(reSemicolon, "")
	}
	return extends
}

// element reads one selector element with its leading combinator.
func (p *Parser) element() *ast.Element {
	cp := p.c.Checkpoint()
	combinator := p.combinator()
	index := p.c.Offset()

	var value ast.Node
	if m := p.c.Match(rePercentElement); m != nil {
		value = p.anonymous(index, m[0])
	} else if m := p.c.Match(reElementName); m != nil {
		value = p.anonymous(index, m[0])
	} else if p.c.Char('*') {
		value = p.anonymous(index, "*")
	} else if p.c.Char('&') {
		value = p.anonymous(index, "&")
	} else if a := p.attribute(); a != nil {
		value = a
	} else if m := p.c.Match(reParenText); m != nil {
		value = p.anonymous(index, m[0])
	} else if m := p.c.Match(reInterpolated); m != nil {
		value = p.anonymous(index, m[0])
	} else if v := p.variableCurly(); v != nil {
		value = v
	} else {
		inner := p.c.Checkpoint()
		if p.c.Char('(') {
			if sel := p.selector(); sel != nil && p.c.Char(')') {
				value = &ast.Paren{Pos: p.pos(index), Value: sel}
			}
		}
		if value == nil {
			p.c.Rollback(inner)
		}
	}

	if value == nil {
		p.c.Rollback(cp)
		return nil
	}
	return &ast.Element{Pos: p.pos(index), Combinator: combinator, Value: value}
}

// combinator reads an explicit combinator and the space after it. With no
// explicit combinator the result is " " when whitespace precedes the
// cursor and "" otherwise.
func (p *Parser) combinator() *ast.Combinator {
	index := p.c.Offset()
	switch c := p.c.Current(); c {
	case '>', '+', '~', '|':
		p.c.Advance(1)
		for isSpace(p.c.Current()) {
			p.c.Advance(1)
		}
		return &ast.Combinator{Pos: p.pos(index), Value: string(c)}
	}
	if isSpace(p.c.CharAt(index - 1)) {
		return &ast.Combinator{Pos: p.pos(index), Value: " "}
	}
	return &ast.Combinator{Pos: p.pos(index)}
}

// selector reads elements up to a block, a separator, or a closing paren.
// :extend may only trail the elements.
func (p *Parser) selector() *ast.Selector {
	index := p.c.Offset()
	var elements []*ast.Element
	var extends []*ast.Extend
	var c byte

	for {
		if ext := p.extend(false); ext != nil {
			extends = append(extends, ext...)
		} else if e := p.element(); e != nil {
			if len(extends) > 0 {
				p.c.Fail("Extend can only be used at the end of selector")
			}
			c = p.c.Current()
			elements = append(elements, e)
		} else {
			break
		}
		if c == '{' || c == '}' || c == ';' || c == ',' || c == ')' {
			break
		}
	}

	if len(elements) > 0 {
		return &ast.Selector{Pos: p.pos(index), Elements: elements, Extends: extends}
	}
	if len(extends) > 0 {
		p.c.Fail("Extend must be used to extend a selector, it cannot be used on its own")
	}
	return nil
}

// attribute reads [key], or [key op value].
func (p *Parser) attribute() ast.Node {
	index := p.c.Offset()
	if !p.c.Char('[') {
		return nil
	}

	key := p.variableCurly()
	if key == nil {
		keyIndex := p.c.Offset()
		m := p.c.Expect(reAttributeKey, "")
		key = p.anonymous(keyIndex, m[0])
	}

	attr := &ast.Attribute{Pos: p.pos(index), Key: key}
	if m := p.c.Match(reAttributeOp); m != nil {
		attr.Op = m[0]
		valueIndex := p.c.Offset()
		if q := p.quoted(); q != nil {
			attr.Value = q
		} else if w := p.c.Match(reAttributeWord); w != nil {
			attr.Value = p.anonymous(valueIndex, w[0])
		} else if v := p.variableCurly(); v != nil {
			attr.Value = v
		}
	}
	p.c.ExpectChar(']', "")
	return attr
}

// block reads "{ primary }".
func (p *Parser) block() ([]ast.Node, bool) {
	cp := p.c.Checkpoint()
	if p.c.Char('{') {
		rules := p.primary()
		if p.c.Char('}') {
			return rules, true
		}
	}
	p.c.Rollback(cp)
	return nil, false
}

// ruleset reads a comma separated selector list and its block.
func (p *Parser) ruleset() ast.Node {
	cp := p.c.Checkpoint()
	index := p.c.Offset()

	var selectors []*ast.Selector
	for {
		s := p.selector()
		if s == nil {
			break
		}
		selectors = append(selectors, s)
		p.comment()
		if !p.c.Char(',') {
			break
		}
		p.comment()
	}

	if len(selectors) > 0 {
		if rules, ok := p.block(); ok {
			return &ast.Ruleset{
				Pos:           p.pos(index),
				Selectors:     selectors,
				Rules:         rules,
				StrictImports: p.opts.StrictImports,
			}
		}
	}
	p.c.Rollback(cp)
	return nil
}
