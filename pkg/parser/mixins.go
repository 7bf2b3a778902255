package parser

import (
	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
)

var (
	reMixinName       = matcher.MustCompile(`^[#.](?:[\w-]|\\(?:[A-Fa-f0-9]{1,6} ?|[^A-Fa-f0-9]))+`)
	reMixinDefinition = matcher.MustCompile(`^([#.](?:[\w-]|\\(?:[A-Fa-f0-9]{1,6} ?|[^A-Fa-f0-9]))+)\s*\(`)
	reBlockCloseAhead = matcher.MustCompile(`^[^{]*\}`)
	reEllipsis        = matcher.MustCompile(`^\.{3}`)
	reWhen            = matcher.MustCompile(`^when`)
)

const errMixedDelimiters = "Cannot mix ; and , as delimiter types"

// mixinCall reads ".a > #b(args) !important;". The call is only taken
// when it ends with ";" or sits right before "}", so ".a:hover { }" falls
// through to ruleset.
func (p *Parser) mixinCall() ast.Node {
	if s := p.c.Current(); s != '.' && s != '#' {
		return nil
	}
	cp := p.c.Checkpoint()
	index := p.c.Offset()

	var elements []*ast.Element
	combinator := ""
	for {
		elementIndex := p.c.Offset()
		m := p.c.Match(reMixinName)
		if m == nil {
			break
		}
		elements = append(elements, &ast.Element{
			Pos:        p.pos(elementIndex),
			Combinator: &ast.Combinator{Pos: p.pos(elementIndex), Value: combinator},
			Value:      p.anonymous(elementIndex, m[0]),
		})
		combinator = ""
		if p.c.Char('>') {
			combinator = ">"
		}
	}

	args := []ast.MixinArg{}
	if p.c.Char('(') {
		if callArgs, _ := p.mixinArgs(true); callArgs != nil {
			args = callArgs
		}
		p.c.ExpectChar(')', "")
	}
	important := p.important()

	if len(elements) > 0 && (p.c.Char(';') || p.c.Peek('}')) {
		return &ast.MixinCall{Pos: p.pos(index), Elements: elements, Args: args, Important: important}
	}
	p.c.Rollback(cp)
	return nil
}

// mixinArgs reads the argument list of a call (isCall) or the parameter
// list of a definition. Arguments are separated by commas, or by
// semicolons in which case each argument may hold a comma list. It also
// reports whether the list ends with "...".
func (p *Parser) mixinArgs(isCall bool) ([]ast.MixinArg, bool) {
	var (
		expressions   []ast.Node
		bySemicolon   []ast.MixinArg
		byComma       []ast.MixinArg
		semicolons    bool
		containsNamed bool
		variadic      bool
		name          string
	)

	// pushVariadic records a trailing "..." parameter.
	pushVariadic := func(arg ast.MixinArg) {
		variadic = true
		if p.c.Char(';') && !semicolons {
			semicolons = true
		}
		if semicolons {
			bySemicolon = append(bySemicolon, arg)
		} else {
			byComma = append(byComma, arg)
		}
	}

	for {
		var arg ast.Node
		if isCall {
			arg = p.expression()
		} else {
			p.comment()
			if p.c.Peek('.') && p.c.Match(reEllipsis) != nil {
				pushVariadic(ast.MixinArg{Variadic: true})
				break
			}
			arg = p.first(p.variable, p.literal, p.keyword)
		}
		if arg == nil {
			break
		}

		nameLoop := ""
		value := arg
		var val ast.Node
		if isCall {
			if expr, ok := arg.(*ast.Expression); ok && len(expr.Values) == 1 {
				val = expr.Values[0]
			}
		} else {
			val = arg
		}

		if v, ok := val.(*ast.Variable); ok {
			if p.c.Char(':') {
				if len(expressions) > 0 {
					if semicolons {
						p.c.Fail(errMixedDelimiters)
					}
					containsNamed = true
				}
				value = p.expression()
				if value == nil {
					p.c.Fail("unexpected token")
				}
				name = v.Name
				nameLoop = name
			} else if !isCall && p.c.Match(reEllipsis) != nil {
				pushVariadic(ast.MixinArg{Name: v.Name, Variadic: true})
				break
			} else if !isCall {
				name = v.Name
				nameLoop = name
				value = nil
			}
		}

		if value != nil {
			expressions = append(expressions, value)
		}
		byComma = append(byComma, ast.MixinArg{Name: nameLoop, Value: value})

		if p.c.Char(',') {
			continue
		}

		if p.c.Char(';') || semicolons {
			if containsNamed {
				p.c.Fail(errMixedDelimiters)
			}
			semicolons = true
			if len(expressions) > 1 {
				value = &ast.Value{Pos: expressions[0].Position(), Values: expressions}
			}
			bySemicolon = append(bySemicolon, ast.MixinArg{Name: name, Value: value})
			name = ""
			expressions = nil
			containsNamed = false
		}
	}

	if semicolons {
		return bySemicolon, variadic
	}
	return byComma, variadic
}

// mixinDefinition reads ".name(params) when (guard) { ... }".
func (p *Parser) mixinDefinition() ast.Node {
	if c := p.c.Current(); (c != '.' && c != '#') || p.c.PeekPattern(reBlockCloseAhead) {
		return nil
	}

	cp := p.c.Checkpoint()
	index := p.c.Offset()
	m := p.c.Match(reMixinDefinition)
	if m == nil {
		return nil
	}

	params, variadic := p.mixinArgs(false)
	if !p.c.Char(')') {
		p.c.Rollback(cp)
		return nil
	}

	p.comment()
	var condition ast.Node
	if p.c.Match(reWhen) != nil {
		condition = p.conditions()
		if condition == nil {
			p.c.Fail("expected condition")
		}
	}

	rules, ok := p.block()
	if !ok {
		p.c.Rollback(cp)
		return nil
	}

	if params == nil {
		params = []ast.MixinArg{}
	}
	required := 0
	for _, param := range params {
		if param.Name == "" || param.Value == nil {
			required++
		}
	}
	return &ast.MixinDefinition{
		Pos:       p.pos(index),
		Name:      m[1],
		Params:    params,
		Rules:     rules,
		Condition: condition,
		Variadic:  variadic,
		Arity:     len(params),
		Required:  required,
	}
}
