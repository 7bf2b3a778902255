package parser

import (
	"strings"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/matcher"
)

var (
	reImport        = matcher.MustCompile(`^@import?\s+`)
	reImportOption  = matcher.MustCompile(`^(less|css|multiple|once)`)
	reCSSPath       = matcher.MustCompile(`(?s)^.*css(?:[\?;].*)?$`)
	reMedia         = matcher.MustCompile(`^@media`)
	reDirectiveName = matcher.MustCompile(`^@[a-z-]+`)
	reIdentifier    = matcher.MustCompile(`^[^{]+`)
)

type directiveShape int

const (
	shapeValue directiveShape = iota
	shapeBlock
	shapeIdentifiedBlock
	shapeExpression
)

// directiveShapes lists the at-rules that take something other than a
// single entity, keyed by name without vendor prefix.
var directiveShapes = map[string]directiveShape{
	"@font-face": shapeBlock,
	"@viewport":  shapeBlock,

	"@top-left":            shapeBlock,
	"@top-left-corner":     shapeBlock,
	"@top-center":          shapeBlock,
	"@top-right":           shapeBlock,
	"@top-right-corner":    shapeBlock,
	"@bottom-left":         shapeBlock,
	"@bottom-left-corner":  shapeBlock,
	"@bottom-center":       shapeBlock,
	"@bottom-right":        shapeBlock,
	"@bottom-right-corner": shapeBlock,
	"@left-top":            shapeBlock,
	"@left-middle":         shapeBlock,
	"@left-bottom":         shapeBlock,
	"@right-top":           shapeBlock,
	"@right-middle":        shapeBlock,
	"@right-bottom":        shapeBlock,

	"@page":      shapeIdentifiedBlock,
	"@document":  shapeIdentifiedBlock,
	"@supports":  shapeIdentifiedBlock,
	"@keyframes": shapeIdentifiedBlock,

	"@namespace": shapeExpression,
}

// directive reads an at-rule. @import and @media have their own nodes.
func (p *Parser) directive() ast.Node {
	if !p.c.Peek('@') {
		return nil
	}
	if n := p.first(p.importRule, p.media); n != nil {
		return n
	}

	cp := p.c.Checkpoint()
	index := p.c.Offset()
	m := p.c.Match(reDirectiveName)
	if m == nil {
		return nil
	}
	name := m[0]

	shape := directiveShapes[unprefixed(name)]
	if shape == shapeIdentifiedBlock {
		if id := p.c.Match(reIdentifier); id != nil {
			if identifier := strings.TrimSpace(id[0]); identifier != "" {
				name += " " + identifier
			}
		}
	}

	switch shape {
	case shapeBlock, shapeIdentifiedBlock:
		if rules, ok := p.block(); ok {
			return &ast.Directive{Pos: p.pos(index), Name: name, Rules: rules}
		}
	default:
		var value ast.Node
		if shape == shapeExpression {
			value = p.expression()
		} else {
			value = p.entity()
		}
		if value != nil && p.c.Char(';') {
			return &ast.Directive{Pos: p.pos(index), Name: name, Value: value}
		}
	}

	p.c.Rollback(cp)
	return nil
}

// unprefixed strips a vendor prefix: "@-webkit-keyframes" becomes
// "@keyframes".
func unprefixed(name string) string {
	if len(name) < 2 || name[1] != '-' {
		return name
	}
	if k := strings.IndexByte(name[2:], '-'); k >= 0 {
		return "@" + name[k+3:]
	}
	return name
}

// importRule reads @import (options) "path" media;
func (p *Parser) importRule() ast.Node {
	cp := p.c.Checkpoint()
	index := p.c.Offset()
	if p.c.Match(reImport) == nil {
		return nil
	}

	options := p.importOptions()
	if path := p.first(p.quoted, p.url); path != nil {
		features := p.mediaFeatures()
		if p.c.Char(';') {
			imp := &ast.Import{Pos: p.pos(index), Path: path, Options: options}
			if features != nil {
				imp.Features = &ast.Value{Pos: features[0].Position(), Values: features}
			}
			imp.CSS = isCSSImport(imp)
			return imp
		}
	}

	p.c.Rollback(cp)
	return nil
}

// importOptions reads "(less, multiple)" style flags. css and once are the
// negations of less and multiple.
func (p *Parser) importOptions() ast.ImportOptions {
	var options ast.ImportOptions
	if !p.c.Char('(') {
		return options
	}
	for {
		m := p.c.Match(reImportOption)
		if m == nil {
			break
		}
		switch m[1] {
		case "less":
			options.Less = boolPtr(true)
		case "css":
			options.Less = boolPtr(false)
		case "multiple":
			options.Multiple = boolPtr(true)
		case "once":
			options.Multiple = boolPtr(false)
		}
		if !p.c.Char(',') {
			break
		}
	}
	p.c.ExpectChar(')', "")
	return options
}

// isCSSImport reports whether an import is left as a plain CSS @import.
// An explicit less or css option wins over the file extension.
func isCSSImport(imp *ast.Import) bool {
	if imp.Options.Less != nil {
		return !*imp.Options.Less
	}
	return reCSSPath.MatchString(imp.PathValue())
}

// mediaFeature reads one media query such as "screen and (max-width: 10px)".
func (p *Parser) mediaFeature() ast.Node {
	cp := p.c.Checkpoint()
	index := p.c.Offset()
	var nodes []ast.Node
	for {
		if k := p.keyword(); k != nil {
			nodes = append(nodes, k)
			continue
		}
		parenIndex := p.c.Offset()
		if !p.c.Char('(') {
			break
		}
		ruleIndex := p.c.Offset()
		name := p.property()
		value := p.value()
		if !p.c.Char(')') || value == nil {
			p.c.Rollback(cp)
			return nil
		}
		if name != "" {
			rule := &ast.Rule{Pos: p.pos(ruleIndex), Name: name, Value: value, Inline: true}
			nodes = append(nodes, &ast.Paren{Pos: p.pos(parenIndex), Value: rule})
		} else {
			nodes = append(nodes, &ast.Paren{Pos: p.pos(parenIndex), Value: value})
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	return &ast.Expression{Pos: p.pos(index), Values: nodes}
}

// mediaFeatures reads a comma separated media query list. Variables may
// stand in for whole queries.
func (p *Parser) mediaFeatures() []ast.Node {
	var features []ast.Node
	for {
		e := p.first(p.mediaFeature, p.variable)
		if e == nil {
			break
		}
		features = append(features, e)
		if !p.c.Char(',') {
			break
		}
	}
	return features
}

// media reads "@media features { ... }".
func (p *Parser) media() ast.Node {
	cp := p.c.Checkpoint()
	index := p.c.Offset()
	if p.c.Match(reMedia) == nil {
		return nil
	}
	featureIndex := p.c.Offset()
	features := p.mediaFeatures()
	rules, ok := p.block()
	if !ok {
		p.c.Rollback(cp)
		return nil
	}
	if features == nil {
		features = []ast.Node{}
	}
	return &ast.Media{
		Pos:      p.pos(index),
		Features: &ast.Value{Pos: p.pos(featureIndex), Values: features},
		Rules:    rules,
	}
}
