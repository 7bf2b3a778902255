package ast

// Inspect traverses the tree rooted at node in depth-first order, calling
// f for each node. When f returns false the children of that node are
// skipped. The trees of imported files hang off Import.Root and are not
// visited.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// Children returns the direct child nodes of node, skipping nil values.
func Children(node Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil {
				out = append(out, n)
			}
		}
	}

	switch n := node.(type) {
	case *Call:
		add(n.Args...)
	case *URL:
		add(n.Value)
	case *Alpha:
		add(n.Value)
	case *Assignment:
		add(n.Value)
	case *Element:
		if n.Combinator != nil {
			add(n.Combinator)
		}
		add(n.Value)
	case *Selector:
		for _, e := range n.Elements {
			add(e)
		}
		for _, e := range n.Extends {
			add(e)
		}
	case *Attribute:
		add(n.Key, n.Value)
	case *Paren:
		add(n.Value)
	case *Extend:
		if n.Selector != nil {
			add(n.Selector)
		}
	case *Ruleset:
		for _, s := range n.Selectors {
			add(s)
		}
		add(n.Rules...)
	case *Rule:
		add(n.Value)
	case *Media:
		if n.Features != nil {
			add(n.Features)
		}
		add(n.Rules...)
	case *Directive:
		add(n.Rules...)
		add(n.Value)
	case *Import:
		add(n.Path)
		if n.Features != nil {
			add(n.Features)
		}
	case *Value:
		add(n.Values...)
	case *Expression:
		add(n.Values...)
	case *Operation:
		add(n.Operands[0], n.Operands[1])
	case *Negative:
		add(n.Value)
	case *Condition:
		add(n.LValue, n.RValue)
	case *MixinCall:
		for _, e := range n.Elements {
			add(e)
		}
		for _, a := range n.Args {
			add(a.Value)
		}
	case *MixinDefinition:
		for _, p := range n.Params {
			add(p.Value)
		}
		add(n.Rules...)
		add(n.Condition)
	}
	return out
}
