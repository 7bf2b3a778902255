package ast

// Combinator joins an element to the one before it: ">", "+", "~", "|",
// " " for a descendant, or "" for none.
type Combinator struct {
	Pos
	Value string `json:"value"`
}

func (*Combinator) Kind() Kind { return KindCombinator }

func (n *Combinator) MarshalJSON() ([]byte, error) {
	type plain Combinator
	return marshalTagged(KindCombinator, (*plain)(n))
}

// Element is one compound part of a selector. Value is an Anonymous for
// plain text, or an Attribute, Paren, or Variable.
type Element struct {
	Pos
	Combinator *Combinator `json:"combinator"`
	Value      Node        `json:"value"`
}

func (*Element) Kind() Kind { return KindElement }

func (n *Element) MarshalJSON() ([]byte, error) {
	type plain Element
	return marshalTagged(KindElement, (*plain)(n))
}

// Text returns the element text for plain elements and "" otherwise.
func (n *Element) Text() string {
	if a, ok := n.Value.(*Anonymous); ok {
		return a.Value
	}
	return ""
}

// Selector is a sequence of elements with the :extend entries that
// trailed it.
type Selector struct {
	Pos
	Elements []*Element `json:"elements"`
	Extends  []*Extend  `json:"extends,omitempty"`
}

func (*Selector) Kind() Kind { return KindSelector }

func (n *Selector) MarshalJSON() ([]byte, error) {
	type plain Selector
	return marshalTagged(KindSelector, (*plain)(n))
}

// Attribute is [key], or [key op value].
type Attribute struct {
	Pos
	Key   Node   `json:"key"`
	Op    string `json:"op,omitempty"`
	Value Node   `json:"value,omitempty"`
}

func (*Attribute) Kind() Kind { return KindAttribute }

func (n *Attribute) MarshalJSON() ([]byte, error) {
	type plain Attribute
	return marshalTagged(KindAttribute, (*plain)(n))
}

// Paren wraps a parenthesised selector or media feature.
type Paren struct {
	Pos
	Value Node `json:"value"`
}

func (*Paren) Kind() Kind { return KindParen }

func (n *Paren) MarshalJSON() ([]byte, error) {
	type plain Paren
	return marshalTagged(KindParen, (*plain)(n))
}

// Extend asks for the enclosing selector to be added wherever Selector
// matches. Option is "all" or "".
type Extend struct {
	Pos
	Selector *Selector `json:"selector"`
	Option   string    `json:"option,omitempty"`
}

func (*Extend) Kind() Kind { return KindExtend }

func (n *Extend) MarshalJSON() ([]byte, error) {
	type plain Extend
	return marshalTagged(KindExtend, (*plain)(n))
}
