package ast

// Ruleset is a selector list with a block. The tree root is a Ruleset with
// no selectors and Root set.
type Ruleset struct {
	Pos
	Selectors     []*Selector `json:"selectors"`
	Rules         []Node      `json:"rules"`
	Root          bool        `json:"root,omitempty"`
	FirstRoot     bool        `json:"firstRoot,omitempty"`
	StrictImports bool        `json:"strictImports,omitempty"`
}

func (*Ruleset) Kind() Kind { return KindRuleset }

func (n *Ruleset) MarshalJSON() ([]byte, error) {
	type plain Ruleset
	return marshalTagged(KindRuleset, (*plain)(n))
}

// Rule is a declaration, either "property: value" or "@variable: value".
// Inline rules come from media features like (min-width: 10px).
type Rule struct {
	Pos
	Name      string `json:"name"`
	Value     Node   `json:"value"`
	Important bool   `json:"important,omitempty"`
	Inline    bool   `json:"inline,omitempty"`
}

func (*Rule) Kind() Kind { return KindRule }

func (n *Rule) MarshalJSON() ([]byte, error) {
	type plain Rule
	return marshalTagged(KindRule, (*plain)(n))
}

// IsVariable reports whether the rule declares a variable.
func (n *Rule) IsVariable() bool {
	return len(n.Name) > 0 && n.Name[0] == '@'
}

// Media is an @media block.
type Media struct {
	Pos
	Features *Value `json:"features"`
	Rules    []Node `json:"rules"`
}

func (*Media) Kind() Kind { return KindMedia }

func (n *Media) MarshalJSON() ([]byte, error) {
	type plain Media
	return marshalTagged(KindMedia, (*plain)(n))
}

// Directive is any other at-rule. Block directives set Rules, the rest set
// Value.
type Directive struct {
	Pos
	Name  string `json:"name"`
	Rules []Node `json:"rules,omitempty"`
	Value Node   `json:"value,omitempty"`
}

func (*Directive) Kind() Kind { return KindDirective }

func (n *Directive) MarshalJSON() ([]byte, error) {
	type plain Directive
	return marshalTagged(KindDirective, (*plain)(n))
}

// ImportOptions are the flags given in @import (...). Nil means unset.
type ImportOptions struct {
	Less     *bool `json:"less,omitempty"`
	Multiple *bool `json:"multiple,omitempty"`
}

// Import is an @import statement. The fields after Options are filled in
// by import processing.
type Import struct {
	Pos
	Path     Node          `json:"path"` // Quoted or URL
	Features *Value        `json:"features,omitempty"`
	Options  ImportOptions `json:"options"`
	CSS      bool          `json:"css,omitempty"`

	FullPath string   `json:"fullPath,omitempty"`
	Root     *Ruleset `json:"-"`
	Imported bool     `json:"imported,omitempty"` // another import already loaded FullPath
	Skip     bool     `json:"skip,omitempty"`     // imported and not marked multiple
}

func (*Import) Kind() Kind { return KindImport }

func (n *Import) MarshalJSON() ([]byte, error) {
	type plain Import
	return marshalTagged(KindImport, (*plain)(n))
}

// PathValue returns the literal import path, or "" when the path is not a
// plain string (for example url(@var)).
func (n *Import) PathValue() string {
	switch p := n.Path.(type) {
	case *Quoted:
		return p.Value
	case *URL:
		switch v := p.Value.(type) {
		case *Quoted:
			return v.Value
		case *Anonymous:
			return v.Value
		}
	}
	return ""
}

// Multiple reports whether the file may be included more than once.
func (n *Import) Multiple() bool {
	return n.Options.Multiple != nil && *n.Options.Multiple
}
