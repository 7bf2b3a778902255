package ast

// MixinArg is one argument of a mixin call or one parameter of a mixin
// definition. A parameter without a name is a pattern to match against.
type MixinArg struct {
	Name     string `json:"name,omitempty"`
	Value    Node   `json:"value,omitempty"`
	Variadic bool   `json:"variadic,omitempty"`
}

// MixinCall invokes the mixin selected by Elements.
type MixinCall struct {
	Pos
	Elements  []*Element `json:"elements"`
	Args      []MixinArg `json:"args"`
	Important bool       `json:"important,omitempty"`
}

func (*MixinCall) Kind() Kind { return KindMixinCall }

func (n *MixinCall) MarshalJSON() ([]byte, error) {
	type plain MixinCall
	return marshalTagged(KindMixinCall, (*plain)(n))
}

// MixinDefinition is a parametric mixin. Arity counts all parameters and
// Required those without a default.
type MixinDefinition struct {
	Pos
	Name      string     `json:"name"`
	Params    []MixinArg `json:"params"`
	Rules     []Node     `json:"rules"`
	Condition Node       `json:"condition,omitempty"`
	Variadic  bool       `json:"variadic,omitempty"`
	Arity     int        `json:"arity"`
	Required  int        `json:"required"`
}

func (*MixinDefinition) Kind() Kind { return KindMixinDefinition }

func (n *MixinDefinition) MarshalJSON() ([]byte, error) {
	type plain MixinDefinition
	return marshalTagged(KindMixinDefinition, (*plain)(n))
}
