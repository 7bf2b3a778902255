package ast

// Value is a comma separated list of expressions.
type Value struct {
	Pos
	Values []Node `json:"values"`
}

func (*Value) Kind() Kind { return KindValue }

func (n *Value) MarshalJSON() ([]byte, error) {
	type plain Value
	return marshalTagged(KindValue, (*plain)(n))
}

// Expression is a space separated sequence. Parens is set for a
// parenthesised sub-expression.
type Expression struct {
	Pos
	Values []Node `json:"values"`
	Parens bool   `json:"parens,omitempty"`
}

func (*Expression) Kind() Kind { return KindExpression }

func (n *Expression) MarshalJSON() ([]byte, error) {
	type plain Expression
	return marshalTagged(KindExpression, (*plain)(n))
}

// Operation is a binary arithmetic operation. IsSpaced records whether
// whitespace preceded the operator, which decides later whether "a -b"
// is a subtraction or two values.
type Operation struct {
	Pos
	Op       string  `json:"op"`
	Operands [2]Node `json:"operands"`
	IsSpaced bool    `json:"isSpaced,omitempty"`
}

func (*Operation) Kind() Kind { return KindOperation }

func (n *Operation) MarshalJSON() ([]byte, error) {
	type plain Operation
	return marshalTagged(KindOperation, (*plain)(n))
}

// Negative is a unary minus applied to a variable or parenthesised value.
type Negative struct {
	Pos
	Value Node `json:"value"`
}

func (*Negative) Kind() Kind { return KindNegative }

func (n *Negative) MarshalJSON() ([]byte, error) {
	type plain Negative
	return marshalTagged(KindNegative, (*plain)(n))
}

// Condition is a guard comparison, or an "and"/"or" of two conditions.
// A bare truthy test compares against the keyword true with "=".
type Condition struct {
	Pos
	Op     string `json:"op"`
	LValue Node   `json:"lvalue"`
	RValue Node   `json:"rvalue"`
	Negate bool   `json:"negate,omitempty"`
}

func (*Condition) Kind() Kind { return KindCondition }

func (n *Condition) MarshalJSON() ([]byte, error) {
	type plain Condition
	return marshalTagged(KindCondition, (*plain)(n))
}
