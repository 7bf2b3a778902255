package ast

// Keyword is a bare identifier such as a property value.
type Keyword struct {
	Pos
	Value string `json:"value"`
}

func (*Keyword) Kind() Kind { return KindKeyword }

func (n *Keyword) MarshalJSON() ([]byte, error) {
	type plain Keyword
	return marshalTagged(KindKeyword, (*plain)(n))
}

// Color is a hex color or a named color. Components are 0-255.
type Color struct {
	Pos
	RGB     [3]float64 `json:"rgb"`
	Alpha   float64    `json:"alpha"`
	Keyword string     `json:"keyword,omitempty"` // set for named colors
}

func (*Color) Kind() Kind { return KindColor }

func (n *Color) MarshalJSON() ([]byte, error) {
	type plain Color
	return marshalTagged(KindColor, (*plain)(n))
}

// Dimension is a number with an optional unit.
type Dimension struct {
	Pos
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

func (*Dimension) Kind() Kind { return KindDimension }

func (n *Dimension) MarshalJSON() ([]byte, error) {
	type plain Dimension
	return marshalTagged(KindDimension, (*plain)(n))
}

// Quoted is a string literal. Escaped strings (~"...") are emitted
// without quotes downstream.
type Quoted struct {
	Pos
	Quote   string `json:"quote"`
	Value   string `json:"value"`
	Escaped bool   `json:"escaped,omitempty"`
}

func (*Quoted) Kind() Kind { return KindQuoted }

func (n *Quoted) MarshalJSON() ([]byte, error) {
	type plain Quoted
	return marshalTagged(KindQuoted, (*plain)(n))
}

// Call is a function call other than url() and alpha().
type Call struct {
	Pos
	Name string `json:"name"`
	Args []Node `json:"args"`
}

func (*Call) Kind() Kind { return KindCall }

func (n *Call) MarshalJSON() ([]byte, error) {
	type plain Call
	return marshalTagged(KindCall, (*plain)(n))
}

// Variable references @name, @@name, or the interpolated @{name}.
type Variable struct {
	Pos
	Name string `json:"name"`
}

func (*Variable) Kind() Kind { return KindVariable }

func (n *Variable) MarshalJSON() ([]byte, error) {
	type plain Variable
	return marshalTagged(KindVariable, (*plain)(n))
}

// URL is url(...). Value is a Quoted, a Variable, or an Anonymous.
type URL struct {
	Pos
	Value Node `json:"value"`
}

func (*URL) Kind() Kind { return KindURL }

func (n *URL) MarshalJSON() ([]byte, error) {
	type plain URL
	return marshalTagged(KindURL, (*plain)(n))
}

// UnicodeDescriptor is a unicode-range value like U+0025-00FF.
type UnicodeDescriptor struct {
	Pos
	Value string `json:"value"`
}

func (*UnicodeDescriptor) Kind() Kind { return KindUnicodeDescriptor }

func (n *UnicodeDescriptor) MarshalJSON() ([]byte, error) {
	type plain UnicodeDescriptor
	return marshalTagged(KindUnicodeDescriptor, (*plain)(n))
}

// ScriptExpr is a backtick expression, kept as text for the evaluator.
type ScriptExpr struct {
	Pos
	Expression string `json:"expression"`
	Escaped    bool   `json:"escaped,omitempty"`
}

func (*ScriptExpr) Kind() Kind { return KindScriptExpr }

func (n *ScriptExpr) MarshalJSON() ([]byte, error) {
	type plain ScriptExpr
	return marshalTagged(KindScriptExpr, (*plain)(n))
}

// Alpha is the IE filter alpha(opacity=N).
type Alpha struct {
	Pos
	Value Node `json:"value"`
}

func (*Alpha) Kind() Kind { return KindAlpha }

func (n *Alpha) MarshalJSON() ([]byte, error) {
	type plain Alpha
	return marshalTagged(KindAlpha, (*plain)(n))
}

// Anonymous holds raw source text.
type Anonymous struct {
	Pos
	Value string `json:"value"`
}

func (*Anonymous) Kind() Kind { return KindAnonymous }

func (n *Anonymous) MarshalJSON() ([]byte, error) {
	type plain Anonymous
	return marshalTagged(KindAnonymous, (*plain)(n))
}

// Assignment is key=value inside call arguments.
type Assignment struct {
	Pos
	Key   string `json:"key"`
	Value Node   `json:"value"`
}

func (*Assignment) Kind() Kind { return KindAssignment }

func (n *Assignment) MarshalJSON() ([]byte, error) {
	type plain Assignment
	return marshalTagged(KindAssignment, (*plain)(n))
}

// Comment is a block comment, or a silent // comment.
type Comment struct {
	Pos
	Value  string `json:"value"`
	Silent bool   `json:"silent,omitempty"`
}

func (*Comment) Kind() Kind { return KindComment }

func (n *Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return marshalTagged(KindComment, (*plain)(n))
}
