// Package ast defines the syntax tree produced by the parser. Nodes carry
// only what was read from the source; evaluation and rendering happen
// elsewhere.
package ast

import "encoding/json"

// Kind tags each node type in the tree and in its JSON form.
type Kind string

const (
	KindKeyword           Kind = "Keyword"
	KindColor             Kind = "Color"
	KindDimension         Kind = "Dimension"
	KindQuoted            Kind = "Quoted"
	KindCall              Kind = "Call"
	KindVariable          Kind = "Variable"
	KindURL               Kind = "Url"
	KindUnicodeDescriptor Kind = "UnicodeDescriptor"
	KindScriptExpr        Kind = "ScriptExpr"
	KindAlpha             Kind = "Alpha"
	KindAnonymous         Kind = "Anonymous"
	KindAssignment        Kind = "Assignment"
	KindElement           Kind = "Element"
	KindCombinator        Kind = "Combinator"
	KindSelector          Kind = "Selector"
	KindAttribute         Kind = "Attribute"
	KindParen             Kind = "Paren"
	KindRuleset           Kind = "Ruleset"
	KindRule              Kind = "Rule"
	KindValue             Kind = "Value"
	KindExpression        Kind = "Expression"
	KindOperation         Kind = "Operation"
	KindNegative          Kind = "Negative"
	KindCondition         Kind = "Condition"
	KindMixinCall         Kind = "MixinCall"
	KindMixinDefinition   Kind = "MixinDefinition"
	KindMedia             Kind = "Media"
	KindDirective         Kind = "Directive"
	KindImport            Kind = "Import"
	KindComment           Kind = "Comment"
	KindExtend            Kind = "Extend"
)

// Node is implemented by every tree node.
type Node interface {
	Kind() Kind
	Position() Pos
}

// FileInfo describes the file a node was read from.
type FileInfo struct {
	Filename         string `json:"filename"`
	CurrentDirectory string `json:"currentDirectory"` // base for relative imports
	EntryPath        string `json:"entryPath"`        // directory of the entry file
	RootFilename     string `json:"rootFilename"`     // file the parse started from
}

// DebugInfo is attached to nodes when line numbers are requested.
type DebugInfo struct {
	LineNumber int    `json:"lineNumber"`
	FileName   string `json:"fileName"`
}

// Pos is embedded in every node. Index is a byte offset into the text of
// File, never into a chunk.
type Pos struct {
	Index int        `json:"index"`
	File  *FileInfo  `json:"-"`
	Debug *DebugInfo `json:"debugInfo,omitempty"`
}

// Position returns the node's position.
func (p Pos) Position() Pos {
	return p
}

// Filename returns the name of the file the node came from, or "".
func (p Pos) Filename() string {
	if p.File == nil {
		return ""
	}
	return p.File.Filename
}

// marshalTagged encodes v, which must encode to a JSON object, with a
// leading "type" member.
func marshalTagged(kind Kind, v interface{}) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tag := `{"type":"` + string(kind) + `"`
	if len(body) <= 2 {
		return []byte(tag + "}"), nil
	}
	return append([]byte(tag+","), body[1:]...), nil
}
