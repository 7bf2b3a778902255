package checker

import (
	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/imports"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// ContentItem is one stylesheet to check.
type ContentItem struct {
	Filename string `json:"filename"` // names the input in diagnostics; base for relative imports
	Content  string `json:"content"`
}

// CheckResult is the outcome of checking one stylesheet.
type CheckResult struct {
	Filename   string            `json:"filename"`
	SourceID   types.SourceID    `json:"sourceId"`
	OK         bool              `json:"ok"`
	Root       *ast.Ruleset      `json:"root,omitempty"`
	Imports    []imports.Record  `json:"imports,omitempty"`
	Diagnostic *types.Diagnostic `json:"diagnostic,omitempty"`
}

// BatchResult holds the results of a batch, in input order.
type BatchResult struct {
	Results []CheckResult `json:"results"`
	Failed  int           `json:"failed"`
}
