package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fatal parse failures.
type ErrorKind string

const (
	// KindSyntax marks a required construct missing in the middle of a rule.
	KindSyntax ErrorKind = "Syntax"
	// KindParse marks structural failures: unbalanced braces or unrecognised input.
	KindParse ErrorKind = "Parse"
	// KindFile marks an import that could not be located or read.
	KindFile ErrorKind = "File"
)

// ErrImportNotFound is wrapped by ImportError when no candidate path exists.
var ErrImportNotFound = errors.New("file not found")

// ParseError is the error surfaced for a failed parse unit.
type ParseError struct {
	Kind     ErrorKind `json:"type"`
	Message  string    `json:"message"`
	Filename string    `json:"filename"`
	Index    int       `json:"index"`
	Line     int       `json:"line"`   // 1-indexed
	Column   int       `json:"column"` // 0-indexed
	Extract  []string  `json:"extract"`

	// Set when the error belongs to an invocation rather than a definition.
	CallLine    int    `json:"callLine,omitempty"`
	CallExtract string `json:"callExtract,omitempty"`
}

// NewParseError builds a ParseError, deriving line, column and the
// surrounding lines from content.
func NewParseError(kind ErrorKind, message, filename, content string, index int) *ParseError {
	line, column := ComputeLineColumn(content, index)
	return &ParseError{
		Kind:     kind,
		Message:  message,
		Filename: filename,
		Index:    index,
		Line:     line,
		Column:   column,
		Extract:  ExtractLines(content, line),
	}
}

// WithCall records the call site at callIndex and returns e.
func (e *ParseError) WithCall(content string, callIndex int) *ParseError {
	line, _ := ComputeLineColumn(content, callIndex)
	e.CallLine = line
	e.CallExtract = LineAt(content, line)
	return e
}

func (e *ParseError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%sError: %s on line %d, column %d", e.Kind, e.Message, e.Line, e.Column)
	}
	return fmt.Sprintf("%sError: %s in %s on line %d, column %d", e.Kind, e.Message, e.Filename, e.Line, e.Column)
}

// ImportError reports an @import that could not be resolved or loaded.
// Position fields locate the @import statement in the importing file.
type ImportError struct {
	Path     string   `json:"path"`
	Filename string   `json:"filename"`
	Index    int      `json:"index"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Extract  []string `json:"extract,omitempty"`
	Err      error    `json:"-"`
}

// NewImportError locates the failing @import inside content.
func NewImportError(path, filename, content string, index int, err error) *ImportError {
	line, column := ComputeLineColumn(content, index)
	return &ImportError{
		Path:     path,
		Filename: filename,
		Index:    index,
		Line:     line,
		Column:   column,
		Extract:  ExtractLines(content, line),
		Err:      err,
	}
}

func (e *ImportError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("FileError: '%s': %v", e.Path, e.Err)
	}
	return fmt.Sprintf("FileError: '%s': %v in %s on line %d, column %d", e.Path, e.Err, e.Filename, e.Line, e.Column)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
