package types

import "errors"

// Diagnostic is a stored, flattened view of a parse failure for one source.
type Diagnostic struct {
	SourceID SourceID  `json:"sourceId"`
	Path     string    `json:"path"`     // source that was checked
	Filename string    `json:"filename"` // file the error occurred in, possibly an import
	Kind     ErrorKind `json:"kind"`
	Message  string    `json:"message"`
	Index    int       `json:"index"`
	Line     int       `json:"line"`
	Column   int       `json:"column"`
	Extract  []string  `json:"extract,omitempty"`
}

// NewDiagnostic converts err into a Diagnostic for the source at path.
// Errors other than ParseError and ImportError keep only their message.
func NewDiagnostic(path string, id SourceID, err error) *Diagnostic {
	d := &Diagnostic{
		SourceID: id,
		Path:     path,
		Filename: path,
		Kind:     KindParse,
		Message:  err.Error(),
	}

	var parseErr *ParseError
	var importErr *ImportError
	switch {
	case errors.As(err, &parseErr):
		d.Kind = parseErr.Kind
		d.Message = parseErr.Message
		if parseErr.Filename != "" {
			d.Filename = parseErr.Filename
		}
		d.Index = parseErr.Index
		d.Line = parseErr.Line
		d.Column = parseErr.Column
		d.Extract = parseErr.Extract
	case errors.As(err, &importErr):
		d.Kind = KindFile
		d.Message = "'" + importErr.Path + "': " + importErr.Err.Error()
		if importErr.Filename != "" {
			d.Filename = importErr.Filename
		}
		d.Index = importErr.Index
		d.Line = importErr.Line
		d.Column = importErr.Column
		d.Extract = importErr.Extract
	}
	return d
}

// ErrorLine returns the extract line the diagnostic points at.
func (d *Diagnostic) ErrorLine() string {
	if len(d.Extract) < 2 {
		return ""
	}
	return d.Extract[1]
}
