package sarif

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/lessc/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	Version   = "2.1.0"
	ToolName  = "lessc"
)

// ToolVersion is reported as the driver version. The CLI sets it from its
// build information.
var ToolVersion = "dev"

// Rule IDs, one per diagnostic kind.
const (
	RuleSyntax = "less/syntax"
	RuleParse  = "less/parse"
	RuleImport = "less/import"
)

// Report is the top-level SARIF report structure
type Report struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one kind of diagnostic
type Rule struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ShortDescription ShortDescription `json:"shortDescription"`
	HelpURI          string           `json:"helpUri,omitempty"`
}

// ShortDescription contains rule description text
type ShortDescription struct {
	Text string `json:"text"`
}

// Result represents a single diagnostic
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message contains the result message
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range
type Region struct {
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Snippet contains the source line
type Snippet struct {
	Text string `json:"text"`
}

// rules are the diagnostic kinds a report can contain.
var rules = []Rule{
	{
		ID:               RuleSyntax,
		Name:             "SyntaxError",
		ShortDescription: ShortDescription{Text: "A required construct is missing inside a rule"},
	},
	{
		ID:               RuleParse,
		Name:             "ParseError",
		ShortDescription: ShortDescription{Text: "Unbalanced braces or unrecognised input"},
	},
	{
		ID:               RuleImport,
		Name:             "FileError",
		ShortDescription: ShortDescription{Text: "An imported file could not be found or read"},
	},
}

// NewReport creates a new SARIF report with initialized structure
func NewReport() *Report {
	driverRules := make([]Rule, len(rules))
	copy(driverRules, rules)

	return &Report{
		Schema:  SchemaURI,
		Version: Version,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   driverRules,
					},
				},
				Results: []Result{},
			},
		},
	}
}

// FromDiagnostics builds a report with one result per diagnostic.
func FromDiagnostics(diags []*types.Diagnostic) *Report {
	r := NewReport()
	for _, d := range diags {
		r.AddDiagnostic(d)
	}
	return r
}

// RuleID returns the rule a diagnostic kind reports under.
func RuleID(kind types.ErrorKind) string {
	switch kind {
	case types.KindSyntax:
		return RuleSyntax
	case types.KindFile:
		return RuleImport
	default:
		return RuleParse
	}
}

// AddDiagnostic adds an error result located in the file the diagnostic
// occurred in. SARIF columns are 1-based.
func (r *Report) AddDiagnostic(d *types.Diagnostic) {
	filename := d.Filename
	if filename == "" {
		filename = d.Path
	}

	line := d.Line
	if line < 1 {
		line = 1
	}
	region := Region{
		StartLine:   line,
		StartColumn: d.Column + 1,
		EndLine:     line,
		EndColumn:   d.Column + 2,
	}
	if text := d.ErrorLine(); text != "" {
		region.Snippet = &Snippet{Text: text}
	}

	result := Result{
		RuleID: RuleID(d.Kind),
		Level:  "error",
		Message: Message{
			Text: d.Message,
		},
		Locations: []Location{
			{
				PhysicalLocation: PhysicalLocation{
					ArtifactLocation: ArtifactLocation{
						URI: formatFileURI(filename),
					},
					Region: region,
				},
			},
		},
	}

	r.Runs[0].Results = append(r.Runs[0].Results, result)
}

// ToJSON serializes the report to JSON bytes
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
