package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/lessc/pkg/sarif"
	"github.com/praetorian-inc/lessc/pkg/store"
	"github.com/praetorian-inc/lessc/pkg/types"
)

var (
	reportDatastore string
	reportFormat    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from check results",
	Long:  "Read sources, diagnostics and the import graph from a datastore and output a report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "lessc.db", "Path to datastore file")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
}

// reportSource is the JSON form of a stored source.
type reportSource struct {
	ID    types.SourceID `json:"id"`
	Size  int64          `json:"size"`
	Paths []string       `json:"paths"`
}

// reportJSON is the document written by --format json.
type reportJSON struct {
	Sources     []reportSource      `json:"sources"`
	Diagnostics []*types.Diagnostic `json:"diagnostics"`
	Imports     []store.Import      `json:"imports"`
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatastore == ":memory:" {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(reportDatastore); err != nil {
		return fmt.Errorf("datastore not found: %s", reportDatastore)
	}

	s, err := store.New(store.Config{Path: reportDatastore})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	sources, err := s.GetSources()
	if err != nil {
		return fmt.Errorf("retrieving sources: %w", err)
	}
	diagnostics, err := s.GetDiagnostics()
	if err != nil {
		return fmt.Errorf("retrieving diagnostics: %w", err)
	}
	imports, err := s.GetImports()
	if err != nil {
		return fmt.Errorf("retrieving imports: %w", err)
	}

	switch reportFormat {
	case "json":
		return outputReportJSON(cmd, sources, diagnostics, imports)
	case "human":
		return outputReportHuman(cmd, sources, diagnostics, imports)
	case "sarif":
		jsonBytes, err := sarif.FromDiagnostics(diagnostics).ToJSON()
		if err != nil {
			return fmt.Errorf("serializing SARIF: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(jsonBytes)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

func outputReportJSON(cmd *cobra.Command, sources []*store.Source, diagnostics []*types.Diagnostic, imports []store.Import) error {
	doc := reportJSON{
		Sources:     make([]reportSource, 0, len(sources)),
		Diagnostics: diagnostics,
		Imports:     imports,
	}
	for _, src := range sources {
		doc.Sources = append(doc.Sources, reportSource{ID: src.ID, Size: src.Size, Paths: src.Paths()})
	}
	if doc.Diagnostics == nil {
		doc.Diagnostics = []*types.Diagnostic{}
	}
	if doc.Imports == nil {
		doc.Imports = []store.Import{}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func outputReportHuman(cmd *cobra.Command, sources []*store.Source, diagnostics []*types.Diagnostic, imports []store.Import) error {
	out := cmd.OutOrStdout()
	s, err := stylesFor(out)
	if err != nil {
		return err
	}

	failing := make(map[types.SourceID]bool)
	for _, d := range diagnostics {
		failing[d.SourceID] = true
	}

	fmt.Fprintf(out, "%s %d (%d with diagnostics)\n", s.heading.Sprint("Sources:"), len(sources), len(failing))
	for _, src := range sources {
		status := s.ok.Sprint("ok  ")
		if failing[src.ID] {
			status = s.kind.Sprint("fail")
		}
		for _, path := range src.Paths() {
			fmt.Fprintf(out, "  %s %s %s\n", status, s.path.Sprint(path), s.dim.Sprint(src.ID.Hex()[:12]))
		}
	}

	if len(imports) > 0 {
		fmt.Fprintf(out, "\n%s %d\n", s.heading.Sprint("Imports:"), len(imports))
		for _, imp := range imports {
			fmt.Fprintf(out, "  %s -> %s\n", imp.From, s.path.Sprint(imp.To))
		}
	}

	for i, d := range diagnostics {
		fmt.Fprintf(out, "\n%s\n", s.heading.Sprintf("Diagnostic %d/%d", i+1, len(diagnostics)))
		printDiagnostic(out, s, d)
	}
	return nil
}
