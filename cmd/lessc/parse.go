package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/types"
)

var (
	parseOpts   parseFlags
	parseFormat string
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a stylesheet and print its syntax tree",
	Long: `Parse a LESS file, following its @import statements, and print the
syntax tree as JSON or a one-line summary. Syntax errors are printed with the
surrounding source lines and the command exits with status 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseOpts.register(parseCmd)
	parseCmd.Flags().StringVar(&parseFormat, "format", "human", "Output format: json, human")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	if parseFormat != "json" && parseFormat != "human" {
		return fmt.Errorf("unknown output format: %s", parseFormat)
	}

	errStyles, err := stylesFor(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	outStyles, err := stylesFor(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	p, err := lessc.NewParser(parseOpts.options(cfg, newLogger(cmd, errStyles))...)
	if err != nil {
		return fmt.Errorf("creating parser: %w", err)
	}

	result, err := p.ParseFile(commandContext(cmd), path)
	if err != nil {
		var parseErr *types.ParseError
		var importErr *types.ImportError
		if !errors.As(err, &parseErr) && !errors.As(err, &importErr) {
			return err
		}
		printDiagnostic(cmd.ErrOrStderr(), errStyles, types.NewDiagnostic(path, types.SourceID{}, err))
		return errDiagnostics
	}

	if parseFormat == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result.Root)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d rules, %d imports\n",
			outStyles.ok.Sprint("ok"), path, len(result.Root.Rules), len(result.Imports))
	}
	return nil
}
