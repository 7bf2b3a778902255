package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/lessc/pkg/store"
)

var (
	mergeOutput string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <source1.db> <source2.db> [source3.db...]",
	Short: "Merge multiple lessc databases",
	Long: `Merge multiple lessc datastores into a single output database.

This is useful for combining the results of checking several repositories
or revisions.

Deduplication is automatic - duplicate sources, diagnostics and import
edges are only stored once in the merged database.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "merged.db", "Output database path")
}

func runMerge(cmd *cobra.Command, args []string) error {
	stats, err := store.Merge(store.MergeConfig{
		SourcePaths: args,
		DestPath:    mergeOutput,
	})
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Merge complete:\n")
	fmt.Fprintf(out, "  Databases read: %d\n", stats.DatabasesRead)
	fmt.Fprintf(out, "  Sources merged: %d\n", stats.SourcesMerged)
	fmt.Fprintf(out, "  Provenance merged: %d\n", stats.ProvenanceMerged)
	fmt.Fprintf(out, "  Diagnostics merged: %d\n", stats.DiagnosticsMerged)
	fmt.Fprintf(out, "  Imports merged: %d\n", stats.ImportsMerged)
	fmt.Fprintf(out, "Output: %s\n", mergeOutput)

	return nil
}
