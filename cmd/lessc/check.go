package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/checker"
	"github.com/praetorian-inc/lessc/pkg/config"
	"github.com/praetorian-inc/lessc/pkg/enum"
	"github.com/praetorian-inc/lessc/pkg/imports"
	"github.com/praetorian-inc/lessc/pkg/sarif"
	"github.com/praetorian-inc/lessc/pkg/store"
	"github.com/praetorian-inc/lessc/pkg/types"
)

var (
	checkOpts          parseFlags
	checkOutputPath    string
	checkOutputFormat  string
	checkGit           bool
	checkRevision      string
	checkIncremental   bool
	checkMaxFileSize   int64
	checkIncludeHidden bool
	checkExtensions    []string
	checkInclude       []string
	checkWorkers       int
)

var checkCmd = &cobra.Command{
	Use:   "check <target>",
	Short: "Parse every stylesheet in a directory or git revision",
	Long: `Find the stylesheets under a directory, or in a commit of a git repository,
and parse each one with its imports resolved from the same source. Results are
stored in a SQLite datastore and printed as human, json or sarif output.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkOpts.register(checkCmd)
	checkCmd.Flags().StringVar(&checkOutputPath, "output", "lessc.db", "Output database path")
	checkCmd.Flags().StringVar(&checkOutputFormat, "format", "human", "Output format: human, json, sarif")
	checkCmd.Flags().BoolVar(&checkGit, "git", false, "Treat target as a git repository and check a commit")
	checkCmd.Flags().StringVar(&checkRevision, "revision", "HEAD", "Git revision to check (with --git)")
	checkCmd.Flags().BoolVar(&checkIncremental, "incremental", false, "Skip sources already in the datastore")
	checkCmd.Flags().Int64Var(&checkMaxFileSize, "max-file-size", 0, "Maximum file size to check in bytes (default from config, 10MiB)")
	checkCmd.Flags().BoolVar(&checkIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	checkCmd.Flags().StringSliceVar(&checkExtensions, "ext", nil, "Stylesheet extensions (default from config, .less)")
	checkCmd.Flags().StringSliceVar(&checkInclude, "include", nil, "Only check paths matching these doublestar globs")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 8, "Number of stylesheets parsed concurrently")
}

// checkStats counts one run. Fields are updated from parse workers.
type checkStats struct {
	checked atomic.Int64
	failed  atomic.Int64
	skipped atomic.Int64
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := args[0]

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	switch checkOutputFormat {
	case "human", "json", "sarif":
	default:
		return fmt.Errorf("unknown output format: %s", checkOutputFormat)
	}

	errStyles, err := stylesFor(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger := newLogger(cmd, errStyles)

	configDir := target
	if !info.IsDir() {
		configDir = filepath.Dir(target)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.New(store.Config{Path: checkOutputPath})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	enumerate, opts, err := checkSource(target, cfg, logger)
	if err != nil {
		return err
	}

	p, err := lessc.NewParser(opts...)
	if err != nil {
		return fmt.Errorf("creating parser: %w", err)
	}
	core, err := checker.NewCore(p, checker.WithStore(s), checker.WithLogger(logger), checker.WithoutTrees())
	if err != nil {
		return fmt.Errorf("creating checker: %w", err)
	}

	stats := &checkStats{}
	g, ctx := errgroup.WithContext(commandContext(cmd))
	if checkWorkers > 0 {
		g.SetLimit(checkWorkers)
	}

	enumErr := enumerate(ctx, func(content []byte, id types.SourceID, prov types.Provenance) error {
		if checkIncremental {
			exists, err := s.SourceExists(id)
			if err != nil {
				return fmt.Errorf("checking source: %w", err)
			}
			if exists {
				logger.Log("skipping %s: already checked", prov.Path())
				stats.skipped.Add(1)
				return nil
			}
		}

		g.Go(func() error {
			item := checker.ContentItem{Filename: prov.Path(), Content: string(content)}
			result, err := core.Check(ctx, item, prov)
			if err != nil {
				return fmt.Errorf("checking %s: %w", prov.Path(), err)
			}
			stats.checked.Add(1)
			if !result.OK {
				stats.failed.Add(1)
			}
			return nil
		})
		return nil
	})
	// A failed parse worker cancels ctx, so its error explains the
	// enumeration error.
	if err := g.Wait(); err != nil {
		return fmt.Errorf("checking: %w", err)
	}
	if enumErr != nil {
		return fmt.Errorf("checking: %w", enumErr)
	}

	// Summary goes to stderr for json/sarif to keep stdout machine-readable.
	summary := cmd.OutOrStdout()
	if checkOutputFormat != "human" {
		summary = cmd.ErrOrStderr()
	}
	if !quiet {
		if checkIncremental {
			fmt.Fprintf(summary, "Check complete: %d stylesheets, %d failed (%d skipped)\n",
				stats.checked.Load(), stats.failed.Load(), stats.skipped.Load())
		} else {
			fmt.Fprintf(summary, "Check complete: %d stylesheets, %d failed\n", stats.checked.Load(), stats.failed.Load())
		}
		fmt.Fprintf(summary, "Results stored in: %s\n", checkOutputPath)
	}

	diagnostics, err := s.GetDiagnostics()
	if err != nil {
		return fmt.Errorf("retrieving diagnostics: %w", err)
	}
	if err := outputDiagnostics(cmd, checkOutputFormat, diagnostics); err != nil {
		return err
	}

	if stats.failed.Load() > 0 {
		return errDiagnostics
	}
	return nil
}

type enumerateFunc func(ctx context.Context, callback enum.Callback) error

// checkSource builds the enumerator for target and the parser options that
// resolve imports from the same place: the filesystem, or the tree of the
// commit being checked.
func checkSource(target string, cfg *config.Config, logger lessc.DebugLogger) (enumerateFunc, []lessc.Option, error) {
	ecfg := enum.Config{
		Root:          target,
		IncludeHidden: checkIncludeHidden || cfg.IncludeHidden,
		MaxFileSize:   cfg.MaxFileSize,
		Extensions:    cfg.Extensions,
		Include:       checkInclude,
	}
	if checkMaxFileSize > 0 {
		ecfg.MaxFileSize = checkMaxFileSize
	}
	if len(checkExtensions) > 0 {
		ecfg.Extensions = normalizeExtensions(checkExtensions)
	}

	opts := checkOpts.options(cfg, logger)

	if !checkGit {
		return enum.NewFilesystemEnumerator(ecfg).Enumerate, opts, nil
	}

	ge := enum.NewGitEnumerator(ecfg)
	ge.Revision = checkRevision
	commit, err := ge.Commit()
	if err != nil {
		return nil, nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get tree: %w", err)
	}
	logger.Log("checking %s at %s", target, commit.Hash)

	// Search paths name directories inside the tree.
	paths := append(append([]string(nil), cfg.Paths...), checkOpts.paths...)
	resolver := imports.NewFileResolver(imports.NewGitTreeFS(tree), paths)
	opts = append(opts, lessc.WithResolver(resolver))

	enumerate := func(ctx context.Context, callback enum.Callback) error {
		return ge.EnumerateCommit(ctx, commit, callback)
	}
	return enumerate, opts, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if ext[0] != '.' {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// outputDiagnostics prints diagnostics in the given format.
func outputDiagnostics(cmd *cobra.Command, format string, diagnostics []*types.Diagnostic) error {
	out := cmd.OutOrStdout()

	switch format {
	case "json":
		if diagnostics == nil {
			diagnostics = []*types.Diagnostic{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(diagnostics)

	case "sarif":
		jsonBytes, err := sarif.FromDiagnostics(diagnostics).ToJSON()
		if err != nil {
			return fmt.Errorf("serializing SARIF: %w", err)
		}
		if _, err := out.Write(jsonBytes); err != nil {
			return fmt.Errorf("writing SARIF output: %w", err)
		}
		return nil

	case "human":
		s, err := stylesFor(out)
		if err != nil {
			return err
		}
		if len(diagnostics) == 0 {
			if !quiet {
				fmt.Fprintf(out, "\n%s\n", s.ok.Sprint("No diagnostics."))
			}
			return nil
		}
		for i, d := range diagnostics {
			fmt.Fprintf(out, "\n%s\n", s.heading.Sprintf("Diagnostic %d/%d", i+1, len(diagnostics)))
			printDiagnostic(out, s, d)
		}
		return nil

	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
