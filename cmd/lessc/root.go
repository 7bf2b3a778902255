package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/config"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "lessc",
	Short: "lessc - LESS stylesheet parser",
	Long: `lessc parses LESS stylesheets into a syntax tree, following @import
statements, and reports syntax errors with the offending source lines.

It can check whole directories or git revisions, keep the results in a
SQLite datastore, and run as a streaming NDJSON server for editor tooling.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .lessc.yaml, .lessc.yml or .lessc.json next to the target)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Color output: auto, always, never")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// parseFlags are the parser settings shared by parse and check.
type parseFlags struct {
	paths         []string
	compress      bool
	strictImports bool
	lineNumbers   bool
	noImports     bool
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.paths, "include-path", "I", nil, "Import search paths, doublestar globs allowed (repeatable)")
	cmd.Flags().BoolVar(&f.compress, "compress", false, "Read values through the compressed fast path")
	cmd.Flags().BoolVar(&f.strictImports, "strict-imports", false, "Mark rulesets for strict import evaluation")
	cmd.Flags().BoolVar(&f.lineNumbers, "line-numbers", false, "Record source line numbers on every node")
	cmd.Flags().BoolVar(&f.noImports, "no-imports", false, "Do not follow @import statements")
}

// options layers the flags over cfg.
func (f *parseFlags) options(cfg *config.Config, logger lessc.DebugLogger) []lessc.Option {
	opts := []lessc.Option{lessc.WithConfig(cfg), lessc.WithLogger(logger)}
	if len(f.paths) > 0 {
		opts = append(opts, lessc.WithPaths(f.paths...))
	}
	if f.compress {
		opts = append(opts, lessc.WithCompress())
	}
	if f.strictImports {
		opts = append(opts, lessc.WithStrictImports())
	}
	if f.lineNumbers {
		opts = append(opts, lessc.WithDumpLineNumbers())
	}
	if f.noImports {
		opts = append(opts, lessc.WithoutImports())
	}
	return opts
}

// loadConfig reads --config when given, otherwise the config discovered
// in dir. Without either the defaults apply.
func loadConfig(dir string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadDir(dir)
}

// commandContext returns the command's context, which is nil when a run
// function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
