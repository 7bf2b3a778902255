package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/checker"
	"github.com/praetorian-inc/lessc/pkg/serve"
)

var servePaths []string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming server for editor integration",
	Long: `Run lessc as a long-lived streaming server that accepts parse requests
via stdin and writes syntax trees or diagnostics to stdout using NDJSON format.

Imports are not followed unless --include-path is given, since requests
carry content rather than files. The process runs until stdin closes, a
close request arrives, or SIGTERM/SIGINT is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringSliceVarP(&servePaths, "include-path", "I", nil, "Follow imports, searching these paths")
}

func runServe(cmd *cobra.Command, args []string) error {
	errStyles, err := stylesFor(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger := newLogger(cmd, errStyles)

	opts := []lessc.Option{lessc.WithLogger(logger)}
	if len(servePaths) > 0 {
		opts = append(opts, lessc.WithPaths(servePaths...))
	} else {
		opts = append(opts, lessc.WithoutImports())
	}
	p, err := lessc.NewParser(opts...)
	if err != nil {
		return fmt.Errorf("creating parser: %w", err)
	}

	// Requests get their results back directly; nothing is recorded.
	core, err := checker.NewCore(p, checker.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
