package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/praetorian-inc/lessc"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// errDiagnostics is returned once failing stylesheets have been reported,
// so main exits non-zero without printing them again.
var errDiagnostics = errors.New("stylesheets failed to parse")

// styles holds color formatters for diagnostics and reports.
type styles struct {
	heading *color.Color
	kind    *color.Color
	path    *color.Color
	gutter  *color.Color
	marker  *color.Color
	ok      *color.Color
	dim     *color.Color
}

// newStyles creates color formatters. enabled=false respects --color never
// and NO_COLOR.
func newStyles(enabled bool) *styles {
	s := &styles{
		heading: color.New(color.Bold),
		kind:    color.New(color.Bold, color.FgHiRed),
		path:    color.New(color.FgHiBlue),
		gutter:  color.New(color.FgHiBlack),
		marker:  color.New(color.Bold, color.FgYellow),
		ok:      color.New(color.FgHiGreen),
		dim:     color.New(color.Faint),
	}

	for _, c := range []*color.Color{s.heading, s.kind, s.path, s.gutter, s.marker, s.ok, s.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

// colorEnabled resolves a --color mode for output written to w.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if os.Getenv("NO_COLOR") != "" {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("unknown color mode: %s (want auto, always or never)", mode)
	}
}

// stylesFor returns the styles for output written to w.
func stylesFor(w io.Writer) (*styles, error) {
	enabled, err := colorEnabled(colorMode, w)
	if err != nil {
		return nil, err
	}
	return newStyles(enabled), nil
}

// stderrLogger prints --verbose progress. Import loading logs from several
// goroutines.
type stderrLogger struct {
	mu  sync.Mutex
	w   io.Writer
	dim *color.Color
}

func (l *stderrLogger) Log(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dim.Fprintf(l.w, format+"\n", args...)
}

// newLogger returns a stderr logger under --verbose and a no-op otherwise.
func newLogger(cmd *cobra.Command, s *styles) lessc.DebugLogger {
	if !verbose || quiet {
		return types.NoopLogger{}
	}
	return &stderrLogger{w: cmd.ErrOrStderr(), dim: s.dim}
}

// printDiagnostic writes d in the compiler's format followed by the
// numbered source lines around it and a caret under the column.
func printDiagnostic(w io.Writer, s *styles, d *types.Diagnostic) {
	fmt.Fprintf(w, "%s %s", s.kind.Sprintf("%sError:", d.Kind), d.Message)
	if d.Filename != "" {
		fmt.Fprintf(w, " in %s", s.path.Sprint(d.Filename))
	}
	fmt.Fprintf(w, " on line %d, column %d:\n", d.Line, d.Column)
	if d.Path != "" && d.Path != d.Filename {
		fmt.Fprintf(w, "  %s %s\n", s.dim.Sprint("imported from"), s.path.Sprint(d.Path))
	}

	if len(d.Extract) != 3 {
		return
	}
	width := len(strconv.Itoa(d.Line + 1))
	line := func(n int, text string) {
		fmt.Fprintf(w, "%s %s\n", s.gutter.Sprintf("%*d |", width, n), text)
	}

	if d.Line > 1 {
		line(d.Line-1, d.Extract[0])
	}
	line(d.Line, d.Extract[1])
	fmt.Fprintf(w, "%s %s%s\n", s.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", d.Column), s.marker.Sprint("^"))
	if d.Extract[2] != "" {
		line(d.Line+1, d.Extract[2])
	}
}
