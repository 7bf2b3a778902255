package matcher

import (
	"fmt"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// MatchTimeout bounds a single backtracking match.
const MatchTimeout = 5 * time.Second

// Pattern is a compiled token pattern. Patterns are anchored with a leading
// "^" and are always applied to the start of the text they are given.
//
// Patterns compile with the standard RE2 engine when possible. Expressions
// that need lookahead fall back to regexp2 in ECMAScript mode so that \w, \d
// and \s keep their ASCII meaning.
type Pattern struct {
	expr string
	re   *regexp.Regexp
	re2  *regexp2.Regexp
}

// Compile compiles expr into a Pattern.
func Compile(expr string) (*Pattern, error) {
	p := &Pattern{expr: expr}

	re, err := regexp.Compile(expr)
	if err == nil {
		p.re = re
		return p, nil
	}

	// Fallback to the backtracking engine for lookahead
	re2, err2 := regexp2.Compile(expr, regexp2.ECMAScript)
	if err2 != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", expr, err2)
	}
	re2.MatchTimeout = MatchTimeout
	p.re2 = re2
	return p, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level pattern tables.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}

// Backtracking reports whether the pattern runs on regexp2.
func (p *Pattern) Backtracking() bool {
	return p.re2 != nil
}

// FindPrefix matches the pattern at the start of s. It returns nil when the
// pattern does not match there. Otherwise element 0 is the full match and
// elements 1..n are the capture groups, with "" for groups that did not
// participate. The only error is a regexp2 match timeout.
func (p *Pattern) FindPrefix(s string) ([]string, error) {
	if p.re != nil {
		loc := p.re.FindStringSubmatchIndex(s)
		if loc == nil || loc[0] != 0 {
			return nil, nil
		}
		groups := make([]string, len(loc)/2)
		for k := range groups {
			if loc[2*k] >= 0 {
				groups[k] = s[loc[2*k]:loc[2*k+1]]
			}
		}
		return groups, nil
	}

	m, err := p.re2.FindStringMatch(s)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", p.expr, err)
	}
	if m == nil || m.Index != 0 {
		return nil, nil
	}
	matchGroups := m.Groups()
	groups := make([]string, len(matchGroups))
	for k, group := range matchGroups {
		if len(group.Captures) > 0 {
			groups[k] = group.String()
		}
	}
	return groups, nil
}

// MatchString reports whether the pattern matches at the start of s.
// Timeouts count as a miss.
func (p *Pattern) MatchString(s string) bool {
	groups, err := p.FindPrefix(s)
	return err == nil && groups != nil
}
