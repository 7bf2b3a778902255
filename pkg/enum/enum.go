// Package enum discovers stylesheets to check, either on disk or in the
// tree of a git commit.
package enum

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/praetorian-inc/lessc/pkg/types"
)

// Callback receives one stylesheet. It may be called from several
// goroutines at once.
type Callback func(content []byte, id types.SourceID, prov types.Provenance) error

// Enumerator discovers stylesheets from a source.
type Enumerator interface {
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is the starting path for enumeration.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extensions lists the file extensions to yield, with leading dots.
	// Empty yields every text file.
	Extensions []string

	// Include restricts enumeration to slash-separated paths, relative to
	// Root, that match one of these doublestar patterns.
	Include []string
}

// wants reports whether the file at the slash-separated path rel passes the
// extension and include filters.
func (c Config) wants(rel string) bool {
	if len(c.Extensions) > 0 {
		ext := strings.ToLower(path.Ext(rel))
		found := false
		for _, want := range c.Extensions {
			if strings.ToLower(want) == ext {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(c.Include) == 0 {
		return true
	}
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// hiddenPath reports whether any segment of a slash-separated path is hidden.
func hiddenPath(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if isHidden(seg) {
			return true
		}
	}
	return false
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// isBinary detects if content is binary by checking first 8KB for null bytes.
func isBinary(content []byte) bool {
	checkSize := len(content)
	if checkSize > 8192 {
		checkSize = 8192
	}
	return bytes.IndexByte(content[:checkSize], 0) != -1
}
