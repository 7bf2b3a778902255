package imports

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/praetorian-inc/lessc/pkg/types"
)

// Resolver locates and loads imported stylesheets. Resolve should be
// cheap; Load does the I/O and is called once per full path.
type Resolver interface {
	// Resolve maps an @import path, as written in the file described by
	// from, to a full path. It returns an error wrapping
	// types.ErrImportNotFound when no candidate exists.
	Resolve(importPath string, from *ast.FileInfo) (string, error)
	// Load returns the contents of a resolved file.
	Load(ctx context.Context, fullPath string) (string, error)
}

// FileResolver resolves imports against the importing file's directory and
// then each search path in order.
type FileResolver struct {
	FS    FileSystem
	Paths []string
}

// NewFileResolver returns a resolver over fsys. A nil fsys reads from disk.
func NewFileResolver(fsys FileSystem, paths []string) *FileResolver {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &FileResolver{FS: fsys, Paths: paths}
}

// Resolve implements Resolver. A path without an extension gets ".less".
func (r *FileResolver) Resolve(importPath string, from *ast.FileInfo) (string, error) {
	name := importPath
	if path.Ext(filepath.ToSlash(name)) == "" {
		name += ".less"
	}

	if r.FS.IsAbs(name) {
		if r.FS.Exists(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", types.ErrImportNotFound, name)
	}

	dirs := make([]string, 0, len(r.Paths)+1)
	if from != nil {
		dirs = append(dirs, from.CurrentDirectory)
	} else {
		dirs = append(dirs, "")
	}
	dirs = append(dirs, r.Paths...)

	for _, dir := range dirs {
		candidate := r.FS.Join(dir, name)
		if r.FS.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", types.ErrImportNotFound, name, strings.Join(quoteDirs(dirs), ", "))
}

// Load implements Resolver.
func (r *FileResolver) Load(ctx context.Context, fullPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := r.FS.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", fullPath, err)
	}
	return string(content), nil
}

// Dir returns the directory of a resolved file.
func (r *FileResolver) Dir(fullPath string) string {
	return r.FS.Dir(fullPath)
}

func quoteDirs(dirs []string) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		if d == "" {
			d = "."
		}
		out[i] = fmt.Sprintf("%q", d)
	}
	return out
}

// ExpandPaths turns search path patterns into directories. Plain entries
// are kept as given; entries with glob syntax such as "vendor/**/less" are
// replaced by the directories they match, in lexical order.
func ExpandPaths(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			add(pattern)
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid search path pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				add(m)
			}
		}
	}
	return out, nil
}
