package imports

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// FileSystem is the read side of a source tree that imports resolve
// against.
type FileSystem interface {
	Exists(name string) bool
	ReadFile(name string) ([]byte, error)
	Join(elem ...string) string
	IsAbs(name string) bool
	Dir(name string) string
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Exists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OSFileSystem) Join(elem ...string) string {
	return filepath.Join(elem...)
}

func (OSFileSystem) IsAbs(name string) bool {
	return filepath.IsAbs(name)
}

func (OSFileSystem) Dir(name string) string {
	return filepath.Dir(name)
}

// GitTreeFS reads files from a committed git tree. Names are
// slash-separated and relative to the repository root.
type GitTreeFS struct {
	tree *object.Tree
}

// NewGitTreeFS wraps tree.
func NewGitTreeFS(tree *object.Tree) *GitTreeFS {
	return &GitTreeFS{tree: tree}
}

func (g *GitTreeFS) Exists(name string) bool {
	_, err := g.tree.File(g.clean(name))
	return err == nil
}

func (g *GitTreeFS) ReadFile(name string) ([]byte, error) {
	f, err := g.tree.File(g.clean(name))
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%s: %w", name, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	content, err := f.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return []byte(content), nil
}

func (g *GitTreeFS) Join(elem ...string) string {
	return g.clean(path.Join(elem...))
}

// IsAbs reports false for every name: a tree has no absolute paths and a
// leading slash is read as the repository root.
func (g *GitTreeFS) IsAbs(name string) bool {
	return false
}

func (g *GitTreeFS) Dir(name string) string {
	return path.Dir(g.clean(name))
}

func (g *GitTreeFS) clean(name string) string {
	name = path.Clean("/" + filepath.ToSlash(name))
	return strings.TrimPrefix(name, "/")
}
