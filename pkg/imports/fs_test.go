package imports

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/praetorian-inc/lessc/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitTree writes files into a fresh repository, commits them and returns
// the commit's tree.
func commitTree(t *testing.T, files map[string]string) *object.Tree {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	writeFiles(t, dir, files)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	commit, err := repo.CommitObject(hash)
	require.NoError(t, err)
	tree, err := commit.Tree()
	require.NoError(t, err)
	return tree
}

func TestGitTreeFS(t *testing.T) {
	fsys := NewGitTreeFS(commitTree(t, map[string]string{
		"styles/main.less": `@import "../lib/base";`,
		"lib/base.less":    "@base: 1px;",
	}))

	assert.True(t, fsys.Exists("lib/base.less"))
	assert.True(t, fsys.Exists("/lib/base.less"))
	assert.True(t, fsys.Exists("styles/../lib/base.less"))
	assert.False(t, fsys.Exists("lib"))
	assert.False(t, fsys.Exists("lib/missing.less"))

	content, err := fsys.ReadFile("lib/base.less")
	require.NoError(t, err)
	assert.Equal(t, "@base: 1px;", string(content))

	_, err = fsys.ReadFile("lib/missing.less")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.Equal(t, "lib/base.less", fsys.Join("styles", "../lib/base.less"))
	assert.Equal(t, "styles", fsys.Dir("styles/main.less"))
	assert.Equal(t, ".", fsys.Dir("main.less"))
	assert.False(t, fsys.IsAbs("/lib/base.less"))
}

func TestGitTreeFS_Coordinator(t *testing.T) {
	tree := commitTree(t, map[string]string{
		"styles/main.less":  `@import "../lib/base"; @import "theme";`,
		"styles/theme.less": `@import "../lib/base";`,
		"lib/base.less":     "@base: 1px;",
	})
	resolver := NewFileResolver(NewGitTreeFS(tree), nil)

	input := `@import "../lib/base"; @import "theme";`
	file := &ast.FileInfo{Filename: "styles/main.less", CurrentDirectory: "styles"}
	root, err := parseFile(input, file)
	require.NoError(t, err)

	c := New(resolver, parseFile, nil)
	require.NoError(t, c.Run(context.Background(), root, file, input))

	files := c.Files()
	assert.Contains(t, files, "lib/base.less")
	assert.Contains(t, files, "styles/theme.less")

	imps := Collect(root)
	require.Len(t, imps, 2)
	assert.Equal(t, "lib/base.less", imps[0].FullPath)
	assert.Equal(t, "styles/theme.less", imps[1].FullPath)
}
