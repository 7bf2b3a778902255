package enum

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/lessc/pkg/types"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// enumerate runs e and returns the yielded paths, relative to root and sorted.
func enumerate(t *testing.T, e Enumerator, root string) []string {
	t.Helper()
	var mu sync.Mutex
	var found []string
	err := e.Enumerate(context.Background(), func(content []byte, id types.SourceID, prov types.Provenance) error {
		assert.Equal(t, types.ComputeSourceID(content), id)
		rel := prov.Path()
		if root != "" {
			var err error
			rel, err = filepath.Rel(root, prov.Path())
			assert.NoError(t, err)
			rel = filepath.ToSlash(rel)
		}
		mu.Lock()
		found = append(found, rel)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	sort.Strings(found)
	return found
}

func TestFilesystemEnumerator(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.less":             ".a { color: red; }",
		"parts/button.less":     ".button { }",
		"parts/deep/mixin.LESS": ".m() { }",
		"notes.txt":             "not a stylesheet",
		"site.css":              "a { }",
	})

	tests := []struct {
		name     string
		config   Config
		expected []string
	}{
		{
			name:     "everything",
			config:   Config{},
			expected: []string{"main.less", "notes.txt", "parts/button.less", "parts/deep/mixin.LESS", "site.css"},
		},
		{
			name:     "extensions",
			config:   Config{Extensions: []string{".less"}},
			expected: []string{"main.less", "parts/button.less", "parts/deep/mixin.LESS"},
		},
		{
			name:     "several extensions",
			config:   Config{Extensions: []string{".less", ".css"}},
			expected: []string{"main.less", "parts/button.less", "parts/deep/mixin.LESS", "site.css"},
		},
		{
			name:     "include globs",
			config:   Config{Extensions: []string{".less"}, Include: []string{"parts/**"}},
			expected: []string{"parts/button.less", "parts/deep/mixin.LESS"},
		},
		{
			name:     "include single level",
			config:   Config{Include: []string{"parts/*.less"}},
			expected: []string{"parts/button.less"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			cfg.Root = dir
			assert.Equal(t, tt.expected, enumerate(t, NewFilesystemEnumerator(cfg), dir))
		})
	}
}

func TestFilesystemEnumerator_Provenance(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.less": "@a: 1;"})

	err := NewFilesystemEnumerator(Config{Root: dir}).Enumerate(context.Background(),
		func(content []byte, id types.SourceID, prov types.Provenance) error {
			assert.Equal(t, "@a: 1;", string(content))
			assert.Equal(t, "file", prov.Kind())
			assert.Equal(t, types.FileProvenance{FilePath: filepath.Join(dir, "a.less")}, prov)
			return nil
		})
	require.NoError(t, err)
}

func TestFilesystemEnumerator_HiddenFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"visible.less":       "",
		".hidden.less":       "",
		".cache/cached.less": "",
	})

	found := enumerate(t, NewFilesystemEnumerator(Config{Root: dir}), dir)
	assert.Equal(t, []string{"visible.less"}, found)

	found = enumerate(t, NewFilesystemEnumerator(Config{Root: dir, IncludeHidden: true}), dir)
	assert.Equal(t, []string{".cache/cached.less", ".hidden.less", "visible.less"}, found)
}

func TestFilesystemEnumerator_MaxFileSize(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"small.less": "@a: 1;",
		"large.less": string(make([]byte, 2000)),
	})

	found := enumerate(t, NewFilesystemEnumerator(Config{Root: dir, MaxFileSize: 1000}), dir)
	assert.Equal(t, []string{"small.less"}, found)
}

func TestFilesystemEnumerator_BinaryFiles(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"text.less":   ".a { }",
		"binary.less": "\x00\x01\x02\x03",
	})

	found := enumerate(t, NewFilesystemEnumerator(Config{Root: dir}), dir)
	assert.Equal(t, []string{"text.less"}, found)
}

func TestFilesystemEnumerator_Gitignore(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".gitignore":    "ignored.less\n*.min.less\n",
		"kept.less":     "",
		"ignored.less":  "",
		"site.min.less": "",
	})

	found := enumerate(t, NewFilesystemEnumerator(Config{Root: dir, Extensions: []string{".less"}}), dir)
	assert.Equal(t, []string{"kept.less"}, found)
}

func TestFilesystemEnumerator_SingleFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"theme.txt": "@a: 1;"})
	file := filepath.Join(dir, "theme.txt")

	found := enumerate(t, NewFilesystemEnumerator(Config{Root: file, Extensions: []string{".less"}}), "")
	assert.Equal(t, []string{file}, found)
}

func TestFilesystemEnumerator_MissingRoot(t *testing.T) {
	e := NewFilesystemEnumerator(Config{Root: filepath.Join(t.TempDir(), "missing")})
	err := e.Enumerate(context.Background(), func([]byte, types.SourceID, types.Provenance) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFilesystemEnumerator_CallbackError(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.less": "", "b.less": "", "c.less": ""})

	stop := errors.New("stop")
	err := NewFilesystemEnumerator(Config{Root: dir}).Enumerate(context.Background(),
		func([]byte, types.SourceID, types.Provenance) error {
			return stop
		})
	assert.ErrorIs(t, err, stop)
}

func TestFilesystemEnumerator_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.less": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFilesystemEnumerator(Config{Root: dir}).Enumerate(ctx,
		func([]byte, types.SourceID, types.Provenance) error {
			return nil
		})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigWants(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		rel      string
		expected bool
	}{
		{name: "no filters", config: Config{}, rel: "a/b.txt", expected: true},
		{name: "extension match", config: Config{Extensions: []string{".less"}}, rel: "a/b.less", expected: true},
		{name: "extension case", config: Config{Extensions: []string{".LESS"}}, rel: "a/b.less", expected: true},
		{name: "extension miss", config: Config{Extensions: []string{".less"}}, rel: "a/b.css", expected: false},
		{name: "no extension", config: Config{Extensions: []string{".less"}}, rel: "Makefile", expected: false},
		{name: "include match", config: Config{Include: []string{"src/**/*.less"}}, rel: "src/x/y.less", expected: true},
		{name: "include miss", config: Config{Include: []string{"src/**/*.less"}}, rel: "test/y.less", expected: false},
		{name: "both", config: Config{Extensions: []string{".css"}, Include: []string{"src/**"}}, rel: "src/y.less", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.wants(tt.rel))
		})
	}
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".git"))
	assert.False(t, isHidden("."))
	assert.False(t, isHidden(".."))
	assert.False(t, isHidden("main.less"))

	assert.True(t, hiddenPath("a/.b/c.less"))
	assert.False(t, hiddenPath("a/b/c.less"))
}
