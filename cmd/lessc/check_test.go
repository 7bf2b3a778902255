package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/lessc/pkg/store"
)

func resetCheckFlags(db string) {
	checkOpts = parseFlags{}
	checkOutputPath = db
	checkOutputFormat = "human"
	checkGit = false
	checkRevision = "HEAD"
	checkIncremental = false
	checkMaxFileSize = 0
	checkIncludeHidden = false
	checkExtensions = nil
	checkInclude = nil
	checkWorkers = 4
	configPath = ""
	colorMode = "never"
	verbose, quiet = false, false
}

// checkFixture has two good stylesheets, one importing the other, and one
// that fails to parse.
func checkFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.less":     ".a { color: red; }\n",
		"b.less":     ".b {\n  width: 1px;\n  height: 2px;\n",
		"notes.txt":  "not a stylesheet",
		"sub/c.less": "@import \"../a\";\n.c { }\n",
	})
	return dir
}

func TestRunCheck(t *testing.T) {
	dir := checkFixture(t)
	db := filepath.Join(t.TempDir(), "check.db")
	resetCheckFlags(db)

	cmd, out, _ := newTestCmd()
	err := runCheck(cmd, []string{dir})
	assert.ErrorIs(t, err, errDiagnostics)

	output := out.String()
	assert.Contains(t, output, "Check complete: 3 stylesheets, 1 failed\n")
	assert.Contains(t, output, "Results stored in: "+db)
	assert.Contains(t, output, "Diagnostic 1/1")
	assert.Contains(t, output, "ParseError: missing closing `}` in "+filepath.Join(dir, "b.less"))

	s, err := store.New(store.Config{Path: db})
	require.NoError(t, err)
	defer s.Close()

	sources, err := s.GetSources()
	require.NoError(t, err)
	assert.Len(t, sources, 3)

	imports, err := s.GetImports()
	require.NoError(t, err)
	assert.Equal(t, []store.Import{{
		From: filepath.Join(dir, "sub", "c.less"),
		To:   filepath.Join(dir, "a.less"),
	}}, imports)
}

func TestRunCheck_Formats(t *testing.T) {
	dir := checkFixture(t)

	t.Run("json", func(t *testing.T) {
		resetCheckFlags(filepath.Join(t.TempDir(), "check.db"))
		checkOutputFormat = "json"
		cmd, out, errOut := newTestCmd()

		assert.ErrorIs(t, runCheck(cmd, []string{dir}), errDiagnostics)
		assert.Contains(t, errOut.String(), "Check complete: 3 stylesheets, 1 failed")

		var diagnostics []map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &diagnostics))
		require.Len(t, diagnostics, 1)
		assert.Equal(t, "Parse", diagnostics[0]["kind"])
		assert.Equal(t, filepath.Join(dir, "b.less"), diagnostics[0]["path"])
	})

	t.Run("sarif", func(t *testing.T) {
		resetCheckFlags(filepath.Join(t.TempDir(), "check.db"))
		checkOutputFormat = "sarif"
		cmd, out, _ := newTestCmd()

		assert.ErrorIs(t, runCheck(cmd, []string{dir}), errDiagnostics)

		var report map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &report))
		assert.Equal(t, "2.1.0", report["version"])
		results := report["runs"].([]interface{})[0].(map[string]interface{})["results"].([]interface{})
		require.Len(t, results, 1)
		assert.Equal(t, "less/parse", results[0].(map[string]interface{})["ruleId"])
	})

	t.Run("unknown", func(t *testing.T) {
		resetCheckFlags(":memory:")
		checkOutputFormat = "xml"
		cmd, _, _ := newTestCmd()

		err := runCheck(cmd, []string{dir})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})
}

func TestRunCheck_Clean(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.less": "@w: 1px;\n.a { width: @w; }\n"})
	resetCheckFlags(":memory:")

	cmd, out, _ := newTestCmd()
	require.NoError(t, runCheck(cmd, []string{dir}))
	assert.Contains(t, out.String(), "Check complete: 1 stylesheets, 0 failed")
	assert.Contains(t, out.String(), "No diagnostics.")
}

func TestRunCheck_Incremental(t *testing.T) {
	dir := checkFixture(t)
	db := filepath.Join(t.TempDir(), "check.db")

	resetCheckFlags(db)
	cmd, _, _ := newTestCmd()
	assert.ErrorIs(t, runCheck(cmd, []string{dir}), errDiagnostics)

	resetCheckFlags(db)
	checkIncremental = true
	cmd, out, _ := newTestCmd()
	require.NoError(t, runCheck(cmd, []string{dir}))
	assert.Contains(t, out.String(), "Check complete: 0 stylesheets, 0 failed (3 skipped)")
	// Earlier diagnostics are still reported from the datastore.
	assert.Contains(t, out.String(), "Diagnostic 1/1")
}

func TestRunCheck_Filters(t *testing.T) {
	dir := checkFixture(t)

	tests := []struct {
		name     string
		setup    func()
		expected string
	}{
		{
			name:     "extensions",
			setup:    func() { checkExtensions = []string{"txt"} },
			expected: "Check complete: 1 stylesheets, 1 failed",
		},
		{
			name:     "include",
			setup:    func() { checkInclude = []string{"sub/**"} },
			expected: "Check complete: 1 stylesheets, 0 failed",
		},
		{
			name:     "max file size",
			setup:    func() { checkMaxFileSize = 20 },
			expected: "Check complete: 1 stylesheets, 0 failed",
		},
		{
			name:     "config extensions",
			setup:    func() { writeFiles(t, dir, map[string]string{".lessc.yaml": "extensions: [txt, less]\n"}) },
			expected: "Check complete: 4 stylesheets, 2 failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCheckFlags(":memory:")
			tt.setup()
			cmd, out, _ := newTestCmd()

			_ = runCheck(cmd, []string{dir})
			assert.Contains(t, out.String(), tt.expected)
		})
	}
}

func TestRunCheck_InvalidTarget(t *testing.T) {
	resetCheckFlags(":memory:")
	cmd, _, _ := newTestCmd()

	err := runCheck(cmd, []string{"/nonexistent/path"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target does not exist")
}

func TestRunCheck_Git(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	writeFiles(t, dir, map[string]string{
		"styles/main.less": "@import \"../lib/base\";\n.main { }\n",
		"lib/base.less":    "@base: 1px;\n",
	})
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	// Uncommitted changes are not part of the revision.
	writeFiles(t, dir, map[string]string{"lib/base.less": "@base: {\n"})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.less"), []byte("}"), 0644))

	db := filepath.Join(t.TempDir(), "git.db")
	resetCheckFlags(db)
	checkGit = true
	checkOutputFormat = "json"
	cmd, out, errOut := newTestCmd()

	require.NoError(t, runCheck(cmd, []string{dir}))
	assert.Contains(t, errOut.String(), "Check complete: 2 stylesheets, 0 failed")
	assert.JSONEq(t, "[]", out.String())

	s, err := store.New(store.Config{Path: db})
	require.NoError(t, err)
	defer s.Close()

	imports, err := s.GetImports()
	require.NoError(t, err)
	assert.Equal(t, []store.Import{{From: "styles/main.less", To: "lib/base.less"}}, imports)

	sources, err := s.GetSources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	for _, src := range sources {
		require.Len(t, src.Provenance, 1)
		assert.Equal(t, "git", src.Provenance[0].Kind())
	}
}

func TestRunCheck_GitBadRevision(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	resetCheckFlags(":memory:")
	checkGit = true
	checkRevision = "main"
	cmd, _, _ := newTestCmd()

	err = runCheck(cmd, []string{dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to resolve revision main")
}
