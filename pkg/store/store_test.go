//go:build !wasm

package store

import (
	"path/filepath"
	"testing"

	"github.com/praetorian-inc/lessc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Interface(t *testing.T) {
	var _ Store = (*SQLiteStore)(nil)
	var _ Store = (*MemoryStore)(nil)
}

// backends returns a fresh store of every kind.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "lessc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sqlite,
	}
}

func sampleDiagnostic(id types.SourceID, path string) *types.Diagnostic {
	return &types.Diagnostic{
		SourceID: id,
		Path:     path,
		Filename: path,
		Kind:     types.KindSyntax,
		Message:  "expected ')' got ';'",
		Index:    12,
		Line:     2,
		Column:   4,
		Extract:  []string{".a {", "  .m(;", "}"},
	}
}

func TestStore_Sources(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			a := types.ComputeSourceID([]byte(".a { }"))
			b := types.ComputeSourceID([]byte(".b { }"))

			exists, err := s.SourceExists(a)
			require.NoError(t, err)
			assert.False(t, exists)

			require.NoError(t, s.AddSource(a, types.FileProvenance{FilePath: "a.less"}, 6))
			require.NoError(t, s.AddSource(a, types.FileProvenance{FilePath: "copy/a.less"}, 6))
			require.NoError(t, s.AddSource(a, types.FileProvenance{FilePath: "a.less"}, 6))
			git := types.GitProvenance{RepoPath: "/repo", CommitID: "abc123", BlobPath: "styles/b.less"}
			require.NoError(t, s.AddSource(b, git, 6))

			exists, err = s.SourceExists(a)
			require.NoError(t, err)
			assert.True(t, exists)

			sources, err := s.GetSources()
			require.NoError(t, err)
			require.Len(t, sources, 2)

			byID := map[types.SourceID]*Source{}
			for _, src := range sources {
				byID[src.ID] = src
			}
			assert.Equal(t, int64(6), byID[a].Size)
			assert.Equal(t, []string{"a.less", "copy/a.less"}, byID[a].Paths())
			require.Len(t, byID[b].Provenance, 1)
			assert.Equal(t, git, byID[b].Provenance[0])
			assert.True(t, sources[0].ID.Hex() < sources[1].ID.Hex())
		})
	}
}

func TestStore_SourceWithoutProvenance(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := types.ComputeSourceID([]byte("x"))
			require.NoError(t, s.AddSource(id, nil, 1))

			sources, err := s.GetSources()
			require.NoError(t, err)
			require.Len(t, sources, 1)
			assert.Empty(t, sources[0].Provenance)
		})
	}
}

func TestStore_Diagnostics(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			id := types.ComputeSourceID([]byte(".a {\n  .m(;\n}"))
			first := sampleDiagnostic(id, "a.less")
			second := sampleDiagnostic(id, "b.less")
			second.Kind = types.KindFile
			second.Extract = nil

			require.NoError(t, s.AddDiagnostic(first))
			require.NoError(t, s.AddDiagnostic(second))
			require.NoError(t, s.AddDiagnostic(sampleDiagnostic(id, "a.less")))

			diags, err := s.GetDiagnostics()
			require.NoError(t, err)
			require.Len(t, diags, 2)
			assert.Equal(t, first, diags[0])
			assert.Equal(t, "b.less", diags[1].Path)
			assert.Equal(t, types.KindFile, diags[1].Kind)
			assert.Empty(t, diags[1].Extract)
			assert.Equal(t, "  .m(;", diags[0].ErrorLine())
		})
	}
}

func TestStore_Imports(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.AddImport("main.less", "vars.less"))
			require.NoError(t, s.AddImport("a.less", "vars.less"))
			require.NoError(t, s.AddImport("main.less", "a.less"))
			require.NoError(t, s.AddImport("main.less", "vars.less"))

			imports, err := s.GetImports()
			require.NoError(t, err)
			assert.Equal(t, []Import{
				{From: "a.less", To: "vars.less"},
				{From: "main.less", To: "a.less"},
				{From: "main.less", To: "vars.less"},
			}, imports)
		})
	}
}

func TestStore_Empty(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sources, err := s.GetSources()
			require.NoError(t, err)
			assert.Empty(t, sources)

			diags, err := s.GetDiagnostics()
			require.NoError(t, err)
			assert.Empty(t, diags)

			imports, err := s.GetImports()
			require.NoError(t, err)
			assert.Empty(t, imports)
		})
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessc.db")
	id := types.ComputeSourceID([]byte("a"))

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.AddSource(id, types.FileProvenance{FilePath: "a.less"}, 1))
	require.NoError(t, s.AddDiagnostic(sampleDiagnostic(id, "a.less")))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	exists, err := s.SourceExists(id)
	require.NoError(t, err)
	assert.True(t, exists)

	diags, err := s.GetDiagnostics()
	require.NoError(t, err)
	assert.Len(t, diags, 1)
}
