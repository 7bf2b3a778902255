package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileProvenance(t *testing.T) {
	prov := FileProvenance{FilePath: "/styles/site.less"}

	assert.Equal(t, "file", prov.Kind())
	assert.Equal(t, "/styles/site.less", prov.Path())
}

func TestGitProvenance(t *testing.T) {
	prov := GitProvenance{
		RepoPath: "/repo",
		CommitID: "abc123def456",
		BlobPath: "less/theme.less",
	}

	assert.Equal(t, "git", prov.Kind())
	assert.Equal(t, "less/theme.less", prov.Path())
}

func TestNewProvenance(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		expected Provenance
	}{
		{
			name:     "file",
			kind:     "file",
			expected: FileProvenance{FilePath: "a.less"},
		},
		{
			name:     "git",
			kind:     "git",
			expected: GitProvenance{RepoPath: "/repo", CommitID: "c0ffee", BlobPath: "a.less"},
		},
		{
			name:     "unknown kind falls back to file",
			kind:     "archive",
			expected: FileProvenance{FilePath: "a.less"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewProvenance(tt.kind, "a.less", "/repo", "c0ffee"))
		})
	}
}
