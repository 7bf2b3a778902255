package types

// Provenance tracks where a stylesheet was discovered.
type Provenance interface {
	Kind() string
	// Path returns the displayable path of the source.
	Path() string
}

// FileProvenance for stylesheets read from the filesystem.
type FileProvenance struct {
	FilePath string
}

// Kind returns "file".
func (f FileProvenance) Kind() string {
	return "file"
}

// Path returns the file path.
func (f FileProvenance) Path() string {
	return f.FilePath
}

// GitProvenance for stylesheets read from a repository tree.
type GitProvenance struct {
	RepoPath string
	CommitID string // commit whose tree contained the blob
	BlobPath string // slash-separated path within the tree
}

// Kind returns "git".
func (g GitProvenance) Kind() string {
	return "git"
}

// Path returns the blob path within the repository.
func (g GitProvenance) Path() string {
	return g.BlobPath
}

// NewProvenance rebuilds a Provenance from its stored columns.
func NewProvenance(kind, path, repoPath, commitID string) Provenance {
	if kind == "git" {
		return GitProvenance{RepoPath: repoPath, CommitID: commitID, BlobPath: path}
	}
	return FileProvenance{FilePath: path}
}
