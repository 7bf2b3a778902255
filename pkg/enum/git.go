package enum

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/praetorian-inc/lessc/pkg/types"
)

// GitEnumerator enumerates stylesheets in the tree of one commit.
type GitEnumerator struct {
	config Config
	// Revision selects the commit to enumerate (defaults to HEAD).
	Revision string
}

// NewGitEnumerator creates a new git enumerator.
func NewGitEnumerator(config Config) *GitEnumerator {
	return &GitEnumerator{
		config:   config,
		Revision: "HEAD",
	}
}

// Commit opens the repository and resolves Revision.
func (e *GitEnumerator) Commit() (*object.Commit, error) {
	repo, err := git.PlainOpenWithOptions(e.config.Root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	rev := e.Revision
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %s: %w", rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}
	return commit, nil
}

// Enumerate yields every eligible file in the commit's tree, in tree order.
func (e *GitEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	commit, err := e.Commit()
	if err != nil {
		return err
	}
	return e.EnumerateCommit(ctx, commit, callback)
}

// EnumerateCommit is Enumerate for an already resolved commit.
func (e *GitEnumerator) EnumerateCommit(ctx context.Context, commit *object.Commit, callback Callback) error {
	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to get tree: %w", err)
	}
	commitID := commit.Hash.String()

	err = tree.Files().ForEach(func(f *object.File) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !f.Mode.IsFile() || f.Mode == filemode.Symlink {
			return nil
		}
		if !e.config.IncludeHidden && hiddenPath(f.Name) {
			return nil
		}
		if e.config.MaxFileSize > 0 && f.Size > e.config.MaxFileSize {
			return nil
		}
		if !e.config.wants(f.Name) {
			return nil
		}

		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to get contents of %s: %w", f.Name, err)
		}
		if isBinary([]byte(content)) {
			return nil
		}

		prov := types.GitProvenance{
			RepoPath: e.config.Root,
			CommitID: commitID,
			BlobPath: f.Name,
		}
		return callback([]byte(content), types.ComputeSourceID([]byte(content)), prov)
	})
	if err != nil {
		return fmt.Errorf("failed to walk tree: %w", err)
	}
	return nil
}
