package testutil

import (
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Repo is a throwaway git repository for tests
type Repo struct {
	Dir  string
	Repo *gogit.Repository
	tick int
}

// NewTestRepo initializes a repository in a temporary directory with a root commit
func NewTestRepo(t *testing.T) (*Repo, plumbing.Hash) {
	return NewTestRepoAt(t, t.TempDir())
}

// NewTestRepoAt initializes a repository in dir with a root commit
func NewTestRepoAt(t *testing.T, dir string) (*Repo, plumbing.Hash) {
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "git init failed")

	r := &Repo{Dir: dir, Repo: repo}
	root := r.Commit(t, "Initial commit")
	return r, root
}

// Commit creates an empty commit. With no parents it commits on top of HEAD; the first
// parent of a merge commit must come first.
func (r *Repo) Commit(t *testing.T, message string, parents ...plumbing.Hash) plumbing.Hash {
	w, err := r.Repo.Worktree()
	require.NoError(t, err)

	// fixed, increasing timestamps keep hashes reproducible
	r.tick++
	when := time.Date(2024, 1, 1, 0, 0, r.tick, 0, time.UTC)
	sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}

	hash, err := w.Commit(message, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(t, err, "git commit failed")
	return hash
}

// Tag creates a lightweight tag
func (r *Repo) Tag(t *testing.T, name string, hash plumbing.Hash) {
	_, err := r.Repo.CreateTag(name, hash, nil)
	require.NoError(t, err)
}

// AnnotatedTag creates an annotated tag
func (r *Repo) AnnotatedTag(t *testing.T, name string, hash plumbing.Hash) {
	_, err := r.Repo.CreateTag(name, hash, &gogit.CreateTagOptions{
		Message: "release " + name,
		Tagger:  &object.Signature{Name: "Test", Email: "test@example.com", When: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
}
