package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/model"
	"github.com/bjulian5/promote/internal/testutil"
)

func refs(hashes ...plumbing.Hash) []model.Ref {
	out := make([]model.Ref, 0, len(hashes))
	for _, h := range hashes {
		out = append(out, model.Ref(h.String()))
	}
	return out
}

// newProjectRepo creates <reposDir>/api
func newProjectRepo(t *testing.T) (string, *testutil.Repo, plumbing.Hash) {
	reposDir := t.TempDir()
	repo, root := testutil.NewTestRepoAt(t, filepath.Join(reposDir, "api"))
	return reposDir, repo, root
}

func TestLocalRefSource(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash
		maxDepth      int
		expectErrText string
	}{
		{
			name: "merge commits only, branch commits skipped",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				base := repo.Commit(t, "Base", root)
				repo.Tag(t, "production", base)

				feature1 := repo.Commit(t, "Feature one", base)
				merge1 := repo.Commit(t, "Merge pull request #1", base, feature1)
				feature2 := repo.Commit(t, "Feature two", merge1)
				merge2 := repo.Commit(t, "Merge pull request #2", merge1, feature2)
				repo.Tag(t, "staging", merge2)

				return []plumbing.Hash{merge2, merge1}
			},
		},
		{
			name: "squash merges on a linear history",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				c1 := repo.Commit(t, "PR #1 (#1)", root)
				c2 := repo.Commit(t, "PR #2 (#2)", c1)
				c3 := repo.Commit(t, "PR #3 (#3)", c2)
				repo.Tag(t, "production", c1)
				repo.Tag(t, "staging", c3)
				return []plumbing.Hash{c3, c2}
			},
		},
		{
			name: "annotated tags are peeled",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				c1 := repo.Commit(t, "PR #1 (#1)", root)
				repo.AnnotatedTag(t, "production", root)
				repo.AnnotatedTag(t, "staging", c1)
				return []plumbing.Hash{c1}
			},
		},
		{
			name: "identical staging and production",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				c1 := repo.Commit(t, "PR #1 (#1)", root)
				repo.Tag(t, "production", c1)
				repo.Tag(t, "staging", c1)
				return nil
			},
		},
		{
			name: "production on a side branch",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				feature := repo.Commit(t, "Feature", root)
				merge := repo.Commit(t, "Merge pull request #1", root, feature)
				repo.Tag(t, "production", feature)
				repo.Tag(t, "staging", merge)
				return nil
			},
			expectErrText: "is not a first-parent ancestor of staging",
		},
		{
			name: "missing production tag",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				repo.Tag(t, "staging", root)
				return nil
			},
			expectErrText: "failed to resolve production",
		},
		{
			name: "depth limit",
			setup: func(t *testing.T, repo *testutil.Repo, root plumbing.Hash) []plumbing.Hash {
				c1 := repo.Commit(t, "PR #1 (#1)", root)
				c2 := repo.Commit(t, "PR #2 (#2)", c1)
				c3 := repo.Commit(t, "PR #3 (#3)", c2)
				repo.Tag(t, "production", root)
				repo.Tag(t, "staging", c3)
				return nil
			},
			maxDepth:      2,
			expectErrText: "production not reached within 2 first-parent commits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reposDir, repo, root := newProjectRepo(t)
			expected := tt.setup(t, repo, root)

			src := &LocalRefSource{
				ReposDir:      reposDir,
				StagingRef:    "staging",
				ProductionRef: "production",
				MaxDepth:      tt.maxDepth,
			}
			set, err := src.NewRefs(context.Background(), "api")

			if tt.expectErrText != "" {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeRefResolution))
				assert.Contains(t, err.Error(), tt.expectErrText)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, refs(expected...), set.Refs())
		})
	}
}

func TestLocalRefSource_MissingRepository(t *testing.T) {
	src := &LocalRefSource{ReposDir: t.TempDir(), StagingRef: "staging", ProductionRef: "production"}

	_, err := src.NewRefs(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeRefResolution))
	assert.Contains(t, err.Error(), "failed to open repository")
}
