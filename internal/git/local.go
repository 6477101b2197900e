package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/model"
)

// LocalRefSource reads the new refs from a local checkout at <ReposDir>/<project>.
//
// The integration branch only advances through merged pull requests, so its first-parent
// chain from staging back to production holds exactly one commit per merge (the merge commit,
// or the squashed commit). Commits inside merged branches are never visited.
type LocalRefSource struct {
	ReposDir      string
	StagingRef    string
	ProductionRef string
	MaxDepth      int
	Fetch         bool   // fetch tags from origin first
	Token         string // used for fetching over HTTPS
}

// NewRefs walks first parents from staging until production is reached
func (s *LocalRefSource) NewRefs(ctx context.Context, project string) (model.RefSet, error) {
	refs, err := s.walk(ctx, filepath.Join(s.ReposDir, project))
	if err != nil {
		return model.RefSet{}, apperrors.RefResolution(err, project)
	}

	set, err := model.NewRefSet(refs)
	if err != nil {
		return model.RefSet{}, apperrors.RefResolution(err, project)
	}
	return set, nil
}

func (s *LocalRefSource) walk(ctx context.Context, path string) ([]model.Ref, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}

	if s.Fetch {
		if err := s.fetchTags(ctx, repo); err != nil {
			return nil, err
		}
	}

	staging, err := resolveCommit(repo, s.StagingRef)
	if err != nil {
		return nil, err
	}
	production, err := resolveCommit(repo, s.ProductionRef)
	if err != nil {
		return nil, err
	}

	return firstParentsUntil(staging, production.Hash, s.MaxDepth, s.ProductionRef)
}

func (s *LocalRefSource) fetchTags(ctx context.Context, repo *gogit.Repository) error {
	opts := &gogit.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{"+refs/tags/*:refs/tags/*"},
		Tags:       gogit.AllTags,
		Force:      true,
	}
	if s.Token != "" {
		opts.Auth = &http.BasicAuth{Username: "x-access-token", Password: s.Token}
	}

	err := repo.FetchContext(ctx, opts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	return nil
}

// resolveCommit resolves a tag, branch or hash to a commit, peeling annotated tags
func resolveCommit(repo *gogit.Repository, name string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	if tag, err := repo.TagObject(*hash); err == nil {
		return tag.Commit()
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit for %s: %w", name, err)
	}
	return commit, nil
}

// firstParentsUntil returns the first-parent chain from start down to, but excluding, stop
func firstParentsUntil(start *object.Commit, stop plumbing.Hash, maxDepth int, stopName string) ([]model.Ref, error) {
	var refs []model.Ref
	commit := start
	for commit.Hash != stop {
		if maxDepth > 0 && len(refs) >= maxDepth {
			return nil, fmt.Errorf("%s not reached within %d first-parent commits", stopName, maxDepth)
		}
		refs = append(refs, model.Ref(commit.Hash.String()))

		if commit.NumParents() == 0 {
			return nil, fmt.Errorf("%s (%s) is not a first-parent ancestor of staging", stopName, stop.String()[:7])
		}
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("failed to load parent of %s: %w", commit.Hash.String()[:7], err)
		}
		commit = parent
	}
	return refs, nil
}
