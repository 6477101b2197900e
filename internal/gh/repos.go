package gh

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/model"
)

// ListProjects returns the names of every repository in the organization, in API order
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: c.perPage},
	}

	var names []string
	for {
		var (
			repos []*github.Repository
			resp  *github.Response
		)
		err := c.do(ctx, "list organization repositories", func() (*github.Response, error) {
			var err error
			repos, resp, err = c.api.Repositories.ListByOrg(ctx, c.owner, opts)
			return resp, err
		})
		if err != nil {
			return nil, apperrors.Fetch(err, "failed to list repositories of %s", c.owner)
		}

		for _, repo := range repos {
			names = append(names, repo.GetName())
		}

		if resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}

// CompareRefSource reads the new refs from the compare-commits API instead of a local checkout
type CompareRefSource struct {
	client     *Client
	staging    string
	production string
}

// NewCompareRefSource compares productionRef (base) with stagingRef (head)
func NewCompareRefSource(client *Client, stagingRef, productionRef string) *CompareRefSource {
	return &CompareRefSource{client: client, staging: stagingRef, production: productionRef}
}

// NewRefs returns the commits in staging but not in production, most recent first
func (s *CompareRefSource) NewRefs(ctx context.Context, project string) (model.RefSet, error) {
	refs, err := s.compare(ctx, project)
	if err != nil {
		return model.RefSet{}, apperrors.RefResolution(err, project)
	}

	set, err := model.NewRefSet(refs)
	if err != nil {
		return model.RefSet{}, apperrors.RefResolution(err, project)
	}
	return set, nil
}

func (s *CompareRefSource) compare(ctx context.Context, project string) ([]model.Ref, error) {
	c := s.client
	opts := &github.ListOptions{PerPage: c.perPage}

	var oldestFirst []model.Ref
	for page := 1; ; page++ {
		opts.Page = page

		var cmp *github.CommitsComparison
		err := c.do(ctx, fmt.Sprintf("compare %s...%s page %d", s.production, s.staging, page), func() (*github.Response, error) {
			var (
				resp *github.Response
				err  error
			)
			cmp, resp, err = c.api.Repositories.CompareCommits(ctx, c.owner, project, s.production, s.staging, opts)
			return resp, err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s...%s: %w", s.production, s.staging, err)
		}

		switch cmp.GetStatus() {
		case "identical":
			return nil, nil
		case "behind", "diverged":
			return nil, fmt.Errorf("%s is %s %s; production must be an ancestor of staging",
				s.staging, cmp.GetStatus(), s.production)
		}

		for _, commit := range cmp.Commits {
			oldestFirst = append(oldestFirst, model.Ref(commit.GetSHA()))
		}
		if len(cmp.Commits) == 0 || len(oldestFirst) >= cmp.GetTotalCommits() {
			break
		}
	}

	refs := make([]model.Ref, 0, len(oldestFirst))
	for i := len(oldestFirst) - 1; i >= 0; i-- {
		refs = append(refs, oldestFirst[i])
	}
	return refs, nil
}
