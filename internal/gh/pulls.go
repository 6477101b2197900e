package gh

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/model"
)

// FetchMergedPage lists one page of closed pull requests, most recently updated first,
// and keeps only those that were merged.
func (c *Client) FetchMergedPage(ctx context.Context, project string, page int) (model.Page, error) {
	opts := &github.PullRequestListOptions{
		State:     "closed",
		Sort:      c.sort,
		Direction: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: c.perPage,
		},
	}

	var prs []*github.PullRequest
	err := c.do(ctx, fmt.Sprintf("list pull requests page %d", page), func() (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		prs, resp, err = c.api.PullRequests.List(ctx, c.owner, project, opts)
		return resp, err
	})
	if err != nil {
		return model.Page{}, apperrors.Fetch(err, "failed to list closed pull requests for %s/%s page %d", c.owner, project, page)
	}

	result := model.Page{Listed: len(prs)}
	for _, pr := range prs {
		if pr.MergedAt == nil {
			continue
		}
		cr, err := toChangeRequest(pr)
		if err != nil {
			return model.Page{}, apperrors.Fetch(err, "malformed pull request in %s/%s page %d", c.owner, project, page)
		}
		result.ChangeRequests = append(result.ChangeRequests, cr)
	}
	return result, nil
}

// ChangeRequestsForCommit lists the merged pull requests associated with a commit.
// Open and closed-unmerged pull requests that contain the commit are dropped.
func (c *Client) ChangeRequestsForCommit(ctx context.Context, project string, ref model.Ref) ([]model.ChangeRequest, error) {
	opts := &github.ListOptions{PerPage: c.perPage}

	var crs []model.ChangeRequest
	for {
		var (
			prs  []*github.PullRequest
			resp *github.Response
		)
		err := c.do(ctx, fmt.Sprintf("list pull requests for commit %s", ref.Short(7)), func() (*github.Response, error) {
			var err error
			prs, resp, err = c.api.PullRequests.ListPullRequestsWithCommit(ctx, c.owner, project, string(ref), opts)
			return resp, err
		})
		if err != nil {
			return nil, apperrors.Fetch(err, "failed to list pull requests for commit %s in %s/%s", ref, c.owner, project)
		}

		for _, pr := range prs {
			if pr.MergedAt == nil {
				continue
			}
			cr, err := toChangeRequest(pr)
			if err != nil {
				return nil, apperrors.Fetch(err, "malformed pull request for commit %s", ref)
			}
			crs = append(crs, cr)
		}

		if resp.NextPage == 0 {
			return crs, nil
		}
		opts.Page = resp.NextPage
	}
}

// toChangeRequest maps an API pull request to a validated ChangeRequest
func toChangeRequest(pr *github.PullRequest) (model.ChangeRequest, error) {
	cr := model.ChangeRequest{
		Number:      pr.GetNumber(),
		Author:      pr.GetUser().GetLogin(),
		Title:       pr.GetTitle(),
		MergedAt:    pr.GetMergedAt().Time,
		TerminalRef: model.Ref(pr.GetMergeCommitSHA()),
		URL:         pr.GetHTMLURL(),
		BaseBranch:  pr.GetBase().GetRef(),
	}
	if err := cr.Validate(); err != nil {
		return model.ChangeRequest{}, err
	}
	return cr, nil
}
