package reconcile

import (
	"context"
	"crypto/sha1"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bjulian5/promote/internal/model"
)

type MockPageFetcher struct {
	mock.Mock
}

// FetchMergedPage implements PageFetcher.
func (m *MockPageFetcher) FetchMergedPage(ctx context.Context, project string, page int) (model.Page, error) {
	args := m.Called(ctx, project, page)
	return args.Get(0).(model.Page), args.Error(1)
}

type MockCommitLookup struct {
	mock.Mock
}

// ChangeRequestsForCommit implements CommitLookup.
func (m *MockCommitLookup) ChangeRequestsForCommit(ctx context.Context, project string, ref model.Ref) ([]model.ChangeRequest, error) {
	args := m.Called(ctx, project, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChangeRequest), args.Error(1)
}

// ref derives a stable commit id from a short name like "c3"
func ref(name string) model.Ref {
	return model.Ref(fmt.Sprintf("%x", sha1.Sum([]byte(name))))
}

func refSet(names ...string) model.RefSet {
	refs := make([]model.Ref, 0, len(names))
	for _, n := range names {
		refs = append(refs, ref(n))
	}
	set, err := model.NewRefSet(refs)
	if err != nil {
		panic(err)
	}
	return set
}

// pr builds a merged pull request on main whose merge commit is ref(name)
func pr(number int, name string) model.ChangeRequest {
	return model.ChangeRequest{
		Number:      number,
		Author:      fmt.Sprintf("dev%d", number%3),
		Title:       fmt.Sprintf("Change %s", name),
		MergedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(number) * time.Minute),
		TerminalRef: ref(name),
		URL:         fmt.Sprintf("https://github.com/acme/api/pull/%d", number),
		BaseBranch:  "main",
	}
}

// page builds a page of pull requests numbered after the digits in their names, e.g. "c5" -> #105
func page(names ...string) model.Page {
	crs := make([]model.ChangeRequest, 0, len(names))
	for _, n := range names {
		var number int
		fmt.Sscanf(n[1:], "%d", &number)
		crs = append(crs, pr(number+100, n))
	}
	return listed(crs...)
}

// listed wraps pull requests in a page where every listed request was merged
func listed(crs ...model.ChangeRequest) model.Page {
	return model.Page{ChangeRequests: crs, Listed: len(crs)}
}

func numbers(crs []model.ChangeRequest) []int {
	out := make([]int, 0, len(crs))
	for _, cr := range crs {
		out = append(out, cr.Number)
	}
	return out
}

// pagedHistory serves a fixed history in pages of the given size and records requests
type pagedHistory struct {
	history   []model.ChangeRequest
	size      int
	requested []int
}

func (h *pagedHistory) FetchMergedPage(_ context.Context, _ string, page int) (model.Page, error) {
	h.requested = append(h.requested, page)
	start := (page - 1) * h.size
	if start >= len(h.history) {
		return model.Page{}, nil
	}
	end := start + h.size
	if end > len(h.history) {
		end = len(h.history)
	}
	return listed(h.history[start:end]...), nil
}
