package reconcile

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/logger"
	"github.com/bjulian5/promote/internal/model"
)

// PageFetcher lists merged pull requests newest first, one page at a time.
// A page for which the API listed nothing means there is no more history.
type PageFetcher interface {
	FetchMergedPage(ctx context.Context, project string, page int) (model.Page, error)
}

// CommitLookup lists the merged pull requests associated with a commit.
type CommitLookup interface {
	ChangeRequestsForCommit(ctx context.Context, project string, ref model.Ref) ([]model.ChangeRequest, error)
}

// Strategy selects how merged history is matched against the RefSet
type Strategy string

const (
	// ClosedSet scans history until every ref has been matched, in any order.
	ClosedSet Strategy = "closed-set"
	// RunBoundary assumes the matching pull requests form one contiguous run in history.
	// It is unsafe under squash or rebase workflows that reorder merges.
	RunBoundary Strategy = "run-boundary"
)

// Association selects how refs are tied to pull requests
type Association string

const (
	// AssociationPages matches refs against merge commits of paged history.
	AssociationPages Association = "pages"
	// AssociationCommits resolves each ref with a commit -> pull request lookup.
	AssociationCommits Association = "commits"
)

// Order selects the order of the reconciled list
type Order string

const (
	// OrderRefs sorts the result into RefSet order (most recent ref first).
	OrderRefs Order = "refs"
	// OrderPage keeps the order the API returned.
	OrderPage Order = "page"
)

// Options configures a Reconciler
type Options struct {
	Strategy          Strategy
	Association       Association
	Order             Order
	IntegrationBranch string
}

// Result is the reconciled list plus scan statistics
type Result struct {
	ChangeRequests []model.ChangeRequest
	PagesFetched   int
	Scanned        int
	Lookups        int
}

// Reconciler correlates a RefSet with merged pull requests
type Reconciler struct {
	pages  PageFetcher
	lookup CommitLookup
	opts   Options
	log    *logger.Logger
}

// NewReconciler creates a reconciler. lookup may be nil unless Association is AssociationCommits.
func NewReconciler(pages PageFetcher, lookup CommitLookup, opts Options, log *logger.Logger) *Reconciler {
	if opts.Strategy == "" {
		opts.Strategy = ClosedSet
	}
	if opts.Association == "" {
		opts.Association = AssociationPages
	}
	if opts.Order == "" {
		opts.Order = OrderRefs
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{pages: pages, lookup: lookup, opts: opts, log: log}
}

// Reconcile returns exactly one pull request per ref in refs, deduplicated by number.
// An empty RefSet returns an empty result without any remote call.
func (r *Reconciler) Reconcile(ctx context.Context, project string, refs model.RefSet) (*Result, error) {
	if refs.IsEmpty() {
		return &Result{}, nil
	}

	if r.opts.Association == AssociationCommits {
		if r.lookup == nil {
			return nil, fmt.Errorf("commit association requires a commit lookup")
		}
		return r.resolveByCommit(ctx, project, refs)
	}

	var (
		res *Result
		err error
	)
	switch r.opts.Strategy {
	case ClosedSet:
		res, err = r.closedSet(ctx, project, refs)
	case RunBoundary:
		res, err = r.runBoundary(ctx, project, refs)
	default:
		return nil, fmt.Errorf("unknown reconciliation strategy %q", r.opts.Strategy)
	}
	if err != nil {
		return nil, err
	}

	if r.opts.Order == OrderRefs {
		sortByRefs(res.ChangeRequests, refs)
	}
	return res, nil
}

// closedSet scans pages until every ref has a pull request
func (r *Reconciler) closedSet(ctx context.Context, project string, refs model.RefSet) (*Result, error) {
	m := newMatcher(refs)
	res := &Result{}

	for page := 1; ; page++ {
		p, err := r.fetch(ctx, project, page, res)
		if err != nil {
			return nil, err
		}
		if p.IsEnd() {
			return nil, apperrors.ExhaustedHistory(m.matched(), refs.Len(), res.PagesFetched)
		}

		for _, cr := range p.ChangeRequests {
			res.Scanned++
			if m.offer(cr) && m.done() {
				r.log.Debugf("matched all %d refs on page %d", refs.Len(), page)
				res.ChangeRequests = m.result
				return res, nil
			}
		}
		r.log.Debugf("page %d: %d of %d refs matched", page, m.matched(), refs.Len())
	}
}

// runBoundary skips pull requests merged after the diff was taken, then collects the
// contiguous run of members. A non-member ends the run.
func (r *Reconciler) runBoundary(ctx context.Context, project string, refs model.RefSet) (*Result, error) {
	m := newMatcher(refs)
	res := &Result{}
	var last model.ChangeRequest
	started := false

	for page := 1; ; page++ {
		p, err := r.fetch(ctx, project, page, res)
		if err != nil {
			return nil, err
		}
		if p.IsEnd() {
			return nil, apperrors.ExhaustedHistory(m.matched(), refs.Len(), res.PagesFetched)
		}

		crs := p.ChangeRequests
		for i, cr := range crs {
			res.Scanned++
			member := refs.Contains(cr.TerminalRef)
			if !started {
				if !member {
					continue
				}
				started = true
				r.log.Debugf("run starts at PR #%d on page %d", cr.Number, page)
			}

			if member {
				m.offer(cr)
				last = cr
				if m.done() {
					res.ChangeRequests = m.result
					return res, nil
				}
				continue
			}

			return nil, closedRunError(m, last, cr, crs[i+1:])
		}
	}
}

// closedRunError explains why a run that ended early cannot be trusted. Only the
// remainder of the page already in hand is inspected.
func closedRunError(m *matcher, last, closer model.ChangeRequest, rest []model.ChangeRequest) error {
	for _, cr := range rest {
		if m.refs.Contains(cr.TerminalRef) && !m.matchedRefs[cr.TerminalRef] {
			return apperrors.ContiguityViolation(
				"PR #%d (%s) is in staging but appears after the run closed at PR #%d",
				cr.Number, cr.TerminalRef.Short(7), closer.Number)
		}
	}
	return apperrors.ContiguityViolation(
		"run of staged PRs ended at PR #%d after PR #%d with %d of %d refs matched",
		closer.Number, last.Number, m.matched(), m.refs.Len())
}

// resolveByCommit looks up each ref one at a time, in RefSet order
func (r *Reconciler) resolveByCommit(ctx context.Context, project string, refs model.RefSet) (*Result, error) {
	res := &Result{}
	seen := make(map[int]bool)

	for _, ref := range refs.Refs() {
		crs, err := r.lookup.ChangeRequestsForCommit(ctx, project, ref)
		res.Lookups++
		if err != nil {
			return nil, asFetchError(err, "failed to look up pull requests for commit %s", ref)
		}

		var matches []model.ChangeRequest
		for _, cr := range crs {
			if cr.BaseBranch == r.opts.IntegrationBranch {
				matches = append(matches, cr)
			}
		}
		if len(matches) != 1 {
			numbers := make([]int, 0, len(matches))
			for _, cr := range matches {
				numbers = append(numbers, cr.Number)
			}
			return nil, apperrors.AmbiguousAssociation(string(ref), r.opts.IntegrationBranch, numbers)
		}

		cr := matches[0]
		if seen[cr.Number] {
			r.log.Debugf("commit %s belongs to PR #%d, already listed", ref.Short(7), cr.Number)
			continue
		}
		seen[cr.Number] = true
		res.ChangeRequests = append(res.ChangeRequests, cr)
	}

	return res, nil
}

func (r *Reconciler) fetch(ctx context.Context, project string, page int, res *Result) (model.Page, error) {
	p, err := r.pages.FetchMergedPage(ctx, project, page)
	if err != nil {
		return model.Page{}, asFetchError(err, "failed to fetch merged pull requests page %d", page)
	}
	res.PagesFetched++
	r.log.Debugf("fetched page %d: %d listed, %d merged", page, p.Listed, len(p.ChangeRequests))
	return p, nil
}

// asFetchError keeps codes set by the adapter and classifies anything else as a fetch failure
func asFetchError(err error, format string, args ...interface{}) error {
	if apperrors.CodeOf(err) != "" {
		return err
	}
	return apperrors.Fetch(err, format, args...)
}

// sortByRefs orders pull requests by the position of their merge commit in refs
func sortByRefs(crs []model.ChangeRequest, refs model.RefSet) {
	sort.SliceStable(crs, func(i, j int) bool {
		return refs.Index(crs[i].TerminalRef) < refs.Index(crs[j].TerminalRef)
	})
}
