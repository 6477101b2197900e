package model

import (
	"fmt"
	"time"
)

// ChangeRequest is a merged pull request as seen by the reconciler.
// Values are immutable once fetched.
type ChangeRequest struct {
	Number      int       // unique, stable identifier
	Author      string    // author login
	Title       string    // PR title
	MergedAt    time.Time // merge timestamp
	TerminalRef Ref       // commit produced when the PR was merged
	URL         string    // display URL
	BaseBranch  string    // branch the PR was merged into
}

// Validate checks that every field the reconciler and presenter rely on is present.
func (cr ChangeRequest) Validate() error {
	switch {
	case cr.Number <= 0:
		return fmt.Errorf("missing number")
	case cr.Author == "":
		return fmt.Errorf("PR #%d: missing author", cr.Number)
	case cr.Title == "":
		return fmt.Errorf("PR #%d: missing title", cr.Number)
	case cr.MergedAt.IsZero():
		return fmt.Errorf("PR #%d: missing merge time", cr.Number)
	case cr.TerminalRef == "":
		return fmt.Errorf("PR #%d: missing merge commit", cr.Number)
	case cr.URL == "":
		return fmt.Errorf("PR #%d: missing URL", cr.Number)
	}
	return nil
}

// Page is one page of merged pull requests. Listed counts every closed pull request the API
// returned before unmerged ones were dropped, so a page of only unmerged requests is not
// mistaken for the end of history.
type Page struct {
	ChangeRequests []ChangeRequest
	Listed         int
}

// IsEnd reports whether the API returned nothing for this page
func (p Page) IsEnd() bool {
	return p.Listed == 0
}
