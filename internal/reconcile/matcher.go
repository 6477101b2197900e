package reconcile

import "github.com/bjulian5/promote/internal/model"

// matcher accumulates pull requests whose merge commit is in the RefSet.
// Each pull request number and each ref counts at most once.
type matcher struct {
	refs        model.RefSet
	seenPRs     map[int]bool
	matchedRefs map[model.Ref]bool
	result      []model.ChangeRequest
}

func newMatcher(refs model.RefSet) *matcher {
	return &matcher{
		refs:        refs,
		seenPRs:     make(map[int]bool, refs.Len()),
		matchedRefs: make(map[model.Ref]bool, refs.Len()),
	}
}

// offer appends cr if it is a new match and reports whether it did
func (m *matcher) offer(cr model.ChangeRequest) bool {
	if !m.refs.Contains(cr.TerminalRef) {
		return false
	}
	if m.seenPRs[cr.Number] || m.matchedRefs[cr.TerminalRef] {
		return false
	}
	m.seenPRs[cr.Number] = true
	m.matchedRefs[cr.TerminalRef] = true
	m.result = append(m.result, cr)
	return true
}

func (m *matcher) matched() int {
	return len(m.matchedRefs)
}

func (m *matcher) done() bool {
	return m.matched() == m.refs.Len()
}
