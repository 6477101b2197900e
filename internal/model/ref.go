package model

import (
	"fmt"
	"strings"
)

// Ref is a commit identifier produced by the version-control system.
type Ref string

// Short returns the first n characters of the ref, or the whole ref if it is shorter.
func (r Ref) Short(n int) string {
	s := string(r)
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// RefSet is the ordered set of refs present in staging but absent from production,
// most recent first. Its length is the number of change requests expected from reconciliation.
type RefSet struct {
	refs  []Ref
	index map[Ref]int
}

// NewRefSet builds a RefSet from refs ordered most recent first.
// Refs are lowercased; abbreviated, duplicate or otherwise malformed refs are rejected
// since they could never equal a merge commit id.
func NewRefSet(refs []Ref) (RefSet, error) {
	set := RefSet{
		refs:  make([]Ref, 0, len(refs)),
		index: make(map[Ref]int, len(refs)),
	}
	for _, raw := range refs {
		ref := Ref(strings.ToLower(string(raw)))
		if !isCommitID(string(ref)) {
			return RefSet{}, fmt.Errorf("malformed commit id %q: expected a full 40 or 64 character hash", raw)
		}
		if _, dup := set.index[ref]; dup {
			return RefSet{}, fmt.Errorf("duplicate commit id %s", ref)
		}
		set.index[ref] = len(set.refs)
		set.refs = append(set.refs, ref)
	}
	return set, nil
}

// ParseRefSet parses newline separated commit ids. Blank lines are ignored.
func ParseRefSet(output string) (RefSet, error) {
	var refs []Ref
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, Ref(line))
	}
	return NewRefSet(refs)
}

// Len returns the number of refs in the set
func (s RefSet) Len() int {
	return len(s.refs)
}

// IsEmpty reports whether staging and production are identical
func (s RefSet) IsEmpty() bool {
	return len(s.refs) == 0
}

// Contains reports whether ref is a member of the set
func (s RefSet) Contains(ref Ref) bool {
	_, ok := s.index[ref]
	return ok
}

// Index returns the position of ref in the set, or -1 if absent
func (s RefSet) Index(ref Ref) int {
	if i, ok := s.index[ref]; ok {
		return i
	}
	return -1
}

// Refs returns a copy of the refs in order
func (s RefSet) Refs() []Ref {
	out := make([]Ref, len(s.refs))
	copy(out, s.refs)
	return out
}

// isCommitID accepts full lowercase SHA-1 and SHA-256 hex ids
func isCommitID(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
