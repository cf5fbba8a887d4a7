package crawl

import (
	"strings"

	"github.com/fwojciec/blogtext"
)

// RefSet is an ordered set of post references keyed by URL.
// URLs differing only by fragment are duplicates; the first reference
// added for a URL wins. It is not safe for concurrent use.
type RefSet struct {
	seen map[string]bool
	refs []blogtext.PostReference
}

// NewRefSet creates an empty RefSet.
func NewRefSet() *RefSet {
	return &RefSet{seen: make(map[string]bool)}
}

// Add appends ref unless its URL is already present.
// Returns false for duplicates and references without a URL.
func (s *RefSet) Add(ref blogtext.PostReference) bool {
	ref.URL = stripFragment(strings.TrimSpace(ref.URL))
	if ref.URL == "" || s.seen[ref.URL] {
		return false
	}
	s.seen[ref.URL] = true
	s.refs = append(s.refs, ref)
	return true
}

// AddAll adds refs in order and returns how many were new.
func (s *RefSet) AddAll(refs []blogtext.PostReference) int {
	var added int
	for _, ref := range refs {
		if s.Add(ref) {
			added++
		}
	}
	return added
}

// Len returns the number of references in the set.
func (s *RefSet) Len() int {
	return len(s.refs)
}

// Refs returns the first limit references in insertion order, or all of
// them when limit is zero or less.
func (s *RefSet) Refs(limit int) []blogtext.PostReference {
	n := len(s.refs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]blogtext.PostReference, n)
	copy(out, s.refs[:n])
	return out
}

func stripFragment(u string) string {
	if idx := strings.Index(u, "#"); idx != -1 {
		return u[:idx]
	}
	return u
}
