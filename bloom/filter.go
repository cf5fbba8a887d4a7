// Package bloom tracks visited index pages with a Bloom filter.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter records page URLs seen during an index walk. The Bloom filter
// answers for pages that were never visited; its positives are confirmed
// against the exact key set, so a false positive never reports an unseen
// page as visited.
type Filter struct {
	f    *bloom.BloomFilter
	keys map[string]struct{}
}

// NewFilter creates a Filter sized for n pages at the given false
// positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f:    bloom.NewWithEstimates(n, fpRate),
		keys: make(map[string]struct{}, n),
	}
}

// Seen reports whether a page was visited.
func (f *Filter) Seen(pageURL string) bool {
	return f.seen(key(pageURL))
}

// Visit marks a page as visited and reports whether it already was.
func (f *Filter) Visit(pageURL string) bool {
	k := key(pageURL)
	if f.seen(k) {
		return true
	}
	f.f.AddString(k)
	f.keys[k] = struct{}{}
	return false
}

// Count returns the number of distinct pages visited.
func (f *Filter) Count() int {
	return len(f.keys)
}

func (f *Filter) seen(k string) bool {
	if !f.f.TestString(k) {
		return false
	}
	_, ok := f.keys[k]
	return ok
}

// key folds trivially different spellings of the same page together.
func key(pageURL string) string {
	if i := strings.IndexByte(pageURL, '#'); i >= 0 {
		pageURL = pageURL[:i]
	}
	if strings.HasSuffix(pageURL, "/") && strings.Count(pageURL, "/") > 3 {
		pageURL = strings.TrimSuffix(pageURL, "/")
	}
	return pageURL
}
