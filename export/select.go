package export

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/blogtext"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder orders posts for hand-off.
type SortOrder string

// Supported sort orders. SortDefault keeps discovery order.
const (
	SortDefault    SortOrder = "default"
	SortTitleAsc   SortOrder = "title-asc"
	SortTitleDesc  SortOrder = "title-desc"
	SortLengthAsc  SortOrder = "length-asc"
	SortLengthDesc SortOrder = "length-desc"
)

// SortOrders lists every supported order.
var SortOrders = []SortOrder{SortDefault, SortTitleAsc, SortTitleDesc, SortLengthAsc, SortLengthDesc}

// ParseSortOrder validates s. An empty string is SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortDefault, nil
	}
	order := SortOrder(s)
	if !slices.Contains(SortOrders, order) {
		return "", blogtext.Errorf(blogtext.EINVALID, "unknown sort order %q", s)
	}
	return order, nil
}

// Select sorts posts, keeps those whose title or content contains query
// (case-insensitive), and returns at most n of them (n <= 0 keeps all).
// The input slice is not modified. Sorting is stable, so equal posts keep
// discovery order.
func Select(posts []*blogtext.ExtractedPost, query string, order SortOrder, n int) []*blogtext.ExtractedPost {
	sorted := slices.Clone(posts)
	sortPosts(sorted, order)

	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]*blogtext.ExtractedPost, 0, len(sorted))
	for _, post := range sorted {
		if query != "" && !matches(post, query) {
			continue
		}
		out = append(out, post)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}

func matches(post *blogtext.ExtractedPost, query string) bool {
	return strings.Contains(strings.ToLower(post.Title), query) ||
		strings.Contains(strings.ToLower(post.Content), query)
}

func sortPosts(posts []*blogtext.ExtractedPost, order SortOrder) {
	switch order {
	case SortTitleAsc, SortTitleDesc:
		c := collate.New(language.Und)
		slices.SortStableFunc(posts, func(a, b *blogtext.ExtractedPost) int {
			cmp := c.CompareString(a.Title, b.Title)
			if order == SortTitleDesc {
				return -cmp
			}
			return cmp
		})
	case SortLengthAsc, SortLengthDesc:
		slices.SortStableFunc(posts, func(a, b *blogtext.ExtractedPost) int {
			cmp := utf8.RuneCountInString(a.Content) - utf8.RuneCountInString(b.Content)
			if order == SortLengthDesc {
				return -cmp
			}
			return cmp
		})
	}
}
