package export_test

import (
	"testing"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(posts []*blogtext.ExtractedPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestSelect(t *testing.T) {
	t.Parallel()

	posts := []*blogtext.ExtractedPost{
		{Title: "banana bread", Content: "Mash three ripe bananas."},
		{Title: "Apple pie", Content: "Short."},
		{Title: "Éclairs", Content: "Choux pastry takes patience and a hot oven."},
		{Title: "cherry jam", Content: "Apples help it set."},
	}

	tests := []struct {
		name  string
		query string
		order export.SortOrder
		n     int
		want  []string
	}{
		{"default keeps order", "", export.SortDefault, 0, []string{"banana bread", "Apple pie", "Éclairs", "cherry jam"}},
		{"title ascending ignores case and accents", "", export.SortTitleAsc, 0, []string{"Apple pie", "banana bread", "cherry jam", "Éclairs"}},
		{"title descending", "", export.SortTitleDesc, 0, []string{"Éclairs", "cherry jam", "banana bread", "Apple pie"}},
		{"length ascending", "", export.SortLengthAsc, 0, []string{"Apple pie", "cherry jam", "banana bread", "Éclairs"}},
		{"length descending", "", export.SortLengthDesc, 0, []string{"Éclairs", "banana bread", "cherry jam", "Apple pie"}},
		{"query matches title or content", "APPLE", export.SortDefault, 0, []string{"Apple pie", "cherry jam"}},
		{"first n after sort", "", export.SortTitleAsc, 2, []string{"Apple pie", "banana bread"}},
		{"first n after filter", "a", export.SortLengthDesc, 1, []string{"Éclairs"}},
		{"no match", "plum", export.SortDefault, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := export.Select(posts, tt.query, tt.order, tt.n)

			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestSelect_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	posts := []*blogtext.ExtractedPost{{Title: "b"}, {Title: "a"}}

	export.Select(posts, "", export.SortTitleAsc, 0)

	assert.Equal(t, []string{"b", "a"}, titles(posts))
}

func TestParseSortOrder(t *testing.T) {
	t.Parallel()

	order, err := export.ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, export.SortDefault, order)

	order, err = export.ParseSortOrder("length-desc")
	require.NoError(t, err)
	assert.Equal(t, export.SortLengthDesc, order)

	_, err = export.ParseSortOrder("newest")
	assert.Equal(t, blogtext.EINVALID, blogtext.ErrorCode(err))
}
