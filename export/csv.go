// Package export writes extracted posts in download formats and selects
// which posts to hand off.
package export

import (
	"io"
	"strings"

	"github.com/fwojciec/blogtext"
)

// csvHeader names the exported columns.
var csvHeader = []string{"title", "date", "content"}

// WriteCSV writes posts as CSV with a title,date,content header. Rows are
// separated by a single newline with no trailing newline. A field is
// quoted only when it contains a quote, a comma or a newline.
func WriteCSV(w io.Writer, posts []*blogtext.ExtractedPost) error {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, post := range posts {
		b.WriteByte('\n')
		b.WriteString(csvField(post.Title))
		b.WriteByte(',')
		b.WriteString(csvField(post.Date))
		b.WriteByte(',')
		b.WriteString(csvField(post.Content))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func csvField(s string) string {
	if !strings.ContainsAny(s, "\",\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
