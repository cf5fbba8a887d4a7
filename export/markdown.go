package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/blogtext"
	"github.com/nao1215/markdown"
)

// WriteMarkdown writes posts as one Markdown digest: a heading, a table
// of contents, then each post under its own second-level heading.
func WriteMarkdown(w io.Writer, title string, posts []*blogtext.ExtractedPost) error {
	md := markdown.NewMarkdown(w)

	md.H1(title)
	md.PlainText("")

	rows := make([][]string, 0, len(posts))
	for i, post := range posts {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			tableCell(post.Title),
			post.Date,
			strconv.Itoa(len(strings.Fields(post.Content))),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "Date", "Words"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, post := range posts {
		md.HorizontalRule()
		md.PlainText("")
		md.H2(post.Title)
		md.PlainText("")
		if meta := joinNonEmpty(post.Date, post.URL); meta != "" {
			md.PlainTextf("*%s*", meta)
			md.PlainText("")
		}
		md.PlainText(post.Content)
		md.PlainText("")
	}

	return md.Build()
}

// tableCell keeps a value from breaking the table layout.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
