package export

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/blogtext"
)

// WriteJSON writes posts as a JSON array indented by two spaces.
// A nil slice is written as an empty array.
func WriteJSON(w io.Writer, posts []*blogtext.ExtractedPost) error {
	if posts == nil {
		posts = []*blogtext.ExtractedPost{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteText writes posts as plain text: each title underlined, followed
// by its content, with posts separated by a blank line.
func WriteText(w io.Writer, posts []*blogtext.ExtractedPost) error {
	for i, post := range posts {
		if i > 0 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, post.Title+"\n"+underline(post.Title)+"\n"); err != nil {
			return err
		}
		if post.Date != "" || post.URL != "" {
			if _, err := io.WriteString(w, joinNonEmpty(post.Date, post.URL)+"\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"+post.Content+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func underline(title string) string {
	n := len([]rune(title))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("=", n)
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "  ")
}
