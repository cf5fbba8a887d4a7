package feed

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/fwojciec/blogtext"
)

type jsonFeed struct {
	Version string     `json:"version"`
	Items   []jsonItem `json:"items"`
}

type jsonItem struct {
	ID            any    `json:"id"`
	URL           string `json:"url"`
	ExternalURL   string `json:"external_url"`
	Title         string `json:"title"`
	ContentHTML   string `json:"content_html"`
	ContentText   string `json:"content_text"`
	DatePublished string `json:"date_published"`
	DateModified  string `json:"date_modified"`
}

// link returns url, then external_url, then an id that is itself an
// absolute URL.
func (i jsonItem) link(base *url.URL) string {
	if u := resolveItemURL(base, i.URL); u != "" {
		return u
	}
	if u := resolveItemURL(base, i.ExternalURL); u != "" {
		return u
	}
	if id, ok := i.ID.(string); ok {
		if u, err := url.Parse(strings.TrimSpace(id)); err == nil && u.IsAbs() {
			return resolveItemURL(base, id)
		}
	}
	return ""
}

func parseJSON(body string, base *url.URL) ([]blogtext.PostReference, error) {
	var feed jsonFeed
	if err := json.Unmarshal([]byte(body), &feed); err != nil {
		return nil, blogtext.Errorf(blogtext.EFEEDPARSE, "invalid JSON feed: %v", err)
	}
	if feed.Items == nil {
		return nil, blogtext.Errorf(blogtext.EFEEDPARSE, "JSON feed has no items array")
	}

	refs := make([]blogtext.PostReference, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := item.link(base)
		if link == "" {
			continue
		}
		content := item.ContentHTML
		if strings.TrimSpace(content) == "" && strings.TrimSpace(item.ContentText) != "" {
			content = textToHTML(item.ContentText)
		}
		date := item.DatePublished
		if strings.TrimSpace(date) == "" {
			date = item.DateModified
		}
		refs = append(refs, blogtext.PostReference{
			Title:       strings.TrimSpace(item.Title),
			URL:         link,
			Date:        normalizeDate(date),
			ContentHTML: content,
		})
	}
	return refs, nil
}
