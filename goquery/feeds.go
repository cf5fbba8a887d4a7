package goquery

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogtext"
)

var _ blogtext.FeedFinder = (*FeedFinder)(nil)

// feedTypes maps alternate link MIME types to feed formats.
var feedTypes = map[string]blogtext.FeedFormat{
	"application/feed+json": blogtext.FeedJSON,
	"application/json":      blogtext.FeedJSON,
	"application/rss+xml":   blogtext.FeedRSS,
	"application/atom+xml":  blogtext.FeedAtom,
}

// FeedFinder discovers feeds declared with <link rel="alternate"> tags.
type FeedFinder struct{}

// NewFeedFinder creates a new FeedFinder.
func NewFeedFinder() *FeedFinder {
	return &FeedFinder{}
}

// FindFeeds returns the feeds a page declares, ordered JSON, then RSS,
// then Atom. Comment feeds are skipped and duplicate URLs are dropped.
func (f *FeedFinder) FindFeeds(html, pageURL string) ([]blogtext.FeedDescriptor, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, blogtext.Errorf(blogtext.EINVALID, "invalid page URL: %s", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var feeds []blogtext.FeedDescriptor

	doc.Find("link[rel~='alternate'][href]").Each(func(_ int, sel *goquery.Selection) {
		format, ok := feedTypes[mediaType(sel.AttrOr("type", ""))]
		if !ok {
			return
		}
		href := sel.AttrOr("href", "")
		if isCommentFeed(sel.AttrOr("title", ""), href) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		u := resolved.String()
		if seen[u] {
			return
		}
		seen[u] = true
		feeds = append(feeds, blogtext.FeedDescriptor{Format: format, URL: u})
	})

	sort.SliceStable(feeds, func(i, j int) bool {
		return feeds[i].Format.Priority() < feeds[j].Format.Priority()
	})
	return feeds, nil
}

// mediaType lowercases a type attribute and drops any parameters.
func mediaType(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func isCommentFeed(title, href string) bool {
	return strings.Contains(strings.ToLower(title), "comments") ||
		strings.Contains(href, "/comments/")
}
