// Package feed parses JSON Feed, RSS and Atom documents into post references.
package feed

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/fwojciec/blogtext"
)

var _ blogtext.FeedParser = (*Parser)(nil)

// Parser implements blogtext.FeedParser.
//
// The declared format is only a hint: probed URLs often serve a different
// format than their name suggests, so the body is sniffed instead.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFeed returns the feed's items in feed order. Items without a usable
// http(s) URL are skipped. Relative item URLs resolve against feedURL.
func (p *Parser) ParseFeed(body string, format blogtext.FeedFormat, feedURL string) ([]blogtext.PostReference, error) {
	base, err := url.Parse(feedURL)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EINVALID, "invalid feed URL: %s", feedURL)
	}

	trimmed := strings.TrimSpace(strings.TrimPrefix(body, "\ufeff"))
	if trimmed == "" {
		return nil, blogtext.Errorf(blogtext.EFEEDPARSE, "empty %s feed", format)
	}

	if strings.HasPrefix(trimmed, "{") {
		return parseJSON(trimmed, base)
	}
	return parseXML(trimmed, base)
}

// resolveItemURL resolves raw against base and keeps only http(s) URLs.
func resolveItemURL(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return ""
	}
	return u.String()
}

// normalizeDate renders a feed date as RFC 3339 in UTC. Unrecognized
// dates are returned trimmed but otherwise unchanged.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.UTC().Format(time.RFC3339)
}

// textToHTML wraps plain text paragraphs in <p> tags so inline text
// content flattens the same way as HTML content.
func textToHTML(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
