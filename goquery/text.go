package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogtext"
	"golang.org/x/net/html"
)

// blockMarker stands in for a line break while text is collapsed.
// Go's \s is ASCII-only, so whitespace collapsing leaves it alone.
const blockMarker = "\u2029"

const (
	// paragraphSelector elements are separated from what follows by a blank line.
	paragraphSelector = "p, h1, h2, h3, h4, h5, h6, blockquote, pre"
	// lineSelector elements end a line.
	lineSelector = "div, li, tr"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	markerSpaceRe = regexp.MustCompile(` *\n *`)
	blankLinesRe  = regexp.MustCompile(`\n{3,}`)
)

// PlainText converts an HTML fragment to plain text, keeping block-level
// elements on their own lines. It is used for inline feed content.
func PlainText(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", blogtext.Errorf(blogtext.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return flatten(body), nil
}

// flatten marks block boundaries inside sel and collapses it to text.
// It mutates sel's document.
func flatten(sel *goquery.Selection) string {
	sel.Find(paragraphSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(markerNode(), markerNode())
	})
	sel.Find(lineSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(markerNode())
	})
	sel.Find("br, hr").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(markerNode())
	})
	return normalizeText(sel.Text())
}

func markerNode() *html.Node {
	return &html.Node{Type: html.TextNode, Data: blockMarker}
}

// normalizeText collapses whitespace, turns markers into newlines, and
// limits runs of blank lines to one.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, blockMarker, "\n")
	s = markerSpaceRe.ReplaceAllString(s, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// collapseSpace trims s and reduces internal whitespace to single spaces.
func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ReplaceAll(s, "\u00a0", " "), " "))
}
