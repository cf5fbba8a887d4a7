package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogtext"
)

var _ blogtext.Extractor = (*Extractor)(nil)

// Title sources in priority order.
var titleSelectors = []string{
	"article h1, .entry-title, .post-title",
	"h1",
	"title",
}

// Extractor pulls a post's title and body text out of a page using
// platform-aware container selectors.
type Extractor struct {
	detector  *Detector
	converter blogtext.Converter
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithConverter renders the selected container as Markdown instead of
// plain text.
func WithConverter(c blogtext.Converter) ExtractorOption {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{detector: NewDetector()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the title and content of a post page. A page without a
// recognizable title is titled "Untitled"; a page without text is an
// EEXTRACT error.
func (e *Extractor) Extract(ctx context.Context, html string) (*blogtext.ExtractedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, blogtext.Errorf(blogtext.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EINVALID, "failed to parse HTML: %v", err)
	}

	post := &blogtext.ExtractedPost{
		Title: extractTitle(doc),
		Date:  strings.TrimSpace(doc.Find("meta[property='article:published_time']").AttrOr("content", "")),
	}
	platform := e.detector.detect(doc)

	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()

	container := contentContainer(doc, selectorsFor(platform, func(p profile) []string { return p.Content }, genericContentSelectors))
	if e.converter != nil {
		markup, err := goquery.OuterHtml(container)
		if err != nil {
			return nil, blogtext.Errorf(blogtext.EEXTRACT, "failed to render content: %v", err)
		}
		if collapseSpace(container.Text()) == "" {
			return nil, blogtext.Errorf(blogtext.EEXTRACT, "no content found")
		}
		md, err := e.converter.Convert(markup)
		if err != nil {
			return nil, blogtext.Errorf(blogtext.EEXTRACT, "failed to convert content: %v", err)
		}
		post.Content = strings.TrimSpace(md)
	} else {
		post.Content = flatten(container)
	}

	if post.Content == "" {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "no content found")
	}
	return post, nil
}

// extractTitle reads og:title, then headings, then the document title.
func extractTitle(doc *goquery.Document) string {
	if og := collapseSpace(doc.Find("meta[property='og:title']").AttrOr("content", "")); og != "" {
		return og
	}
	for _, selector := range titleSelectors {
		if title := collapseSpace(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return blogtext.UntitledPost
}

// contentContainer returns the first selector match holding any text,
// falling back to the body.
func contentContainer(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		var found *goquery.Selection
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if collapseSpace(sel.Text()) != "" {
				found = sel
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Selection
	}
	return body
}
