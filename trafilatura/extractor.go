package trafilatura

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements blogtext.Extractor at compile time.
var _ blogtext.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract a post's article text.
type Extractor struct {
	converter blogtext.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter renders the article as Markdown instead of plain text.
func WithConverter(c blogtext.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the article. Trafilatura falls
// back to its readability and dom-distiller ports when its own heuristics
// find nothing.
func (e *Extractor) Extract(ctx context.Context, rawHTML string) (*blogtext.ExtractedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawHTML) == "" {
		return nil, blogtext.Errorf(blogtext.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "trafilatura: %v", err)
	}
	if result.ContentNode == nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "no content found")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "rendering content: %v", err)
	}
	content, err := e.render(contentHTML)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "rendering content: %v", err)
	}
	if content == "" {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "no content found")
	}

	post := &blogtext.ExtractedPost{
		Title:   strings.TrimSpace(result.Metadata.Title),
		Content: content,
	}
	if post.Title == "" {
		post.Title = blogtext.UntitledPost
	}
	if !result.Metadata.Date.IsZero() {
		post.Date = result.Metadata.Date.UTC().Format(time.RFC3339)
	}
	return post, nil
}

func (e *Extractor) render(contentHTML string) (string, error) {
	if e.converter == nil {
		return goquery.PlainText(contentHTML)
	}
	md, err := e.converter.Convert(contentHTML)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
