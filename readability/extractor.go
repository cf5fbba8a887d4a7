package readability

import (
	"context"
	"strings"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements blogtext.Extractor at compile time.
var _ blogtext.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract a post's article text.
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

// Extract processes raw HTML and returns the article.
func (e *Extractor) Extract(ctx context.Context, rawHTML string) (*blogtext.ExtractedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawHTML) == "" {
		return nil, blogtext.Errorf(blogtext.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "readability: %v", err)
	}

	content, err := e.render(article.Content)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "rendering article: %v", err)
	}
	if content == "" {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "no content found")
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = blogtext.UntitledPost
	}
	return &blogtext.ExtractedPost{Title: title, Content: content}, nil
}

func (e *Extractor) render(contentHTML string) (string, error) {
	if strings.TrimSpace(contentHTML) == "" {
		return "", nil
	}
	if e.converter == nil {
		return goquery.PlainText(contentHTML)
	}
	md, err := e.converter.Convert(contentHTML)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
