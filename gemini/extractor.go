// Package gemini implements post extraction by delegating to Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/blogtext"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for extraction.
const DefaultModel = "gemini-2.5-flash"

// DefaultTokenLimit caps the prompt size when a token counter is configured.
const DefaultTokenLimit = 200_000

// Ensure Extractor implements blogtext.Extractor at compile time.
var _ blogtext.Extractor = (*Extractor)(nil)

// Counter counts prompt tokens.
type Counter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// Extractor implements blogtext.Extractor by asking Gemini for a
// structured {title, content} response.
type Extractor struct {
	client     *genai.Client
	model      string
	counter    Counter
	tokenLimit int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithModel sets the Gemini model.
func WithModel(model string) Option {
	return func(e *Extractor) {
		e.model = model
	}
}

// WithTokenLimit trims markup so the prompt stays within limit tokens as
// measured by counter.
func WithTokenLimit(counter Counter, limit int) Option {
	return func(e *Extractor) {
		e.counter = counter
		e.tokenLimit = limit
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(client *genai.Client, opts ...Option) *Extractor {
	e := &Extractor{
		client:     client,
		model:      DefaultModel,
		tokenLimit: DefaultTokenLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract sends the post markup to Gemini and validates the response.
func (e *Extractor) Extract(ctx context.Context, html string) (*blogtext.ExtractedPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, blogtext.Errorf(blogtext.EINVALID, "empty HTML input")
	}
	if e.client == nil {
		return nil, blogtext.Errorf(blogtext.EINTERNAL, "gemini client not configured")
	}

	prompt, err := e.prompt(ctx, StripMarkup(html))
	if err != nil {
		return nil, err
	}

	result, err := e.client.Models.GenerateContent(ctx, e.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "gemini: %v", err)
	}
	if result == nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "gemini returned nil result")
	}

	return ParseResponse(result.Text())
}

// prompt builds the user prompt. While the counter reports it over the
// token limit the markup is cut proportionally and counted again, so pages
// with uneven token density still end up within budget.
func (e *Extractor) prompt(ctx context.Context, markup string) (string, error) {
	prompt := BuildUserPrompt(markup)
	if e.counter == nil || e.tokenLimit <= 0 {
		return prompt, nil
	}

	for markup != "" {
		n, err := e.counter.CountTokens(ctx, prompt)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", ctxErr
			}
			return prompt, nil
		}
		if n <= e.tokenLimit {
			break
		}
		// Margin for the prompt wrapper. keep < len(markup) because n > limit.
		keep := len(markup) * e.tokenLimit / n * 9 / 10
		markup = strings.ToValidUTF8(markup[:keep], "")
		prompt = BuildUserPrompt(markup)
	}
	return prompt, nil
}

// BuildConfig returns the GenerateContentConfig for extraction calls.
// The response schema requires a title and a content string.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You extract blog posts from web page markup. Return the post's title and its full body as plain text. " +
					"Separate paragraphs with a blank line. Leave out navigation, comments, sharing widgets, and related-post lists. " +
					"Do not summarize or rewrite the text.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {
					Type:        genai.TypeString,
					Description: "The post title.",
				},
				"content": {
					Type:        genai.TypeString,
					Description: "The post body as plain text with paragraph breaks preserved.",
				},
			},
			Required:         []string{"title", "content"},
			PropertyOrdering: []string{"title", "content"},
		},
	}
}

// BuildUserPrompt wraps the page markup for the model.
func BuildUserPrompt(markup string) string {
	var sb strings.Builder
	sb.WriteString("Extract the blog post from this page.\n\n")
	fmt.Fprintf(&sb, "<page>\n%s\n</page>", markup)
	return sb.String()
}

// StripMarkup drops elements that carry no post text, reducing the
// prompt size. Unparseable input is returned unchanged.
func StripMarkup(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, noscript, template, svg, iframe, link, meta").Remove()
	out, err := doc.Html()
	if err != nil {
		return html
	}
	return out
}

type response struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ParseResponse validates a structured response: the title must be a
// non-empty string and the content a string.
func ParseResponse(text string) (*blogtext.ExtractedPost, error) {
	var r response
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "invalid gemini response: %v", err)
	}
	if r.Title == nil || strings.TrimSpace(*r.Title) == "" {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "gemini response has no title")
	}
	if r.Content == nil {
		return nil, blogtext.Errorf(blogtext.EEXTRACT, "gemini response has no content")
	}
	return &blogtext.ExtractedPost{
		Title:   strings.TrimSpace(*r.Title),
		Content: strings.TrimSpace(*r.Content),
	}, nil
}
