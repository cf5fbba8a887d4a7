package blogtext

import "context"

// Extractor produces a clean title and text body from a single post's markup.
type Extractor interface {
	// Extract processes raw HTML and returns the article.
	// Returns EEXTRACT when no usable title or content can be produced.
	// Extracting the same markup twice yields identical results.
	Extract(ctx context.Context, html string) (*ExtractedPost, error)
}
