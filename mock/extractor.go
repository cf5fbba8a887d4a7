package mock

import (
	"context"

	"github.com/fwojciec/blogtext"
)

var _ blogtext.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of blogtext.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, html string) (*blogtext.ExtractedPost, error)
}

func (e *Extractor) Extract(ctx context.Context, html string) (*blogtext.ExtractedPost, error) {
	return e.ExtractFn(ctx, html)
}
