package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/blogtext"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ Counter = (*TokenCounter)(nil)

// TokenCounter measures prompts offline with the model's own vocabulary so
// that oversized pages are cut before a request is made.
type TokenCounter struct {
	model string
	local *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the vocabulary for model. The first call for a
// model downloads it into the local cache.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	local, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EINTERNAL, "tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{model: model, local: local}, nil
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	res, err := c.local.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, blogtext.Errorf(blogtext.EINTERNAL, "count tokens with %s: %v", c.model, err)
	}
	return int(res.TotalTokens), nil
}
