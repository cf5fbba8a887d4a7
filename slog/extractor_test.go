package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/mock"
	blogslog "github.com/fwojciec/blogtext/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs extractor name title and word count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(ctx context.Context, html string) (*blogtext.ExtractedPost, error) {
				return &blogtext.ExtractedPost{Title: "Hello", Content: "one two three"}, nil
			},
		}

		extractor := blogslog.NewLoggingExtractor(inner, "readability", logger)
		post, err := extractor.Extract(context.Background(), "<p>one two three</p>")

		require.NoError(t, err)
		assert.Equal(t, "Hello", post.Title)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "extractor=readability")
		assert.Contains(t, output, "title=Hello")
		assert.Contains(t, output, "words=3")
		assert.Contains(t, output, "bytes=20")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(ctx context.Context, html string) (*blogtext.ExtractedPost, error) {
				return nil, blogtext.Errorf(blogtext.EEXTRACT, "no content")
			},
		}

		extractor := blogslog.NewLoggingExtractor(inner, "goquery", logger)
		_, err := extractor.Extract(context.Background(), "<html></html>")

		require.Error(t, err)
		assert.Equal(t, blogtext.EEXTRACT, blogtext.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "words=0")
		assert.Contains(t, output, "err=")
		assert.Contains(t, output, "no content")
	})
}
