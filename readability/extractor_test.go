package readability_test

import (
	"context"
	"testing"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/mock"
	"github.com/fwojciec/blogtext/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogPost = `<!DOCTYPE html>
<html>
<head><title>Notes on Sourdough</title></head>
<body>
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<aside class="sidebar"><p>Sidebar archive links</p></aside>
<article>
<h1>Notes on Sourdough</h1>
<p>This is the first paragraph of the post, long enough to be considered real article content by the scorer.</p>
<p>This is the second paragraph, which continues the story with more detail about starters, flour and patience.</p>
</article>
<footer><p>Footer copyright text 2024</p></footer>
</body>
</html>`

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	_, err := ext.Extract(context.Background(), "")

	require.Error(t, err)
	assert.Equal(t, blogtext.EINVALID, blogtext.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	post, err := ext.Extract(context.Background(), blogPost)

	require.NoError(t, err)
	assert.Equal(t, "Notes on Sourdough", post.Title)
}

func TestExtractor_KeepsArticleText(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	post, err := ext.Extract(context.Background(), blogPost)

	require.NoError(t, err)
	assert.Contains(t, post.Content, "first paragraph of the post")
	assert.Contains(t, post.Content, "starters, flour and patience")
	assert.Contains(t, post.Content, "\n\n")
	assert.NotContains(t, post.Content, "<p")
}

func TestExtractor_RemovesBoilerplate(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor()
	post, err := ext.Extract(context.Background(), blogPost)

	require.NoError(t, err)
	assert.NotContains(t, post.Content, "Home Nav Link")
	assert.NotContains(t, post.Content, "Footer copyright text")
	assert.NotContains(t, post.Content, "Sidebar archive links")
}

func TestExtractor_RendersMarkdownWithConverter(t *testing.T) {
	t.Parallel()

	var got string
	conv := &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			got = html
			return "converted\n", nil
		},
	}

	ext := readability.NewExtractor(readability.WithConverter(conv))
	post, err := ext.Extract(context.Background(), blogPost)

	require.NoError(t, err)
	assert.Equal(t, "converted", post.Content)
	assert.Contains(t, got, "<p>")
}

func TestExtractor_ReturnsContextError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := readability.NewExtractor().Extract(ctx, blogPost)

	assert.ErrorIs(t, err, context.Canceled)
}
