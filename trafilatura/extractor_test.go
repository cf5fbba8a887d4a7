package trafilatura_test

import (
	"context"
	"testing"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/mock"
	"github.com/fwojciec/blogtext/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements blogtext.Extractor at compile time.
var _ blogtext.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>A Week in Lisbon - Travel Notes</title>
<meta property="og:title" content="A Week in Lisbon">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>A Week in Lisbon</h1>
<p>We spent a week walking the hills of Lisbon, eating pastries and riding old trams across the city.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		post, err := trafilatura.NewExtractor().Extract(context.Background(), html)

		require.NoError(t, err)
		assert.NotEmpty(t, post.Title)
		assert.NotEqual(t, blogtext.UntitledPost, post.Title)
	})

	t.Run("extracts article text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/archive">Archive</a></nav>
<article>
<h1>Why I Switched Editors</h1>
<p>This is the important part of the post that explains the reasons for switching editors after ten years.</p>
<p>The second paragraph covers the plugins that made the move easier than expected.</p>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		post, err := trafilatura.NewExtractor().Extract(context.Background(), html)

		require.NoError(t, err)
		assert.Contains(t, post.Content, "important part of the post")
		assert.Contains(t, post.Content, "plugins that made the move")
		assert.NotContains(t, post.Content, "<p")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers who came for the story.</p>
</article>
<footer>
<p>Copyright 2024 Example Blog</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		post, err := trafilatura.NewExtractor().Extract(context.Background(), html)

		require.NoError(t, err)
		assert.Contains(t, post.Content, "substantive content")
		assert.NotContains(t, post.Content, "Copyright 2024 Example Blog")
	})

	t.Run("renders Markdown with a converter", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html><head><title>T</title></head><body>
<article><h1>T</h1><p>A paragraph long enough for trafilatura to keep it as the main content of the page.</p></article>
</body></html>`
		conv := &mock.Converter{
			ConvertFn: func(_ string) (string, error) {
				return "# T\n\nconverted\n", nil
			},
		}

		post, err := trafilatura.NewExtractor(trafilatura.WithConverter(conv)).Extract(context.Background(), html)

		require.NoError(t, err)
		assert.Equal(t, "# T\n\nconverted", post.Content)
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract(context.Background(), "")

		assert.Equal(t, blogtext.EINVALID, blogtext.ErrorCode(err))
	})

	t.Run("returns context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := trafilatura.NewExtractor().Extract(ctx, "<html></html>")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
