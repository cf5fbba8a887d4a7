package crawl_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/crawl"
	"github.com/fwojciec/blogtext/feed"
	"github.com/fwojciec/blogtext/goquery"
	"github.com/fwojciec/blogtext/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogURL = "https://blog.example.com/"

// site is an in-memory blog. Unknown URLs fail the way an exhausted relay
// chain does.
type site struct {
	mu      sync.Mutex
	pages   map[string]string
	fetched []string
}

func newSite(pages map[string]string) *site {
	return &site{pages: pages}
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(ctx context.Context, url string) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			s.fetched = append(s.fetched, url)
			body, ok := s.pages[url]
			if !ok {
				return "", blogtext.Errorf(blogtext.EEXHAUSTED, "all relay routes failed for %s", url)
			}
			return body, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (s *site) fetches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

func newCrawler(s *site) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:    s.fetcher(),
		Extractor:  goquery.NewExtractor(),
		Feeds:      feed.NewParser(),
		FeedFinder: goquery.NewFeedFinder(),
		Index:      goquery.NewIndexParser(),
	}
}

func postPage(title, body string) string {
	return fmt.Sprintf(`<html><head><title>%s | Example</title></head><body>
<nav><a href="/">Home</a></nav>
<article><h1>%s</h1><div class="entry-content"><p>%s</p></div></article>
<footer>Copyright</footer>
</body></html>`, title, title, body)
}

func jsonFeed(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id": "%d", "url": "https://blog.example.com/post-%d", "title": "Post %d", "date_published": "2024-03-0%dT09:00:00Z"}`, i+1, i+1, i+1, i+1)
	}
	return `{"version": "https://jsonfeed.org/version/1.1", "items": [` + strings.Join(items, ",") + `]}`
}

func feedSite(n int) map[string]string {
	pages := map[string]string{blogURL + "f.json": jsonFeed(n)}
	for i := 1; i <= n; i++ {
		pages[fmt.Sprintf("https://blog.example.com/post-%d", i)] = postPage(fmt.Sprintf("Page title %d", i), fmt.Sprintf("Body %d", i))
	}
	return pages
}

func collect(t *testing.T, c *crawl.Crawler, req blogtext.ScrapeRequest) ([]blogtext.Event, error) {
	t.Helper()
	var events []blogtext.Event
	err := c.Run(context.Background(), req, func(e blogtext.Event) {
		events = append(events, e)
	})
	return events, err
}

func postsOf(events []blogtext.Event) []blogtext.ExtractedPost {
	var posts []blogtext.ExtractedPost
	for _, e := range events {
		if e.Type == blogtext.EventPost {
			posts = append(posts, *e.Post)
		}
	}
	return posts
}

func statusesOf(events []blogtext.Event) []string {
	var out []string
	for _, e := range events {
		if e.Type == blogtext.EventStatus {
			out = append(out, e.Message)
		}
	}
	return out
}

func assertSingleTerminal(t *testing.T, events []blogtext.Event, want blogtext.EventType) {
	t.Helper()
	require.NotEmpty(t, events)
	for _, e := range events[:len(events)-1] {
		assert.False(t, e.Terminal(), "terminal event %s before end of stream", e.Type)
	}
	assert.Equal(t, want, events[len(events)-1].Type)
}

func TestCrawler_Run(t *testing.T) {
	t.Parallel()

	t.Run("extracts every post of a JSON feed in feed order", func(t *testing.T) {
		t.Parallel()

		s := newSite(feedSite(3))

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		assertSingleTerminal(t, events, blogtext.EventCompleted)
		assert.Equal(t, []blogtext.ExtractedPost{
			{Title: "Post 1", Content: "Body 1", Date: "2024-03-01T09:00:00Z", URL: "https://blog.example.com/post-1"},
			{Title: "Post 2", Content: "Body 2", Date: "2024-03-02T09:00:00Z", URL: "https://blog.example.com/post-2"},
			{Title: "Post 3", Content: "Body 3", Date: "2024-03-03T09:00:00Z", URL: "https://blog.example.com/post-3"},
		}, postsOf(events))
		assert.Equal(t, []string{
			blogURL + "f.json",
			"https://blog.example.com/post-1",
			"https://blog.example.com/post-2",
			"https://blog.example.com/post-3",
		}, s.fetches())
		assert.Contains(t, statusesOf(events), "Successfully parsed JSON feed. Found 3 posts.")
	})

	t.Run("falls back to index pages when no feed exists", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			blogURL: `<html><body>
<h2><a href="/first">First</a></h2>
<h2><a href="/second">Second</a></h2>
</body></html>`,
			"https://blog.example.com/first":  postPage("First", "One"),
			"https://blog.example.com/second": postPage("Second", "Two"),
		})

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		assertSingleTerminal(t, events, blogtext.EventCompleted)
		posts := postsOf(events)
		require.Len(t, posts, 2)
		assert.Equal(t, "First", posts[0].Title)
		assert.Equal(t, "Two", posts[1].Content)
		assert.Contains(t, statusesOf(events), "No compatible JSON or RSS feed found. Scanning index pages...")
	})

	t.Run("uses feeds declared by the base page", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			blogURL: `<html><head><link rel="alternate" type="application/rss+xml" href="/feed.xml"></head><body></body></html>`,
			"https://blog.example.com/feed.xml": `<rss version="2.0"><channel>
<item><title>From RSS</title><link>https://blog.example.com/rss-post</link></item>
</channel></rss>`,
			"https://blog.example.com/rss-post": postPage("From RSS", "RSS body"),
		})

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		posts := postsOf(events)
		require.Len(t, posts, 1)
		assert.Equal(t, "RSS body", posts[0].Content)
		assert.Equal(t, []string{
			blogURL + "f.json",
			blogURL + "f.rss",
			blogURL,
			"https://blog.example.com/feed.xml",
			"https://blog.example.com/rss-post",
		}, s.fetches())
	})

	t.Run("fetches only as many posts as the limit", func(t *testing.T) {
		t.Parallel()

		s := newSite(feedSite(5))

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL, Limit: 1})

		require.NoError(t, err)
		assert.Len(t, postsOf(events), 1)
		assert.Equal(t, []string{blogURL + "f.json", "https://blog.example.com/post-1"}, s.fetches())
	})

	t.Run("fails with EEXHAUSTED when the blog is unreachable", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{})

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		assert.Equal(t, blogtext.EEXHAUSTED, blogtext.ErrorCode(err))
		assertSingleTerminal(t, events, blogtext.EventFailed)
		assert.Equal(t, blogtext.EEXHAUSTED, blogtext.ErrorCode(events[len(events)-1].Err))
		assert.Empty(t, postsOf(events))
	})

	t.Run("fails with EINVALID before any fetch", func(t *testing.T) {
		t.Parallel()

		for _, req := range []blogtext.ScrapeRequest{
			{BaseURL: ""},
			{BaseURL: "ftp://blog.example.com/"},
			{BaseURL: blogURL, Limit: blogtext.MaxPostLimit + 1},
		} {
			s := newSite(feedSite(1))

			events, err := collect(t, newCrawler(s), req)

			assert.Equal(t, blogtext.EINVALID, blogtext.ErrorCode(err))
			assertSingleTerminal(t, events, blogtext.EventFailed)
			assert.Empty(t, s.fetches())
		}
	})

	t.Run("deduplicates references keeping the first title", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			blogURL + "f.json": `{"items": [
{"url": "https://blog.example.com/a", "title": "First A"},
{"url": "https://blog.example.com/a#comments", "title": "Second A"},
{"url": "https://blog.example.com/b", "title": "B"}
]}`,
			"https://blog.example.com/a": postPage("A", "Alpha"),
			"https://blog.example.com/b": postPage("B", "Beta"),
		})

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		posts := postsOf(events)
		require.Len(t, posts, 2)
		assert.Equal(t, "First A", posts[0].Title)
		assert.Equal(t, "B", posts[1].Title)
	})

	t.Run("skips posts that cannot be fetched", func(t *testing.T) {
		t.Parallel()

		pages := feedSite(3)
		delete(pages, "https://blog.example.com/post-2")
		s := newSite(pages)

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		assertSingleTerminal(t, events, blogtext.EventCompleted)
		posts := postsOf(events)
		require.Len(t, posts, 2)
		assert.Equal(t, "Post 1", posts[0].Title)
		assert.Equal(t, "Post 3", posts[1].Title)

		var skipped bool
		for _, m := range statusesOf(events) {
			if strings.HasPrefix(m, `Skipping post due to error: "Post 2"`) {
				skipped = true
			}
		}
		assert.True(t, skipped)
	})

	t.Run("uses extracted title for untitled references", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			blogURL + "f.json":           `{"items": [{"url": "https://blog.example.com/a", "title": "Untitled"}, {"url": "https://blog.example.com/b"}]}`,
			"https://blog.example.com/a": postPage("Real A", "Alpha"),
			"https://blog.example.com/b": `<html><body><p>No heading here</p></body></html>`,
		})

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		posts := postsOf(events)
		require.Len(t, posts, 2)
		assert.Equal(t, "Real A", posts[0].Title)
		assert.Equal(t, blogtext.UntitledPost, posts[1].Title)
	})

	t.Run("extracts inline feed content without fetching posts", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			blogURL + "f.json": `{"items": [{"url": "https://blog.example.com/a", "title": "A", "content_html": "<p>Inline</p><p>Body</p>"}]}`,
		})
		c := newCrawler(s)
		c.UseFeedContent = true

		events, err := collect(t, c, blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		assert.Equal(t, []blogtext.ExtractedPost{
			{Title: "A", Content: "Inline\n\nBody", URL: "https://blog.example.com/a"},
		}, postsOf(events))
		assert.Equal(t, []string{blogURL + "f.json"}, s.fetches())
	})

	t.Run("completes with a status when no posts are found", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{blogURL: `<html><body><p>Welcome</p></body></html>`})

		events, err := collect(t, newCrawler(s), blogtext.ScrapeRequest{BaseURL: blogURL})

		require.NoError(t, err)
		assertSingleTerminal(t, events, blogtext.EventCompleted)
		assert.Empty(t, postsOf(events))
		assert.Equal(t, blogtext.EventStatus, events[len(events)-2].Type)
	})

	t.Run("produces identical events on repeated runs", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(newSite(feedSite(3)))

		first, err := collect(t, c, blogtext.ScrapeRequest{BaseURL: blogURL})
		require.NoError(t, err)
		second, err := collect(t, c, blogtext.ScrapeRequest{BaseURL: blogURL})
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("fails with the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		s := newSite(feedSite(3))
		ctx, cancel := context.WithCancel(context.Background())
		c := newCrawler(s)
		c.Extractor = &mock.Extractor{
			ExtractFn: func(_ context.Context, _ string) (*blogtext.ExtractedPost, error) {
				cancel()
				return &blogtext.ExtractedPost{Title: "x", Content: "y"}, nil
			},
		}
		var events []blogtext.Event

		err := c.Run(ctx, blogtext.ScrapeRequest{BaseURL: blogURL}, func(e blogtext.Event) {
			events = append(events, e)
		})

		assert.ErrorIs(t, err, context.Canceled)
		assertSingleTerminal(t, events, blogtext.EventFailed)
		assert.Len(t, postsOf(events), 1)
		assert.Len(t, s.fetches(), 2)
	})
}

func TestCrawler_Stream(t *testing.T) {
	t.Parallel()

	t.Run("closes the channel after the terminal event", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(newSite(feedSite(2)))

		var events []blogtext.Event
		for e := range c.Stream(context.Background(), blogtext.ScrapeRequest{BaseURL: blogURL}) {
			events = append(events, e)
		}

		assertSingleTerminal(t, events, blogtext.EventCompleted)
		assert.Len(t, postsOf(events), 2)
	})

	t.Run("matches the synchronous event sequence", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(newSite(feedSite(2)))
		want, err := collect(t, c, blogtext.ScrapeRequest{BaseURL: blogURL})
		require.NoError(t, err)

		var got []blogtext.Event
		for e := range c.Stream(context.Background(), blogtext.ScrapeRequest{BaseURL: blogURL}) {
			got = append(got, e)
		}

		assert.Equal(t, want, got)
	})

	t.Run("delivers the failure after cancellation to a slow consumer", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{})
		var once sync.Once
		c := newCrawler(newSite(nil))
		c.Fetcher = &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				once.Do(func() { close(started) })
				<-ctx.Done()
				return "", ctx.Err()
			},
			CloseFn: func() error { return nil },
		}

		ctx, cancel := context.WithCancel(context.Background())
		events := c.Stream(ctx, blogtext.ScrapeRequest{BaseURL: blogURL})
		<-started
		cancel()
		time.Sleep(50 * time.Millisecond)

		var got []blogtext.Event
		for e := range events {
			got = append(got, e)
		}

		assertSingleTerminal(t, got, blogtext.EventFailed)
		assert.ErrorIs(t, got[len(got)-1].Err, context.Canceled)
	})

	t.Run("delivers a failure event for invalid requests", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(newSite(nil))

		var events []blogtext.Event
		for e := range c.Stream(context.Background(), blogtext.ScrapeRequest{BaseURL: "not a url"}) {
			events = append(events, e)
		}

		require.Len(t, events, 1)
		assert.Equal(t, blogtext.EINVALID, blogtext.ErrorCode(events[0].Err))
	})
}

func TestCrawler_Run_LogsStateTransitions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := newCrawler(newSite(feedSite(1)))
	c.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := collect(t, c, blogtext.ScrapeRequest{BaseURL: blogURL})

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "run=")
	assert.Contains(t, output, "from=idle to=discovering_feeds")
	assert.Contains(t, output, "from=discovering_feeds to=extracting_content")
	assert.Contains(t, output, "from=extracting_content to=completed")
}
