// Package crawl provides blog scraping orchestration.
// It coordinates feed discovery, index walking, fetching and extraction
// of blog posts, reporting progress as an ordered event stream.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/blogtext"
	"github.com/google/uuid"
)

// DefaultProbePaths are feed locations tried relative to the base URL
// before the base page is fetched.
var DefaultProbePaths = []string{"f.json", "f.rss"}

// Crawler runs scraping requests. Runs share no mutable state, so one
// Crawler may serve concurrent runs if its dependencies allow it.
type Crawler struct {
	Fetcher    blogtext.Fetcher
	Extractor  blogtext.Extractor
	Feeds      blogtext.FeedParser
	FeedFinder blogtext.FeedFinder
	Index      blogtext.IndexParser

	// ProbePaths overrides DefaultProbePaths when non-nil.
	ProbePaths []string
	// MaxIndexPages caps the index walk; zero means DefaultMaxIndexPages.
	MaxIndexPages int
	// UseFeedContent extracts inline feed content instead of fetching
	// the post page when a feed entry carries it.
	UseFeedContent bool

	Logger *slog.Logger
}

// run holds the per-run state of one Run call.
type run struct {
	emit   blogtext.EventFunc
	logger *slog.Logger
	state  blogtext.State
}

func (r *run) status(message string) {
	r.emit(blogtext.StatusEvent(message))
}

func (r *run) transition(to blogtext.State) {
	r.logger.Debug("state", "from", r.state, "to", to)
	r.state = to
}

// Run executes req synchronously, delivering events to emit in order.
// Exactly one terminal event is emitted. The returned error is the one
// carried by the EventFailed event, or nil on completion.
func (c *Crawler) Run(ctx context.Context, req blogtext.ScrapeRequest, emit blogtext.EventFunc) error {
	r := &run{
		emit:   emit,
		logger: c.logger().With("run", uuid.NewString(), "url", req.BaseURL),
		state:  blogtext.StateIdle,
	}

	if err := c.execute(ctx, r, req); err != nil {
		r.transition(blogtext.StateFailed)
		r.logger.Error("run failed", "err", err)
		emit(blogtext.Event{Type: blogtext.EventFailed, Message: errorText(err), Err: err})
		return err
	}

	r.transition(blogtext.StateCompleted)
	emit(blogtext.Event{Type: blogtext.EventCompleted})
	return nil
}

// Stream executes req in a new goroutine and returns its events. The
// channel is closed right after the terminal event, which is always
// delivered, so consumers must read until the channel closes. Once ctx is
// canceled, progress events the consumer is not ready for are dropped.
func (c *Crawler) Stream(ctx context.Context, req blogtext.ScrapeRequest) <-chan blogtext.Event {
	ch := make(chan blogtext.Event, 1)
	go func() {
		defer close(ch)
		_ = c.Run(ctx, req, func(e blogtext.Event) {
			if e.Terminal() {
				ch <- e
				return
			}
			select {
			case ch <- e:
			case <-ctx.Done():
			}
		})
	}()
	return ch
}

func (c *Crawler) execute(ctx context.Context, r *run, req blogtext.ScrapeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.transition(blogtext.StateDiscoveringFeeds)
	refs, err := c.discover(ctx, r, req)
	if err != nil {
		return err
	}

	set := NewRefSet()
	set.AddAll(refs)
	refs = set.Refs(req.Limit)
	if len(refs) == 0 {
		r.status("No posts found. This site may not be supported.")
		return nil
	}

	r.transition(blogtext.StateExtractingContent)
	var extracted int
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		post, err := c.extract(ctx, r, ref)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			r.logger.Warn("skip post", "post", ref.URL, "err", err)
			r.status(fmt.Sprintf("Skipping post due to error: %q (%s)", displayTitle(ref), errorText(err)))
			continue
		}
		extracted++
		r.emit(blogtext.PostEvent(post))
	}

	if extracted == 0 {
		r.status("No posts could be extracted.")
	}
	return ctx.Err()
}

// discover locates post references: probed feeds first, then feeds the
// base page declares, then the blog's index pages.
func (c *Crawler) discover(ctx context.Context, r *run, req blogtext.ScrapeRequest) ([]blogtext.PostReference, error) {
	base, err := url.Parse(req.BaseURL)
	if err != nil {
		return nil, blogtext.Errorf(blogtext.EINVALID, "invalid base URL: %v", err)
	}

	probed := make(map[string]bool)
	for i, p := range c.probePaths() {
		ref, err := url.Parse(p)
		if err != nil {
			continue
		}
		feedURL := base.ResolveReference(ref).String()
		probed[feedURL] = true

		if i == 0 {
			r.status(fmt.Sprintf("Attempting to find %s feed (%s)...", probeLabel(p), p))
		} else {
			r.status(fmt.Sprintf("Feed not found. Trying %s feed (%s)...", probeLabel(p), p))
		}
		refs, err := c.readFeed(ctx, r, probeFormat(p), feedURL)
		if err != nil {
			return nil, err
		}
		if len(refs) > 0 {
			r.status(fmt.Sprintf("Successfully parsed %s feed. Found %d posts.", probeLabel(p), len(refs)))
			return refs, nil
		}
	}

	r.status(fmt.Sprintf("Fetching %s...", req.BaseURL))
	page, err := c.Fetcher.Fetch(ctx, req.BaseURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	feeds, err := c.FeedFinder.FindFeeds(page, req.BaseURL)
	if err != nil {
		r.status(fmt.Sprintf("Could not read feed links: %s", errorText(err)))
	}
	for _, feed := range feeds {
		if probed[feed.URL] {
			continue
		}
		probed[feed.URL] = true

		r.status(fmt.Sprintf("Trying %s feed at %s...", feedLabel(feed.Format), feed.URL))
		refs, err := c.readFeed(ctx, r, feed.Format, feed.URL)
		if err != nil {
			return nil, err
		}
		if len(refs) > 0 {
			r.status(fmt.Sprintf("Successfully parsed %s feed. Found %d posts.", feedLabel(feed.Format), len(refs)))
			return refs, nil
		}
	}

	r.status("No compatible JSON or RSS feed found. Scanning index pages...")
	r.transition(blogtext.StateDiscoveringFallback)
	walker := &IndexWalker{
		Fetcher:  c.Fetcher,
		Parser:   c.Index,
		MaxPages: c.MaxIndexPages,
	}
	refs, err := walker.Walk(ctx, req.BaseURL, page, req.Limit, r.status)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.status(fmt.Sprintf("Could not read index page: %s", errorText(err)))
		return nil, nil
	}
	if len(refs) > 0 {
		r.status(fmt.Sprintf("Found %d posts on index pages.", len(refs)))
	}
	return refs, nil
}

// readFeed fetches and parses one feed. Transport and parse failures are
// reported as status messages and yield no references; only cancellation
// is returned as an error.
func (c *Crawler) readFeed(ctx context.Context, r *run, format blogtext.FeedFormat, feedURL string) ([]blogtext.PostReference, error) {
	body, err := c.Fetcher.Fetch(ctx, feedURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Debug("feed unavailable", "feed", feedURL, "err", err)
		r.status(fmt.Sprintf("Feed %s unavailable: %s", feedURL, errorText(err)))
		return nil, nil
	}

	refs, err := c.Feeds.ParseFeed(body, format, feedURL)
	if err != nil {
		r.logger.Debug("feed unreadable", "feed", feedURL, "err", err)
		r.status(fmt.Sprintf("Could not parse feed %s: %s", feedURL, errorText(err)))
		return nil, nil
	}
	return refs, nil
}

// extract produces the post for ref, from inline feed content when
// enabled and usable, otherwise from the fetched post page.
func (c *Crawler) extract(ctx context.Context, r *run, ref blogtext.PostReference) (*blogtext.ExtractedPost, error) {
	var post *blogtext.ExtractedPost
	if c.UseFeedContent && strings.TrimSpace(ref.ContentHTML) != "" {
		if p, err := c.Extractor.Extract(ctx, ref.ContentHTML); err == nil {
			post = p
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}

	if post == nil {
		r.status(fmt.Sprintf("Fetching content for: %q...", displayTitle(ref)))
		html, err := c.Fetcher.Fetch(ctx, ref.URL)
		if err != nil {
			return nil, err
		}
		post, err = c.Extractor.Extract(ctx, html)
		if err != nil {
			return nil, err
		}
	}

	out := &blogtext.ExtractedPost{
		Title:   ref.Title,
		Content: post.Content,
		Date:    ref.Date,
		URL:     ref.URL,
	}
	if isUntitled(out.Title) {
		out.Title = post.Title
	}
	if isUntitled(out.Title) {
		out.Title = blogtext.UntitledPost
	}
	if out.Date == "" {
		out.Date = post.Date
	}
	return out, nil
}

func (c *Crawler) probePaths() []string {
	if c.ProbePaths != nil {
		return c.ProbePaths
	}
	return DefaultProbePaths
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func isUntitled(title string) bool {
	title = strings.TrimSpace(title)
	return title == "" || title == blogtext.UntitledPost
}

func displayTitle(ref blogtext.PostReference) string {
	if isUntitled(ref.Title) {
		return ref.URL
	}
	return ref.Title
}

// probeFormat guesses a probed feed's format from its extension.
func probeFormat(p string) blogtext.FeedFormat {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return blogtext.FeedJSON
	case ".atom":
		return blogtext.FeedAtom
	default:
		return blogtext.FeedRSS
	}
}

func probeLabel(p string) string {
	return feedLabel(probeFormat(p))
}

func feedLabel(f blogtext.FeedFormat) string {
	switch f {
	case blogtext.FeedJSON:
		return "JSON"
	case blogtext.FeedRSS:
		return "RSS"
	case blogtext.FeedAtom:
		return "Atom"
	default:
		return string(f)
	}
}
