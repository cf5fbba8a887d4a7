package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/crawl"
	"github.com/fwojciec/blogtext/export"
	"github.com/fwojciec/blogtext/fs"
)

// ScrapeCmd extracts a blog's posts and writes them out.
type ScrapeCmd struct {
	URL    string
	Limit  int
	Format string
	Output string
	Dir    string
	Search string
	Sort   string
	Count  int
}

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	order, err := export.ParseSortOrder(c.Sort)
	if err != nil {
		return err
	}

	req := blogtext.ScrapeRequest{BaseURL: normalizeURL(c.URL), Limit: c.Limit}
	if err := req.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogtext.ErrorMessage(err))
		return &reportedError{err: err}
	}

	posts, err := c.collect(deps, req)
	if err != nil {
		return err
	}

	selected := export.Select(posts, c.Search, order, c.Count)
	if len(selected) < len(posts) {
		fmt.Fprintf(deps.Stderr, "Selected %d of %d posts\n", len(selected), len(posts))
	}

	if c.Dir != "" {
		if err := c.saveDir(deps, selected); err != nil {
			return err
		}
	}
	return c.write(deps, selected)
}

// collect consumes the crawler's event stream, printing progress to
// stderr. A failed run is reported here and returned as reportedError.
func (c *ScrapeCmd) collect(deps *Dependencies, req blogtext.ScrapeRequest) ([]*blogtext.ExtractedPost, error) {
	var (
		posts  []*blogtext.ExtractedPost
		runErr error
	)
	for e := range deps.Crawler.Stream(deps.Ctx, req) {
		switch e.Type {
		case blogtext.EventStatus:
			fmt.Fprintln(deps.Stderr, e.Message)
		case blogtext.EventPost:
			posts = append(posts, e.Post)
			fmt.Fprintf(deps.Stderr, "[%d] %s (%s) %s\n",
				len(posts), e.Post.Title,
				crawl.FormatWords(crawl.CountWords(e.Post.Content)),
				crawl.ShortURL(e.Post.URL, 60))
		case blogtext.EventFailed:
			fmt.Fprintf(deps.Stderr, "error: %s\n", e.Message)
			runErr = &reportedError{err: e.Err}
		case blogtext.EventCompleted:
			fmt.Fprintf(deps.Stderr, "Done. Extracted %d posts.\n", len(posts))
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	return posts, nil
}

// reportedError marks an error already printed to stderr.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func (c *ScrapeCmd) write(deps *Dependencies, posts []*blogtext.ExtractedPost) error {
	var buf strings.Builder
	var err error
	switch c.Format {
	case "json":
		err = export.WriteJSON(&buf, posts)
		buf.WriteString("\n")
	case "csv":
		err = export.WriteCSV(&buf, posts)
		buf.WriteString("\n")
	case "markdown":
		err = export.WriteMarkdown(&buf, digestTitle(c.URL), posts)
	default:
		err = export.WriteText(&buf, posts)
	}
	if err != nil {
		return err
	}

	if c.Output == "" || c.Output == "-" {
		_, err := io.WriteString(deps.Stdout, buf.String())
		return err
	}
	if err := os.WriteFile(c.Output, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	fmt.Fprintf(deps.Stderr, "Wrote %d posts (%s) to %s\n", len(posts), crawl.FormatBytes(buf.Len()), c.Output)
	return nil
}

func (c *ScrapeCmd) saveDir(deps *Dependencies, posts []*blogtext.ExtractedPost) error {
	dir := filepath.Clean(c.Dir)
	var opts []fs.Option
	if deps.Languages != nil {
		opts = append(opts, fs.WithLanguageDetector(deps.Languages))
	}
	store := fs.NewFileStore(filepath.Dir(dir), filepath.Base(dir), opts...)
	for _, post := range posts {
		if err := store.Save(deps.Ctx, post); err != nil {
			_ = store.Abort()
			return fmt.Errorf("save %s: %w", post.URL, err)
		}
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		return fmt.Errorf("commit %s: %w", dir, err)
	}
	fmt.Fprintf(deps.Stderr, "Saved %d posts to %s\n", len(posts), dir)
	return nil
}

// digestTitle names a Markdown digest after the blog's host.
func digestTitle(rawURL string) string {
	u, err := url.Parse(normalizeURL(rawURL))
	if err != nil || u.Host == "" {
		return "Blog posts"
	}
	return "Posts from " + u.Host
}
