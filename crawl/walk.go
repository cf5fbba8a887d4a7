package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/bloom"
)

const (
	// DefaultMaxIndexPages bounds an index walk when no ceiling is set.
	DefaultMaxIndexPages = 100
	// visitedFalsePositiveRate is the acceptable false positive rate for
	// the visited-page filter.
	visitedFalsePositiveRate = 0.001
)

// StatusFunc receives human-readable progress messages.
type StatusFunc func(message string)

// IndexWalker follows a blog's pagination collecting post links.
type IndexWalker struct {
	Fetcher  blogtext.Fetcher
	Parser   blogtext.IndexParser
	MaxPages int
}

// Walk collects post references starting at startURL, whose markup has
// already been fetched as firstHTML. It stops when a page has no next link,
// once limit references are found (limit <= 0 means no limit), at the page
// ceiling, or when a next link points back at a page already visited.
//
// A failure to load a later page ends the walk with a status message and
// keeps what was found. Only a first-page parse failure or cancellation
// is returned as an error.
func (w *IndexWalker) Walk(ctx context.Context, startURL, firstHTML string, limit int, status StatusFunc) ([]blogtext.PostReference, error) {
	if status == nil {
		status = func(string) {}
	}
	maxPages := w.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxIndexPages
	}

	visited := bloom.NewFilter(uint(maxPages), visitedFalsePositiveRate)
	refs := NewRefSet()
	pageURL, html := startURL, firstHTML

	for page := 1; ; page++ {
		visited.Visit(pageURL)

		index, err := w.Parser.ParseIndex(html, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			status(fmt.Sprintf("Could not read index page %s: %s", pageURL, blogtext.ErrorMessage(err)))
			break
		}
		refs.AddAll(index.Posts)

		if limit > 0 && refs.Len() >= limit {
			break
		}
		if index.Next == "" {
			break
		}
		if page >= maxPages {
			status(fmt.Sprintf("Stopped after %d index pages.", maxPages))
			break
		}
		if visited.Seen(index.Next) {
			status(fmt.Sprintf("Index page %s was already visited; stopping after %d pages.", index.Next, visited.Count()))
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		status(fmt.Sprintf("Scanning index page %d: %s", page+1, index.Next))
		next, err := w.Fetcher.Fetch(ctx, index.Next)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			status(fmt.Sprintf("Could not load index page %s: %s", index.Next, errorText(err)))
			break
		}
		pageURL, html = index.Next, next
	}

	return refs.Refs(limit), nil
}

// errorText returns the application message for application errors and
// the error string otherwise.
func errorText(err error) string {
	if blogtext.ErrorCode(err) == blogtext.EINTERNAL {
		return err.Error()
	}
	return blogtext.ErrorMessage(err)
}
