// Package http provides a relay-chain implementation of blogtext.Fetcher.
// Each target URL is tried through an ordered list of routes, with bounded
// retry per route, until one returns a non-empty body.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/blogtext"
)

// Defaults for RelayFetcher.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultRetries      = 2
	DefaultBackoff      = 1 * time.Second
)

// AcceptHeader enumerates the content types the pipeline can consume.
const AcceptHeader = "application/json, application/rss+xml, application/xml, text/xml, text/html, */*"

// Ensure RelayFetcher implements blogtext.Fetcher at compile time.
var _ blogtext.Fetcher = (*RelayFetcher)(nil)

// RelayFetcher retrieves resources through a prioritized chain of routes.
// 5xx responses and network errors are retried on the same route with linear
// back-off; 4xx responses, empty bodies and exhausted retries move on to the
// next route.
type RelayFetcher struct {
	client  *http.Client
	routes  []Route
	timeout time.Duration
	retries int
	backoff time.Duration
	limiter blogtext.DomainLimiter
}

// Option configures a RelayFetcher.
type Option func(*RelayFetcher)

// WithTimeout sets the timeout for a single request attempt.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *RelayFetcher) {
		f.timeout = d
	}
}

// WithRoutes replaces the route chain. Defaults to DefaultRoutes().
func WithRoutes(routes []Route) Option {
	return func(f *RelayFetcher) {
		f.routes = routes
	}
}

// WithRetries sets how many times a route is retried after a retryable failure.
func WithRetries(n int) Option {
	return func(f *RelayFetcher) {
		f.retries = n
	}
}

// WithBackoff sets the back-off unit; attempt n waits n times this duration.
func WithBackoff(d time.Duration) Option {
	return func(f *RelayFetcher) {
		f.backoff = d
	}
}

// WithLimiter waits on limiter for the route's host before every attempt.
func WithLimiter(l blogtext.DomainLimiter) Option {
	return func(f *RelayFetcher) {
		f.limiter = l
	}
}

// WithClient sets the underlying HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *RelayFetcher) {
		f.client = c
	}
}

// NewRelayFetcher creates a new RelayFetcher.
func NewRelayFetcher(opts ...Option) *RelayFetcher {
	f := &RelayFetcher{
		routes:  DefaultRoutes(),
		timeout: DefaultFetchTimeout,
		retries: DefaultRetries,
		backoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.client == nil {
		f.client = &http.Client{}
	}
	return f
}

// Fetch returns the first non-empty body any route produces for url.
// It fails with EEXHAUSTED once every route and retry has failed, or with
// the context's error if the context ends first.
func (f *RelayFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for _, route := range f.routes {
		body, err := f.fetchRoute(ctx, route, url)
		if err == nil {
			return body, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		lastErr = fmt.Errorf("%s: %w", route.Name, err)
	}

	if lastErr == nil {
		return "", blogtext.Errorf(blogtext.EEXHAUSTED, "no relay routes configured for %s", url)
	}
	return "", blogtext.Errorf(blogtext.EEXHAUSTED, "all relay routes failed for %s (last error: %v)", url, lastErr)
}

// fetchRoute tries one route with bounded retry.
func (f *RelayFetcher) fetchRoute(ctx context.Context, route Route, target string) (string, error) {
	requestURL := route.Rewrite(target)

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * f.backoff):
			}
		}

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx, route.Host(target)); err != nil {
				return "", err
			}
		}

		body, err := f.do(ctx, requestURL)
		if err == nil {
			if strings.TrimSpace(body) == "" {
				return "", errEmptyBody
			}
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

// do performs a single GET with the per-attempt timeout.
func (f *RelayFetcher) do(ctx context.Context, requestURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", &permanentError{err: err}
	}
	req.Header.Set("Accept", AcceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, URL: requestURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close releases resources. For the HTTP fetcher this only drops idle connections.
func (f *RelayFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// StatusError reports a non-2xx response from a route.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.Code, e.URL)
}

var errEmptyBody = errors.New("empty response body")

// permanentError marks failures that retrying the same route cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// retryable reports whether err warrants another attempt on the same route.
// Server errors and network failures are retried; client errors are not.
func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	var permErr *permanentError
	return !errors.As(err, &permErr)
}
