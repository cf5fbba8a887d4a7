package mock

import "github.com/fwojciec/blogtext"

// Compile-time interface verification.
var (
	_ blogtext.FeedParser  = (*FeedParser)(nil)
	_ blogtext.FeedFinder  = (*FeedFinder)(nil)
	_ blogtext.IndexParser = (*IndexParser)(nil)
)

// FeedParser is a mock implementation of blogtext.FeedParser.
type FeedParser struct {
	ParseFeedFn func(body string, format blogtext.FeedFormat, feedURL string) ([]blogtext.PostReference, error)
}

func (p *FeedParser) ParseFeed(body string, format blogtext.FeedFormat, feedURL string) ([]blogtext.PostReference, error) {
	return p.ParseFeedFn(body, format, feedURL)
}

// FeedFinder is a mock implementation of blogtext.FeedFinder.
type FeedFinder struct {
	FindFeedsFn func(html string, pageURL string) ([]blogtext.FeedDescriptor, error)
}

func (f *FeedFinder) FindFeeds(html string, pageURL string) ([]blogtext.FeedDescriptor, error) {
	return f.FindFeedsFn(html, pageURL)
}

// IndexParser is a mock implementation of blogtext.IndexParser.
type IndexParser struct {
	ParseIndexFn func(html string, pageURL string) (*blogtext.IndexPage, error)
}

func (p *IndexParser) ParseIndex(html string, pageURL string) (*blogtext.IndexPage, error) {
	return p.ParseIndexFn(html, pageURL)
}

var _ blogtext.PlatformDetector = (*PlatformDetector)(nil)

// PlatformDetector is a mock implementation of blogtext.PlatformDetector.
type PlatformDetector struct {
	DetectFn func(html string) blogtext.Platform
}

func (d *PlatformDetector) Detect(html string) blogtext.Platform {
	return d.DetectFn(html)
}
