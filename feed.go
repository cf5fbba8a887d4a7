package blogtext

// FeedFormat identifies a syndication feed format.
type FeedFormat string

// Supported feed formats.
const (
	FeedJSON FeedFormat = "json"
	FeedRSS  FeedFormat = "rss"
	FeedAtom FeedFormat = "atom"
)

// Priority orders feed formats for discovery (lower is tried first).
func (f FeedFormat) Priority() int {
	switch f {
	case FeedJSON:
		return 0
	case FeedRSS:
		return 1
	case FeedAtom:
		return 2
	default:
		return 3
	}
}

// FeedDescriptor locates a discovered feed.
type FeedDescriptor struct {
	Format FeedFormat
	URL    string
}

// FeedParser turns a feed body into post references.
type FeedParser interface {
	// ParseFeed parses body as the given format. Relative URLs are resolved
	// against feedURL and entries without a resolvable link are dropped.
	// Returns EFEEDPARSE when the body is malformed.
	ParseFeed(body string, format FeedFormat, feedURL string) ([]PostReference, error)
}

// FeedFinder discovers feed declarations in an HTML page.
type FeedFinder interface {
	// FindFeeds returns the feeds declared in the page head, JSON feeds first.
	FindFeeds(html string, pageURL string) ([]FeedDescriptor, error)
}
