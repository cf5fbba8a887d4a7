package slog

import (
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/blogtext"
)

// Compile-time interface verification.
var (
	_ blogtext.FeedParser  = (*LoggingFeedParser)(nil)
	_ blogtext.IndexParser = (*LoggingIndexParser)(nil)
)

// LoggingFeedParser wraps a FeedParser with logging.
type LoggingFeedParser struct {
	next   blogtext.FeedParser
	logger *slog.Logger
}

// NewLoggingFeedParser creates a new LoggingFeedParser.
func NewLoggingFeedParser(next blogtext.FeedParser, logger *slog.Logger) *LoggingFeedParser {
	return &LoggingFeedParser{next: next, logger: logger}
}

// ParseFeed delegates to the wrapped parser and logs the entry count.
func (p *LoggingFeedParser) ParseFeed(body string, format blogtext.FeedFormat, feedURL string) (refs []blogtext.PostReference, err error) {
	defer func(begin time.Time) {
		p.logger.Info("feed parse",
			"url", feedURL,
			"format", string(format),
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseFeed(body, format, feedURL)
}

// LoggingIndexParser wraps an IndexParser with logging, including the
// detected blog platform when a detector is supplied.
type LoggingIndexParser struct {
	next     blogtext.IndexParser
	detector blogtext.PlatformDetector
	logger   *slog.Logger
}

// NewLoggingIndexParser creates a new LoggingIndexParser. detector may be nil.
func NewLoggingIndexParser(next blogtext.IndexParser, detector blogtext.PlatformDetector, logger *slog.Logger) *LoggingIndexParser {
	return &LoggingIndexParser{next: next, detector: detector, logger: logger}
}

// ParseIndex delegates to the wrapped parser and logs what it found.
func (p *LoggingIndexParser) ParseIndex(html string, pageURL string) (page *blogtext.IndexPage, err error) {
	platform := "(unknown)"
	if p.detector != nil {
		if detected := p.detector.Detect(html); detected != blogtext.PlatformUnknown {
			platform = string(detected)
		}
	}
	defer func(begin time.Time) {
		var posts int
		var next string
		if page != nil {
			posts = len(page.Posts)
			next = page.Next
		}
		p.logger.Info("index parse",
			"url", pageURL,
			"platform", platform,
			"posts", posts,
			"next", next,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseIndex(html, pageURL)
}

func countWords(s string) int {
	return len(strings.Fields(s))
}
