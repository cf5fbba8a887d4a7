package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogtext"
)

// Ensure LoggingExtractor implements blogtext.Extractor.
var _ blogtext.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   blogtext.Extractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. name identifies the
// wrapped strategy in log output.
func NewLoggingExtractor(next blogtext.Extractor, name string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the outcome.
func (e *LoggingExtractor) Extract(ctx context.Context, html string) (post *blogtext.ExtractedPost, err error) {
	defer func(begin time.Time) {
		var title string
		var words int
		if post != nil {
			title = post.Title
			words = countWords(post.Content)
		}
		e.logger.Info("extract",
			"extractor", e.name,
			"bytes", len(html),
			"title", title,
			"words", words,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, html)
}
