// Package slog provides logging decorators for blogtext services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogtext"
)

var _ blogtext.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher records every fetch with its size and latency. Failed
// fetches are logged at warn level together with their error code.
type LoggingFetcher struct {
	next   blogtext.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next blogtext.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (body string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "bytes", len(body), "duration", time.Since(begin)}
		if err != nil {
			f.logger.Warn("fetch", append(attrs, "code", blogtext.ErrorCode(err), "err", err)...)
			return
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
