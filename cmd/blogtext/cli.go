package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/blogtext"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Crawler Runner

	// Languages tags saved posts with their language when set.
	Languages blogtext.LanguageDetector
}

// Runner streams the events of one scraping request. The channel closes
// after the terminal event.
type Runner interface {
	Stream(ctx context.Context, req blogtext.ScrapeRequest) <-chan blogtext.Event
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL string `arg:"" help:"Blog URL (https:// is assumed when no scheme is given)"`

	Limit       int    `short:"n" help:"Maximum number of posts to extract (0 for no limit)"`
	Extractor   string `short:"e" enum:"heuristic,readability,trafilatura,gemini" default:"heuristic" help:"Content extraction strategy (${enum})"`
	Markdown    bool   `short:"m" help:"Produce Markdown instead of plain text"`
	FeedContent bool   `help:"Use post content embedded in feeds instead of fetching each post"`

	Format string `short:"f" enum:"text,json,csv,markdown" default:"text" help:"Output format (${enum})"`
	Output string `short:"o" type:"path" help:"Write output to this file instead of stdout"`
	Dir    string `short:"d" type:"path" help:"Also save one Markdown file per post into this directory"`
	Search string `short:"s" help:"Only output posts whose title or content contains this text"`
	Sort   string `enum:"default,title-asc,title-desc,length-asc,length-desc" default:"default" help:"Output order (${enum})"`
	Count  int    `short:"c" help:"Only output the first N selected posts (0 for all)"`

	DetectLanguage bool `help:"Record each post's language in the front matter of files saved with --dir"`

	Timeout  time.Duration `short:"t" help:"Timeout per request attempt (default 30s)"`
	Retries  int           `default:"-1" help:"Retries per relay route after a retryable failure (default 2)"`
	MaxPages int           `help:"Maximum index pages to scan when no feed is found (default 100)"`
	RelayRPS float64       `name:"relay-rps" help:"Cap requests per second to each relay host (0 for no cap)"`

	Config  string `type:"path" help:"Configuration file (default $XDG_CONFIG_HOME/blogtext/config.yaml)"`
	Verbose bool   `short:"v" help:"Log requests and state changes to stderr"`
}

// normalizeURL trims rawURL and assumes https when it has no scheme.
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return rawURL
	}
	if strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "https://" + strings.TrimPrefix(rawURL, "//")
}
