package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/blogtext"
	"github.com/fwojciec/blogtext/crawl"
	"github.com/fwojciec/blogtext/feed"
	"github.com/fwojciec/blogtext/gemini"
	"github.com/fwojciec/blogtext/goquery"
	"github.com/fwojciec/blogtext/htmltomarkdown"
	bloghttp "github.com/fwojciec/blogtext/http"
	bloglingua "github.com/fwojciec/blogtext/lingua"
	"github.com/fwojciec/blogtext/readability"
	blogslog "github.com/fwojciec/blogtext/slog"
	"github.com/fwojciec/blogtext/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// reported reports whether err was already printed by the command.
func reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

// Main represents the program.
type Main struct {
	// Getenv looks up environment variables.
	Getenv func(string) string

	// Fetcher replaces the relay fetcher when set. Used for end-to-end tests.
	Fetcher blogtext.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Getenv: os.Getenv,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogtext"),
		kong.Description("Extract the full text of every post on a blog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no blog URL provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		fetcher = newRelayFetcher(cli, cfg)
	}
	defer fetcher.Close()

	extractor, err := m.newExtractor(ctx, cli, cfg, stderr)
	if err != nil {
		return err
	}

	detector := goquery.NewDetector()
	deps.Crawler = &crawl.Crawler{
		Fetcher:        blogslog.NewLoggingFetcher(fetcher, logger),
		Extractor:      blogslog.NewLoggingExtractor(extractor, cli.Extractor, logger),
		Feeds:          blogslog.NewLoggingFeedParser(feed.NewParser(), logger),
		FeedFinder:     goquery.NewFeedFinder(),
		Index:          blogslog.NewLoggingIndexParser(goquery.NewIndexParser(), detector, logger),
		ProbePaths:     cfg.ProbePaths,
		MaxIndexPages:  firstPositive(cli.MaxPages, cfg.MaxIndexPages),
		UseFeedContent: cli.FeedContent,
		Logger:         logger,
	}

	if cli.DetectLanguage {
		deps.Languages = bloglingua.NewDetector()
	}

	cmd := &ScrapeCmd{
		URL:    cli.URL,
		Limit:  cli.Limit,
		Format: cli.Format,
		Output: cli.Output,
		Dir:    cli.Dir,
		Search: cli.Search,
		Sort:   cli.Sort,
		Count:  cli.Count,
	}
	return cmd.Run(deps)
}

func newRelayFetcher(cli *CLI, cfg *Config) *bloghttp.RelayFetcher {
	opts := []bloghttp.Option{}
	if len(cfg.Routes) > 0 {
		opts = append(opts, bloghttp.WithRoutes(cfg.Routes))
	}
	if timeout := cli.Timeout; timeout > 0 {
		opts = append(opts, bloghttp.WithTimeout(timeout))
	} else if cfg.Timeout > 0 {
		opts = append(opts, bloghttp.WithTimeout(cfg.Timeout))
	}
	if cli.Retries >= 0 {
		opts = append(opts, bloghttp.WithRetries(cli.Retries))
	} else if cfg.Retries != nil {
		opts = append(opts, bloghttp.WithRetries(*cfg.Retries))
	}
	if cfg.Backoff > 0 {
		opts = append(opts, bloghttp.WithBackoff(cfg.Backoff))
	}
	if rps := firstPositiveFloat(cli.RelayRPS, cfg.RelayRPS); rps > 0 {
		opts = append(opts, bloghttp.WithLimiter(crawl.NewDomainLimiter(rps)))
	}
	return bloghttp.NewRelayFetcher(opts...)
}

func (m *Main) newExtractor(ctx context.Context, cli *CLI, cfg *Config, stderr io.Writer) (blogtext.Extractor, error) {
	var converter blogtext.Converter
	if cli.Markdown {
		converter = htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(normalizeURL(cli.URL)))
	}

	switch cli.Extractor {
	case "readability":
		if converter != nil {
			return readability.NewExtractor(readability.WithConverter(converter)), nil
		}
		return readability.NewExtractor(), nil
	case "trafilatura":
		if converter != nil {
			return trafilatura.NewExtractor(trafilatura.WithConverter(converter)), nil
		}
		return trafilatura.NewExtractor(), nil
	case "gemini":
		return m.newGeminiExtractor(ctx, cfg, stderr)
	default:
		if converter != nil {
			return goquery.NewExtractor(goquery.WithConverter(converter)), nil
		}
		return goquery.NewExtractor(), nil
	}
}

func (m *Main) newGeminiExtractor(ctx context.Context, cfg *Config, stderr io.Writer) (blogtext.Extractor, error) {
	apiKey := m.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	opts := []gemini.Option{}
	if cfg.GeminiModel != "" {
		opts = append(opts, gemini.WithModel(cfg.GeminiModel))
	}
	counter, err := gemini.NewTokenCounter(cfg.GeminiModel)
	if err != nil {
		fmt.Fprintf(stderr, "warning: token counting unavailable, prompts will not be trimmed: %v\n", err)
	} else {
		opts = append(opts, gemini.WithTokenLimit(counter, gemini.DefaultTokenLimit))
	}
	return gemini.NewExtractor(client, opts...), nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstPositiveFloat(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
