package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/sitechat/sitechat/crawl"
	"github.com/sitechat/sitechat/gemini"
	"github.com/sitechat/sitechat/htmltomarkdown"
	sitechathttp "github.com/sitechat/sitechat/http"
	"github.com/sitechat/sitechat/session"
	sitechatslog "github.com/sitechat/sitechat/slog"
	"github.com/sitechat/sitechat/sqlite"
	"github.com/sitechat/sitechat/trafilatura"
	"google.golang.org/genai"
)

// tokenizerModel is used for token counting statistics after a crawl.
const tokenizerModel = "gemini-2.5-flash"

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Root data directory holding per-session indexes. Set before
	// calling Run().
	DataDir string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitechat"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitechat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Sitemaps = sitechathttp.NewSitemapService(nil)

	// Crawl and query both need the Gemini API for embeddings.
	if cmd == "crawl" || cmd == "query" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		embedder := sitechatslog.NewLoggingEmbedder(gemini.NewEmbedder(client), deps.Logger)
		deps.Sessions = session.NewStore(m.DataDir, embedder, sqlite.NewIndexStore(), deps.Logger)
	} else {
		deps.Sessions = session.NewStore(m.DataDir, nil, sqlite.NewIndexStore(), deps.Logger)
	}

	if cmd == "crawl" {
		fetcher := sitechatslog.NewLoggingFetcher(
			sitechathttp.NewFetcher(trafilatura.NewExtractor(), htmltomarkdown.NewConverter()),
			deps.Logger,
		)
		defer fetcher.Close()

		tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		deps.TokenCounter = tokenCounter

		deps.Crawler = &crawl.Crawler{
			Fetcher: fetcher,
			Limiter: crawl.NewDomainLimiter(cli.Crawl.RPS),
			Logger:  deps.Logger,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDataDir() string {
	if dir := os.Getenv("SITECHAT_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitechat-data"
	}
	return filepath.Join(home, ".sitechat")
}
