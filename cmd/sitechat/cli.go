package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/crawl"
	"github.com/sitechat/sitechat/session"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	Logger       *slog.Logger
	Sessions     *session.Store
	Crawler      *crawl.Crawler
	Sitemaps     sitechat.SitemapService
	TokenCounter sitechat.TokenCounter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl    CrawlCmd    `cmd:"" help:"Crawl a website and build a searchable session index"`
	Query    QueryCmd    `cmd:"" help:"Query a crawled session for relevant content"`
	Sessions SessionsCmd `cmd:"" help:"List sessions with on-disk indexes"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a session and its index"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL          string  `arg:"" help:"Base URL to crawl"`
	Session      string  `short:"s" help:"Session id (generated if omitted)"`
	Depth        int     `short:"d" default:"3" help:"Maximum link depth from the base URL"`
	Pages        int     `short:"p" default:"100" help:"Maximum number of pages to visit"`
	Sitemap      bool    `help:"Seed the crawl from the site's sitemap"`
	RPS          float64 `name:"rps" default:"2" help:"Max requests per second per domain"`
	ChunkSize    int     `default:"1000" help:"Chunk size in characters"`
	ChunkOverlap int     `default:"200" help:"Overlap between consecutive chunks"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Session  string `arg:"" help:"Session id"`
	Question string `arg:"" help:"Question to search the session for"`
	K        int    `short:"k" default:"4" help:"Number of results to return"`
}

// SessionsCmd is the "sessions" subcommand.
type SessionsCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Session string `arg:"" help:"Session id"`
}
