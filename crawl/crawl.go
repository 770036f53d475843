// Package crawl implements bounded breadth-first website crawling:
// frontier management, URL deduplication, domain scoping, link
// extraction and budget enforcement.
package crawl

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sitechat/sitechat"
)

// Frontier sizing for a single crawl run.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// DefaultRequestsPerSecond spaces fetches roughly half a second apart,
// matching the politeness throttle the crawler has always used.
const DefaultRequestsPerSecond = 2.0

// Crawler drives a bounded breadth-first traversal of a single site.
// One Crawler may run many crawls; each run owns its own frontier,
// visited set and page collection, so independent runs can execute
// concurrently.
type Crawler struct {
	Fetcher sitechat.PageFetcher
	Limiter sitechat.DomainLimiter

	// Logger receives per-page progress and failures. Optional.
	Logger *slog.Logger

	// SeedURLs are enqueued at depth 1 before the traversal starts
	// (e.g. sitemap discoveries). Subject to the same budgets.
	SeedURLs []string

	// RetryDelays overrides the fetch retry backoff. Used by tests.
	RetryDelays []time.Duration
}

// Result holds the outcome of one crawl run.
type Result struct {
	Pages []*sitechat.Page
	Stats sitechat.CrawlStats
}

// Run crawls the site at baseURL breadth-first within the budget and
// returns the fetched pages in traversal order. Page-level failures
// are logged and swallowed; only aggregate statistics surface.
// Canceling the context abandons the run and returns the context's
// error.
func (c *Crawler) Run(ctx context.Context, baseURL string, budget sitechat.CrawlBudget) (*Result, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "invalid base URL %q", baseURL)
	}
	baseHost := base.Host
	logger := c.logger()

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(sitechat.FrontierEntry{URL: baseURL, Depth: 0})
	for _, seed := range c.SeedURLs {
		frontier.Push(sitechat.FrontierEntry{URL: seed, Depth: 1})
	}

	visited := make(map[string]struct{})
	var visitOrder []string
	var pages []*sitechat.Page
	maxDepthSeen := 0

	for frontier.Len() > 0 && len(visited) < budget.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, _ := frontier.Pop()

		// The depth check is re-applied at dequeue time so budget and
		// depth form two independent stopping conditions.
		if entry.Depth > budget.MaxDepth {
			continue
		}

		normalized := sitechat.NormalizeURL(entry.URL)
		if _, ok := visited[normalized]; ok {
			continue
		}
		// Mark before fetch: a page linking back to an ancestor can
		// never re-enqueue it.
		visited[normalized] = struct{}{}
		visitOrder = append(visitOrder, normalized)

		if c.Limiter != nil {
			host := entryHost(entry.URL, baseHost)
			if err := c.Limiter.Wait(ctx, host); err != nil {
				return nil, err
			}
		}

		logger.Debug("crawling", "url", normalized, "depth", entry.Depth, "indexed", len(pages))

		result, err := c.fetch(ctx, entry.URL)
		if err != nil {
			logger.Warn("page fetch failed", "url", entry.URL, "error", err)
			continue
		}
		if !result.Success || strings.TrimSpace(result.Content) == "" {
			logger.Debug("page skipped, no content", "url", entry.URL)
			continue
		}

		pageURL := result.FinalURL
		if pageURL == "" {
			pageURL = entry.URL
		}
		pages = append(pages, &sitechat.Page{
			URL:     pageURL,
			Title:   result.Title,
			Content: result.Content,
			Depth:   entry.Depth,
		})
		if entry.Depth > maxDepthSeen {
			maxDepthSeen = entry.Depth
		}

		for _, raw := range result.Links.Hrefs() {
			// Soft cutoff: stop enqueuing new work once the page
			// budget is reached; queued entries still drain through
			// the depth check above.
			if len(visited) >= budget.MaxPages {
				break
			}

			absolute := sitechat.ResolveURL(pageURL, raw)
			if absolute == "" {
				continue
			}
			if !sitechat.SameDomain(absolute, baseHost) {
				continue
			}
			link := sitechat.NormalizeURL(absolute)
			if _, ok := visited[link]; ok {
				continue
			}
			frontier.Push(sitechat.FrontierEntry{URL: link, Depth: entry.Depth + 1})
		}
	}

	stats := sitechat.CrawlStats{
		PagesIndexed: len(pages),
		URLsVisited:  visitOrder,
		MaxDepth:     maxDepthSeen,
	}
	logger.Info("crawl completed",
		"pages_indexed", stats.PagesIndexed,
		"urls_visited", len(stats.URLsVisited),
		"max_depth", stats.MaxDepth,
	)

	return &Result{Pages: pages, Stats: stats}, nil
}

// fetch retrieves a single page, retrying transient failures with
// backoff before giving up.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (*sitechat.FetchResult, error) {
	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, c.logger(), delays)
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// entryHost extracts the host for rate limiting, falling back to the
// crawl's base host for URLs that fail to parse.
func entryHost(rawURL, baseHost string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return baseHost
	}
	return u.Host
}
