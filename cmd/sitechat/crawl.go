package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sitechat/sitechat"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	sessionID := c.Session
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	if c.Sitemap {
		seeds, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "warning: sitemap discovery failed: %s\n", err)
		} else if len(seeds) > 0 {
			fmt.Fprintf(deps.Stdout, "Seeding crawl with %d sitemap URLs\n", len(seeds))
			deps.Crawler.SeedURLs = seeds
		}
	}

	budget := sitechat.CrawlBudget{MaxDepth: c.Depth, MaxPages: c.Pages}
	result, err := deps.Crawler.Run(deps.Ctx, c.URL, budget)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	if result.Stats.PagesIndexed == 0 {
		fmt.Fprintf(deps.Stderr, "error: no pages with retrievable content found at %s\n", c.URL)
		return sitechat.Errorf(sitechat.ENOTFOUND, "no indexable pages at %q", c.URL)
	}

	chunker := sitechat.Chunker{Size: c.ChunkSize, Overlap: c.ChunkOverlap}
	chunks, err := deps.Sessions.Build(deps.Ctx, sessionID, result.Pages, chunker)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Session:       %s\n", sessionID)
	fmt.Fprintf(deps.Stdout, "Pages indexed: %d\n", result.Stats.PagesIndexed)
	fmt.Fprintf(deps.Stdout, "URLs visited:  %d\n", len(result.Stats.URLsVisited))
	fmt.Fprintf(deps.Stdout, "Max depth:     %d\n", result.Stats.MaxDepth)
	fmt.Fprintf(deps.Stdout, "Chunks:        %d\n", chunks)

	if deps.TokenCounter != nil {
		total := 0
		for _, page := range result.Pages {
			n, err := deps.TokenCounter.CountTokens(deps.Ctx, page.Content)
			if err != nil {
				total = 0
				break
			}
			total += n
		}
		if total > 0 {
			fmt.Fprintf(deps.Stdout, "Tokens:        %d\n", total)
		}
	}

	return nil
}
