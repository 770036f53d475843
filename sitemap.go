package sitechat

import "context"

// SitemapService discovers page URLs from a site's sitemap. Used to
// optionally seed the crawl frontier; the breadth-first traversal and
// its budgets apply to seeded URLs like any other.
type SitemapService interface {
	// DiscoverURLs returns same-host URLs listed in the site's
	// sitemap(s). An absent sitemap yields an empty slice, not an
	// error.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
