package sitechat

// CrawlBudget bounds a single crawl run. The budget is enforced
// globally across the whole traversal, not per branch.
type CrawlBudget struct {
	// MaxDepth is the maximum link distance from the base URL.
	// The base URL itself is at depth 0.
	MaxDepth int

	// MaxPages caps the number of unique URLs visited in one run.
	MaxPages int
}

// Validate returns an error if the budget contains invalid fields.
func (b CrawlBudget) Validate() error {
	if b.MaxDepth < 0 {
		return Errorf(EINVALID, "max depth must be >= 0")
	}
	if b.MaxPages <= 0 {
		return Errorf(EINVALID, "max pages must be > 0")
	}
	return nil
}

// Page represents a successfully fetched, non-duplicate page from a
// crawl run. Immutable after creation.
type Page struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"` // Markdown
	Depth   int    `json:"depth"`
}

// CrawlStats summarizes the outcome of a crawl run. Individual page
// failures never surface here; only aggregates do.
type CrawlStats struct {
	// PagesIndexed is the number of pages with retrievable content.
	PagesIndexed int `json:"pagesIndexed"`

	// URLsVisited lists every normalized URL visited, in visit order.
	URLsVisited []string `json:"urlsVisited"`

	// MaxDepth is the deepest level at which a page was indexed.
	MaxDepth int `json:"maxDepth"`
}
