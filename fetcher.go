package sitechat

import "context"

// FetchResult is the outcome of fetching a single page. The crawler
// only depends on this shape; how the page was retrieved (plain HTTP,
// headless browser) is up to the PageFetcher implementation.
type FetchResult struct {
	// Success reports whether the page yielded usable content.
	Success bool `json:"success"`

	// FinalURL is the URL after redirects. Falls back to the
	// requested URL when empty.
	FinalURL string `json:"finalUrl"`

	// Content is the page's main text as markdown.
	Content string `json:"content"`

	// Title is the page title, if one was found.
	Title string `json:"title"`

	// Links holds the page's outbound links in whatever shape the
	// fetcher produced them. See LinkData.
	Links LinkData `json:"links"`
}

// PageFetcher retrieves pages for the crawler. It is the extension
// point for fetch policy: implementations decide transport, timeouts,
// and content extraction.
type PageFetcher interface {
	// Fetch retrieves the page at url. A failed fetch may be
	// reported either as an error or as a result with Success=false;
	// the crawler treats both as a page-level failure.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases fetcher resources.
	// Must be called when the PageFetcher is no longer needed.
	Close() error
}
