// Package http provides an HTTP-based implementation of
// sitechat.PageFetcher for sites that don't require JavaScript
// rendering, plus sitemap discovery over HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitechat/sitechat"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// defaultUserAgent identifies the crawler to servers.
const defaultUserAgent = "sitechat/1.0"

// Ensure Fetcher implements sitechat.PageFetcher at compile time.
var _ sitechat.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP requests, extracts the main
// content, converts it to markdown and harvests outbound links grouped
// into internal/external categories.
type Fetcher struct {
	client    *http.Client
	extractor sitechat.Extractor
	converter sitechat.Converter
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with requests.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(extractor sitechat.Extractor, converter sitechat.Converter, opts ...Option) *Fetcher {
	f := &Fetcher{
		extractor: extractor,
		converter: converter,
		timeout:   DefaultFetchTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at pageURL and returns its markdown content
// together with the links found on the page.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*sitechat.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	rawHTML := string(body)

	extracted, err := f.extractor.Extract(rawHTML)
	if err != nil {
		return nil, fmt.Errorf("extracting content from %s: %w", pageURL, err)
	}

	var markdown string
	if extracted.ContentHTML != "" {
		markdown, err = f.converter.Convert(extracted.ContentHTML)
		if err != nil {
			return nil, fmt.Errorf("converting content of %s: %w", pageURL, err)
		}
	}

	title := extracted.Title
	links := sitechat.LinkData{}

	// Links are harvested from the full document, not the extracted
	// content, so navigation links still feed the crawl frontier.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err == nil {
		if title == "" {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
		links = harvestLinks(doc, finalURL)
	}

	return &sitechat.FetchResult{
		Success:  strings.TrimSpace(markdown) != "",
		FinalURL: finalURL,
		Content:  markdown,
		Title:    title,
		Links:    links,
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// harvestLinks collects anchor hrefs from the document grouped into
// internal and external categories relative to pageURL's host.
func harvestLinks(doc *goquery.Document, pageURL string) sitechat.LinkData {
	base, err := url.Parse(pageURL)
	if err != nil {
		return sitechat.LinkData{}
	}

	groups := make(map[string][]sitechat.LinkRef)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		abs := resolved.String()
		if seen[abs] {
			return
		}
		seen[abs] = true

		group := "external"
		if resolved.Host == base.Host {
			group = "internal"
		}
		groups[group] = append(groups[group], sitechat.LinkRef{
			Href: abs,
			Text: strings.TrimSpace(sel.Text()),
		})
	})

	if len(groups) == 0 {
		return sitechat.LinkData{}
	}
	return sitechat.LinkData{Groups: groups}
}
