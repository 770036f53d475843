package crawl_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/crawl"
	"github.com/sitechat/sitechat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteFetcher is a mock fetcher backed by a static url → result map.
// It records every fetched URL in order.
type siteFetcher struct {
	mu      sync.Mutex
	pages   map[string]*sitechat.FetchResult
	fetched []string
}

func newSiteFetcher(pages map[string]*sitechat.FetchResult) *siteFetcher {
	return &siteFetcher{pages: pages}
}

func (f *siteFetcher) fetcher() *mock.PageFetcher {
	return &mock.PageFetcher{
		FetchFn: func(_ context.Context, url string) (*sitechat.FetchResult, error) {
			f.mu.Lock()
			f.fetched = append(f.fetched, url)
			f.mu.Unlock()

			result, ok := f.pages[url]
			if !ok {
				return nil, errors.New("not found")
			}
			return result, nil
		},
	}
}

func page(content string, links ...string) *sitechat.FetchResult {
	refs := make([]sitechat.LinkRef, len(links))
	for i, l := range links {
		refs[i] = sitechat.LinkRef{Href: l}
	}
	return &sitechat.FetchResult{
		Success: true,
		Content: content,
		Links:   sitechat.LinkData{Flat: refs},
	}
}

func newCrawler(f *siteFetcher) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:     f.fetcher(),
		RetryDelays: []time.Duration{}, // no retries in tests
	}
}

func TestCrawler_Run_BFSOrder(t *testing.T) {
	t.Parallel()

	// A → B, A → C, B → C: exactly {A, B, C} visited once each, in BFS order.
	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":  page("page A", "https://a.com/b", "https://a.com/c"),
		"https://a.com/b": page("page B", "https://a.com/c"),
		"https://a.com/c": page("page C"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	require.Len(t, result.Pages, 3)
	assert.Equal(t, "https://a.com/", result.Stats.URLsVisited[0])
	assert.Equal(t, "https://a.com/b", result.Stats.URLsVisited[1])
	assert.Equal(t, "https://a.com/c", result.Stats.URLsVisited[2])
	assert.Equal(t, []string{"https://a.com/", "https://a.com/b", "https://a.com/c"}, site.fetched)

	assert.Equal(t, 3, result.Stats.PagesIndexed)
	assert.Equal(t, 1, result.Stats.MaxDepth)
	assert.Equal(t, 0, result.Pages[0].Depth)
	assert.Equal(t, 1, result.Pages[1].Depth)
}

func TestCrawler_Run_CyclesAreFetchedOnce(t *testing.T) {
	t.Parallel()

	// A links to itself and B; B links back to A.
	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":  page("page A", "https://a.com/", "https://a.com/b"),
		"https://a.com/b": page("page B", "https://a.com/"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 5, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 2)
	assert.Equal(t, []string{"https://a.com/", "https://a.com/b"}, site.fetched)
}

func TestCrawler_Run_MaxPagesEnforced(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":  page("A", "https://a.com/1", "https://a.com/2", "https://a.com/3"),
		"https://a.com/1": page("1"),
		"https://a.com/2": page("2"),
		"https://a.com/3": page("3"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 3, MaxPages: 2})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Stats.URLsVisited), 2)
	assert.LessOrEqual(t, len(result.Pages), 2)
}

func TestCrawler_Run_MaxDepthEnforced(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":  page("A", "https://a.com/b"),
		"https://a.com/b": page("B", "https://a.com/c"),
		"https://a.com/c": page("C", "https://a.com/d"),
		"https://a.com/d": page("D"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 1, MaxPages: 10})
	require.NoError(t, err)

	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Stats.MaxDepth)
	assert.NotContains(t, site.fetched, "https://a.com/c", "depth 2 page should never be fetched")
}

func TestCrawler_Run_ExternalDomainsFiltered(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/": page("A", "https://b.com/x", "https://a.com/in"),
		"https://a.com/in": page("in"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 3, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 2)
	assert.NotContains(t, site.fetched, "https://b.com/x")
}

func TestCrawler_Run_RelativeLinksResolved(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/docs": page("docs index", "guide", "/about"),
		"https://a.com/guide": page("guide"),
		"https://a.com/about": page("about"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/docs",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 3)
}

func TestCrawler_Run_GroupedLinkDataHandled(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/": {
			Success: true,
			Content: "A",
			Links: sitechat.LinkData{
				Groups: map[string][]sitechat.LinkRef{
					"internal": {{Href: "https://a.com/b"}},
					"external": {{Href: "https://other.com/x"}},
				},
			},
		},
		"https://a.com/b": page("B"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 2)
}

func TestCrawler_Run_FetchFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":  page("A", "https://a.com/broken", "https://a.com/ok"),
		"https://a.com/ok": page("ok"),
		// "broken" missing from the map: the fetcher errors
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 2)
	// The failed URL still counts as visited.
	assert.Contains(t, result.Stats.URLsVisited, "https://a.com/broken")
}

func TestCrawler_Run_EmptyContentNotIndexed(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":      page("A", "https://a.com/blank"),
		"https://a.com/blank": page("   \n "),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 1)
	assert.Len(t, result.Stats.URLsVisited, 2)
}

func TestCrawler_Run_NormalizedDuplicatesCollapse(t *testing.T) {
	t.Parallel()

	// Trailing slash and fragment variants of /b all normalize to one URL.
	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/": page("A",
			"https://a.com/b/", "https://a.com/b#frag", "https://a.com/b"),
		"https://a.com/b": page("B"),
	})

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	assert.Len(t, result.Pages, 2)
	assert.Equal(t, []string{"https://a.com/", "https://a.com/b"}, site.fetched)
}

func TestCrawler_Run_SeedURLs(t *testing.T) {
	t.Parallel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":       page("A"),
		"https://a.com/seeded": page("seeded"),
	})

	crawler := newCrawler(site)
	crawler.SeedURLs = []string{"https://a.com/seeded"}

	result, err := crawler.Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 1, MaxPages: 10})
	require.NoError(t, err)

	require.Len(t, result.Pages, 2)
	assert.Equal(t, 1, result.Pages[1].Depth, "seeded URLs enter at depth 1")
}

func TestCrawler_Run_InvalidInput(t *testing.T) {
	t.Parallel()

	crawler := newCrawler(newSiteFetcher(nil))

	_, err := crawler.Run(context.Background(), "https://a.com/", sitechat.CrawlBudget{MaxDepth: 1, MaxPages: 0})
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))

	_, err = crawler.Run(context.Background(), "not a url", sitechat.CrawlBudget{MaxDepth: 1, MaxPages: 5})
	assert.Equal(t, sitechat.EINVALID, sitechat.ErrorCode(err))
}

func TestCrawler_Run_Cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/": page("A"),
	})

	_, err := newCrawler(site).Run(ctx, "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 1, MaxPages: 5})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCrawler_Run_LimiterWaitsPerFetch(t *testing.T) {
	t.Parallel()

	var waits []string
	site := newSiteFetcher(map[string]*sitechat.FetchResult{
		"https://a.com/":  page("A", "https://a.com/b"),
		"https://a.com/b": page("B"),
	})

	crawler := newCrawler(site)
	crawler.Limiter = &mock.DomainLimiter{
		WaitFn: func(_ context.Context, domain string) error {
			waits = append(waits, domain)
			return nil
		},
	}

	_, err := crawler.Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 2, MaxPages: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.com", "a.com"}, waits)
}

func TestCrawler_Run_NoURLVisitedTwice(t *testing.T) {
	t.Parallel()

	// Dense cross-linking; every page links to every other page.
	urls := []string{"https://a.com/", "https://a.com/x", "https://a.com/y", "https://a.com/z"}
	pages := make(map[string]*sitechat.FetchResult, len(urls))
	for _, u := range urls {
		pages[u] = page("content of "+u, urls...)
	}
	site := newSiteFetcher(pages)

	result, err := newCrawler(site).Run(context.Background(), "https://a.com/",
		sitechat.CrawlBudget{MaxDepth: 10, MaxPages: 100})
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, u := range result.Stats.URLsVisited {
		seen[u]++
	}
	for u, n := range seen {
		assert.Equal(t, 1, n, "URL %s visited %d times", u, n)
	}
	assert.Len(t, site.fetched, len(urls))

	for _, p := range result.Pages {
		assert.True(t, strings.HasPrefix(p.URL, "https://a.com/"))
	}
}
