package crawl

import (
	"sync"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/bloom"
)

// Compile-time interface verification.
var _ sitechat.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO frontier with Bloom filter enqueue
// deduplication. FIFO order gives the crawler its strict breadth-first
// traversal; the Bloom filter stops the queue from growing without
// bound when pages link to each other repeatedly. The crawler's exact
// visited set remains the authoritative dedup — a Bloom false positive
// only means a link is not enqueued, never that a URL is fetched twice.
//
// Safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue []sitechat.FrontierEntry
}

// NewFrontier creates a new Frontier sized for n expected URLs with
// the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push adds an entry to the frontier. Deduplication is keyed by the
// normalized URL, so raw variants of the same page collapse into one
// queue entry. Returns false if the URL has already been enqueued.
func (f *Frontier) Push(entry sitechat.FrontierEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := sitechat.NormalizeURL(entry.URL)
	if f.seen.Test(key) {
		return false
	}
	f.seen.Add(key)

	f.queue = append(f.queue, entry)
	return true
}

// Pop returns the oldest entry (FIFO).
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (sitechat.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return sitechat.FrontierEntry{}, false
	}
	entry := f.queue[0]
	f.queue = f.queue[1:]
	return entry, true
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been enqueued at some point.
// The URL is normalized before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(sitechat.NormalizeURL(rawURL))
}
