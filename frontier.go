package sitechat

import "context"

// FrontierEntry is a discovered-but-not-yet-fetched URL with the depth
// at which it was found. Created when a link is discovered, consumed
// exactly once when dequeued.
type FrontierEntry struct {
	URL   string
	Depth int
}

// URLFrontier manages a crawl queue with enqueue deduplication.
type URLFrontier interface {
	// Push adds an entry to the frontier.
	// Returns false if the URL has already been enqueued.
	Push(entry FrontierEntry) bool

	// Pop returns the next entry in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of entries in the queue.
	Len() int
}

// DomainLimiter provides per-domain rate limiting: the politeness
// throttle between successive fetches against the same host.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
