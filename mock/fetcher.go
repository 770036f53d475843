// Package mock provides function-field mock implementations of the
// sitechat domain interfaces for use in tests.
package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of sitechat.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string) (*sitechat.FetchResult, error)
	CloseFn func() error
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (*sitechat.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *PageFetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ sitechat.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitechat.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
