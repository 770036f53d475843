// Package slog provides logging decorators for sitechat services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Ensure LoggingFetcher implements sitechat.PageFetcher.
var _ sitechat.PageFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a PageFetcher with per-page logging.
type LoggingFetcher struct {
	next   sitechat.PageFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitechat.PageFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (*sitechat.FetchResult, error) {
	begin := time.Now()
	result, err := f.next.Fetch(ctx, url)
	duration := time.Since(begin)

	if err != nil {
		f.logger.Warn("fetch failed",
			"url", url,
			"duration", duration,
			"err", err,
		)
		return nil, err
	}

	f.logger.Info("fetch",
		"url", url,
		"success", result.Success,
		"bytes", len(result.Content),
		"links", len(result.Links.Hrefs()),
		"duration", duration,
	)
	return result, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
