package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sitechat/sitechat"
)

// Ensure LoggingEmbedder implements sitechat.Embedder.
var _ sitechat.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with call logging.
type LoggingEmbedder struct {
	next   sitechat.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next sitechat.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// EmbedTexts delegates to the wrapped embedder and logs the outcome.
func (e *LoggingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	begin := time.Now()
	embeddings, err := e.next.EmbedTexts(ctx, texts)
	duration := time.Since(begin)

	if err != nil {
		e.logger.Warn("embed texts failed",
			"texts", len(texts),
			"duration", duration,
			"err", err,
		)
		return nil, err
	}

	e.logger.Info("embed texts",
		"texts", len(texts),
		"duration", duration,
	)
	return embeddings, nil
}

// EmbedQuery delegates to the wrapped embedder and logs the outcome.
func (e *LoggingEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	begin := time.Now()
	embedding, err := e.next.EmbedQuery(ctx, query)
	duration := time.Since(begin)

	if err != nil {
		e.logger.Warn("embed query failed",
			"duration", duration,
			"err", err,
		)
		return nil, err
	}

	e.logger.Debug("embed query",
		"duration", duration,
	)
	return embedding, nil
}
