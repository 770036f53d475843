package sitechat

import "context"

// Embedder turns text into fixed-length vectors for nearest-neighbor
// comparison. Implementations must be deterministic enough that
// repeated calls on identical text yield vectors usable for consistent
// ranking (not necessarily bit-identical).
type Embedder interface {
	// EmbedTexts embeds a batch of document texts. The result has the
	// same length and order as the input. A failure anywhere fails
	// the whole call; partial results are never returned.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
