// Package gemini implements embedding and token counting using the
// Google Gemini API.
package gemini

import (
	"context"

	"github.com/sitechat/sitechat"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// maxBatchSize is the Gemini API limit on texts per embed call.
const maxBatchSize = 100

// maxConcurrentBatches bounds parallel embed calls for large crawls.
const maxConcurrentBatches = 4

// Ensure Embedder implements sitechat.Embedder at compile time.
var _ sitechat.Embedder = (*Embedder)(nil)

// Embedder implements sitechat.Embedder using Google Gemini embeddings.
type Embedder struct {
	client *genai.Client
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client}
}

// EmbedTexts embeds document texts for indexing. Texts are embedded in
// batches; any batch failure fails the whole call so callers never see
// a partial embedding set.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, sitechat.Errorf(sitechat.EINVALID, "no texts to embed")
	}

	embeddings := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)

	for start := 0; start < len(texts); start += maxBatchSize {
		end := min(start+maxBatchSize, len(texts))
		g.Go(func() error {
			batch, err := e.embedBatch(ctx, texts[start:end], "RETRIEVAL_DOCUMENT")
			if err != nil {
				return err
			}
			copy(embeddings[start:end], batch)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// EmbedQuery embeds a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, sitechat.Errorf(sitechat.EINVALID, "query required")
	}

	embeddings, err := e.embedBatch(ctx, []string{query}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(result), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, sitechat.Errorf(sitechat.EINTERNAL, "gemini returned empty embedding at index %d", i)
		}
		embeddings[i] = emb.Values
	}
	return embeddings, nil
}

func embeddingCount(result *genai.EmbedContentResponse) int {
	if result == nil {
		return 0
	}
	return len(result.Embeddings)
}
