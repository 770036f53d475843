// Package vector provides an in-memory cosine-similarity index over
// embedded chunks. Search is brute force, which is fast enough for the
// few thousand chunks a single site crawl produces.
package vector

import (
	"context"
	"math"
	"sort"

	"github.com/sitechat/sitechat"
)

// Index holds embedded chunks and answers nearest-neighbor queries by
// cosine similarity. An Index is immutable after construction and safe
// for concurrent use.
type Index struct {
	chunks []*sitechat.Chunk
	norms  []float64
	dim    int
}

// New builds an index over chunks that already carry embeddings. All
// embeddings must be present and share the same dimension.
func New(chunks []*sitechat.Chunk) (*Index, error) {
	idx := &Index{
		chunks: chunks,
		norms:  make([]float64, len(chunks)),
	}
	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return nil, sitechat.Errorf(sitechat.EINVALID, "chunk %q has no embedding", chunk.ID)
		}
		if idx.dim == 0 {
			idx.dim = len(chunk.Embedding)
		} else if len(chunk.Embedding) != idx.dim {
			return nil, sitechat.Errorf(sitechat.EINVALID, "chunk %q embedding dimension %d does not match index dimension %d", chunk.ID, len(chunk.Embedding), idx.dim)
		}
		idx.norms[i] = norm(chunk.Embedding)
	}
	return idx, nil
}

// Build embeds the chunk texts and constructs an index over them. The
// chunks are mutated in place to carry their embeddings so they can be
// persisted alongside the index.
func Build(ctx context.Context, embedder sitechat.Embedder, chunks []*sitechat.Chunk) (*Index, error) {
	if len(chunks) == 0 {
		return nil, sitechat.Errorf(sitechat.EINVALID, "no chunks to index")
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(chunks) {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "embedder returned %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	for i, chunk := range chunks {
		chunk.Embedding = embeddings[i]
	}
	return New(chunks)
}

// Search embeds the query and returns the k most similar chunks in
// descending score order. Fewer than k results are returned when the
// index holds fewer chunks.
func (idx *Index) Search(ctx context.Context, embedder sitechat.Embedder, query string, k int) ([]*sitechat.ScoredChunk, error) {
	if k < 1 {
		return nil, sitechat.Errorf(sitechat.EINVALID, "k must be at least 1, got %d", k)
	}
	if len(idx.chunks) == 0 {
		return nil, sitechat.Errorf(sitechat.ENOTREADY, "index is empty")
	}

	queryEmbedding, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(queryEmbedding) != idx.dim {
		return nil, sitechat.Errorf(sitechat.EINTERNAL, "query embedding dimension %d does not match index dimension %d", len(queryEmbedding), idx.dim)
	}

	queryNorm := norm(queryEmbedding)

	scored := make([]*sitechat.ScoredChunk, len(idx.chunks))
	for i, chunk := range idx.chunks {
		scored[i] = &sitechat.ScoredChunk{
			Chunk: chunk,
			Score: cosine(queryEmbedding, queryNorm, chunk.Embedding, idx.norms[i]),
		}
	}

	// Stable sort keeps insertion order among equal scores so results
	// are deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Chunks returns the indexed chunks in insertion order.
func (idx *Index) Chunks() []*sitechat.Chunk {
	return idx.chunks
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}
