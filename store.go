package sitechat

import "context"

// IndexStore persists a session's crawled pages and embedded chunks so
// a searchable index can be reconstructed without re-embedding.
type IndexStore interface {
	// Save writes pages and chunks to the session directory. The
	// write is atomic: a failed or canceled save leaves no partial
	// index behind, and any previously saved index stays intact.
	Save(ctx context.Context, dir string, pages []*Page, chunks []*Chunk) error

	// Load reads back the chunks (with embeddings) from a prior Save,
	// in their original order. Returns ENOTFOUND when no index exists
	// at dir; callers branch on this to decide whether a session is
	// ready to query.
	Load(ctx context.Context, dir string) ([]*Chunk, error)
}
