package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sitechat/sitechat"
)

// indexFileName is the database file holding a session's index inside
// its session directory.
const indexFileName = "index.db"

// Compile-time interface verification.
var _ sitechat.IndexStore = (*IndexStore)(nil)

// IndexStore implements sitechat.IndexStore using one SQLite database
// file per session directory. Saves are atomic: the index is written to
// a temporary file and renamed into place only after a successful
// commit, so a crash or error mid-save never corrupts an existing index.
type IndexStore struct{}

// NewIndexStore creates a new IndexStore.
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Save writes pages and chunks to a fresh database file and atomically
// replaces any existing index at dir.
func (s *IndexStore) Save(ctx context.Context, dir string, pages []*sitechat.Page, chunks []*sitechat.Chunk) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmpPath := filepath.Join(dir, indexFileName+".tmp")

	// Remove any leftover temp file from a previous failed save.
	_ = os.Remove(tmpPath)

	if err := s.writeIndex(ctx, tmpPath, pages, chunks); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, indexFileName)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to finalize index: %w", err)
	}
	return nil
}

func (s *IndexStore) writeIndex(ctx context.Context, path string, pages []*sitechat.Page, chunks []*sitechat.Chunk) error {
	db := NewDB(path)
	if err := db.Open(); err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, page := range pages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pages (id, url, title, depth, content_hash, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.New().String(), page.URL, page.Title, page.Depth, hashContent(page.Content), now)
		if err != nil {
			return err
		}
	}

	for i, chunk := range chunks {
		if len(chunk.Embedding) == 0 {
			return sitechat.Errorf(sitechat.EINVALID, "chunk %q has no embedding", chunk.ID)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, position, content, source_url, title, depth, ordinal, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, chunk.ID, i, chunk.Text, chunk.SourceURL, chunk.Title, chunk.Depth, chunk.Ordinal,
			encodeVector(chunk.Embedding))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load reads back the chunks from a previously saved index in their
// original order.
func (s *IndexStore) Load(ctx context.Context, dir string) ([]*sitechat.Chunk, error) {
	path := filepath.Join(dir, indexFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, sitechat.Errorf(sitechat.ENOTFOUND, "no index found")
	}

	db := NewDB(path)
	if err := db.Open(); err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, content, source_url, title, depth, ordinal, embedding
		FROM chunks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*sitechat.Chunk
	for rows.Next() {
		var chunk sitechat.Chunk
		var blob []byte

		if err := rows.Scan(&chunk.ID, &chunk.Text, &chunk.SourceURL, &chunk.Title,
			&chunk.Depth, &chunk.Ordinal, &blob); err != nil {
			return nil, err
		}

		chunk.Embedding, err = decodeVector(blob)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, &chunk)
	}

	return chunks, rows.Err()
}
