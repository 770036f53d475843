// Package session manages the lifecycle of crawl sessions: each session
// owns an on-disk directory under the store root and, once built or
// loaded, an in-memory vector index.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/vector"
)

// Store manages sessions under a root data directory. Safe for
// concurrent use; build, load and delete are mutually exclusive per
// session while searches on a loaded index proceed concurrently.
type Store struct {
	root     string
	embedder sitechat.Embedder
	indexes  sitechat.IndexStore
	logger   *slog.Logger

	mu      sync.Mutex
	handles map[string]*handle
}

// handle tracks a single session's directory and loaded index.
type handle struct {
	id  string
	dir string

	mu    sync.RWMutex
	index *vector.Index
}

// NewStore creates a session store rooted at dir.
func NewStore(root string, embedder sitechat.Embedder, indexes sitechat.IndexStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		root:     root,
		embedder: embedder,
		indexes:  indexes,
		logger:   logger,
		handles:  make(map[string]*handle),
	}
}

// validateID rejects session ids that could escape the root directory.
func validateID(id string) error {
	if id == "" {
		return sitechat.Errorf(sitechat.EINVALID, "session id is required")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return sitechat.Errorf(sitechat.EINVALID, "invalid session id %q", id)
	}
	return nil
}

func (s *Store) getOrCreate(id string) (*handle, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.handles[id]
	if !ok {
		h = &handle{id: id, dir: filepath.Join(s.root, id)}
		s.handles[id] = h
	}
	return h, nil
}

// Build chunks the crawled pages, embeds them, persists the index and
// makes the session searchable. A failure at any stage persists nothing
// and leaves any previously built index untouched.
func (s *Store) Build(ctx context.Context, id string, pages []*sitechat.Page, chunker sitechat.Chunker) (int, error) {
	h, err := s.getOrCreate(id)
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	chunks, err := chunker.ChunkPages(pages)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, sitechat.Errorf(sitechat.EINVALID, "no indexable content in crawled pages")
	}

	idx, err := vector.Build(ctx, s.embedder, chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to build index: %w", err)
	}

	if err := s.indexes.Save(ctx, h.dir, pages, chunks); err != nil {
		return 0, fmt.Errorf("failed to persist index: %w", err)
	}

	h.index = idx
	s.logger.Info("session index built", "session", id, "pages", len(pages), "chunks", len(chunks))
	return len(chunks), nil
}

// EnsureLoaded loads the session's persisted index into memory if it is
// not already loaded. Returns false without error when no index has
// been persisted for the session.
func (s *Store) EnsureLoaded(ctx context.Context, id string) (bool, error) {
	_, loaded, err := s.loadHandle(ctx, id)
	return loaded, err
}

// loadHandle returns the session's handle with its index loaded from
// disk if needed. The returned handle stays valid even if the session
// is concurrently deleted; deletion only clears its index.
func (s *Store) loadHandle(ctx context.Context, id string) (*handle, bool, error) {
	h, err := s.getOrCreate(id)
	if err != nil {
		return nil, false, err
	}

	h.mu.RLock()
	loaded := h.index != nil
	h.mu.RUnlock()
	if loaded {
		return h, true, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index != nil {
		return h, true, nil
	}

	chunks, err := s.indexes.Load(ctx, h.dir)
	if err != nil {
		if sitechat.ErrorCode(err) == sitechat.ENOTFOUND {
			return h, false, nil
		}
		return nil, false, err
	}

	idx, err := vector.New(chunks)
	if err != nil {
		return nil, false, err
	}

	h.index = idx
	s.logger.Info("session index loaded", "session", id, "chunks", idx.Len())
	return h, true, nil
}

// Search returns the k chunks most relevant to the query, loading the
// session's persisted index first if needed. Returns ENOTFOUND when the
// session has never been built.
func (s *Store) Search(ctx context.Context, id, query string, k int) ([]*sitechat.ScoredChunk, error) {
	h, loaded, err := s.loadHandle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !loaded {
		return nil, sitechat.Errorf(sitechat.ENOTFOUND, "session %q has no index; crawl a site first", id)
	}

	h.mu.RLock()
	idx := h.index
	h.mu.RUnlock()

	// A concurrent Delete can clear the index between load and read.
	if idx == nil {
		return nil, sitechat.Errorf(sitechat.ENOTFOUND, "session %q has no index; crawl a site first", id)
	}

	return idx.Search(ctx, s.embedder, query, k)
}

// Delete removes the session's on-disk data and in-memory index.
// Deleting a session that does not exist is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	h, ok := s.handles[id]
	if ok {
		delete(s.handles, id)
	}
	s.mu.Unlock()

	if h != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.index = nil
	}

	if err := os.RemoveAll(filepath.Join(s.root, id)); err != nil {
		return fmt.Errorf("failed to delete session data: %w", err)
	}
	return nil
}

// List returns the ids of sessions with on-disk data, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}
