package mock

import (
	"context"

	"github.com/sitechat/sitechat"
)

var _ sitechat.IndexStore = (*IndexStore)(nil)

// IndexStore is a mock implementation of sitechat.IndexStore.
type IndexStore struct {
	SaveFn func(ctx context.Context, dir string, pages []*sitechat.Page, chunks []*sitechat.Chunk) error
	LoadFn func(ctx context.Context, dir string) ([]*sitechat.Chunk, error)
}

func (s *IndexStore) Save(ctx context.Context, dir string, pages []*sitechat.Page, chunks []*sitechat.Chunk) error {
	return s.SaveFn(ctx, dir, pages, chunks)
}

func (s *IndexStore) Load(ctx context.Context, dir string) ([]*sitechat.Chunk, error) {
	return s.LoadFn(ctx, dir)
}
