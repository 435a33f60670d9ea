package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.ItemService = (*ItemService)(nil)

// ItemService is a mock implementation of pagesift.ItemService.
type ItemService struct {
	CreateItemFn        func(ctx context.Context, item *pagesift.ContentItem) error
	FindItemByIDFn      func(ctx context.Context, id string) (*pagesift.ContentItem, error)
	FindItemsFn         func(ctx context.Context, filter pagesift.ItemFilter) ([]*pagesift.ContentItem, error)
	ExistsContentHashFn func(ctx context.Context, sourceID, hash string) (bool, error)
	CountItemsFn        func(ctx context.Context, filter pagesift.ItemFilter) (int, error)
}

func (s *ItemService) CreateItem(ctx context.Context, item *pagesift.ContentItem) error {
	return s.CreateItemFn(ctx, item)
}

func (s *ItemService) FindItemByID(ctx context.Context, id string) (*pagesift.ContentItem, error) {
	return s.FindItemByIDFn(ctx, id)
}

func (s *ItemService) FindItems(ctx context.Context, filter pagesift.ItemFilter) ([]*pagesift.ContentItem, error) {
	return s.FindItemsFn(ctx, filter)
}

func (s *ItemService) ExistsContentHash(ctx context.Context, sourceID, hash string) (bool, error) {
	return s.ExistsContentHashFn(ctx, sourceID, hash)
}

func (s *ItemService) CountItems(ctx context.Context, filter pagesift.ItemFilter) (int, error) {
	return s.CountItemsFn(ctx, filter)
}
