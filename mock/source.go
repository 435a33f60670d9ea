package mock

import (
	"context"
	"time"

	"github.com/pagesift/pagesift"
)

var _ pagesift.SourceService = (*SourceService)(nil)

// SourceService is a mock implementation of pagesift.SourceService.
type SourceService struct {
	CreateSourceFn      func(ctx context.Context, source *pagesift.ContentSource) error
	FindSourceByIDFn    func(ctx context.Context, id string) (*pagesift.ContentSource, error)
	FindSourcesFn       func(ctx context.Context, filter pagesift.SourceFilter) ([]*pagesift.ContentSource, error)
	ListActiveSourcesFn func(ctx context.Context) ([]*pagesift.ContentSource, error)
	LastIngestedAtFn    func(ctx context.Context, id string) (*time.Time, error)
	TouchLastIngestedFn func(ctx context.Context, id string, t time.Time) error
	UpdateSourceFn      func(ctx context.Context, id string, upd pagesift.SourceUpdate) (*pagesift.ContentSource, error)
	DeleteSourceFn      func(ctx context.Context, id string) error
}

func (s *SourceService) CreateSource(ctx context.Context, source *pagesift.ContentSource) error {
	return s.CreateSourceFn(ctx, source)
}

func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*pagesift.ContentSource, error) {
	return s.FindSourceByIDFn(ctx, id)
}

func (s *SourceService) FindSources(ctx context.Context, filter pagesift.SourceFilter) ([]*pagesift.ContentSource, error) {
	return s.FindSourcesFn(ctx, filter)
}

func (s *SourceService) ListActiveSources(ctx context.Context) ([]*pagesift.ContentSource, error) {
	return s.ListActiveSourcesFn(ctx)
}

func (s *SourceService) LastIngestedAt(ctx context.Context, id string) (*time.Time, error) {
	return s.LastIngestedAtFn(ctx, id)
}

func (s *SourceService) TouchLastIngested(ctx context.Context, id string, t time.Time) error {
	return s.TouchLastIngestedFn(ctx, id, t)
}

func (s *SourceService) UpdateSource(ctx context.Context, id string, upd pagesift.SourceUpdate) (*pagesift.ContentSource, error) {
	return s.UpdateSourceFn(ctx, id, upd)
}

func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	return s.DeleteSourceFn(ctx, id)
}
