package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of pagesift.Fetcher.
type Fetcher struct {
	NameFn  func() string
	FetchFn func(ctx context.Context, url string) (*pagesift.PageSnapshot, error)
	CloseFn func() error
}

func (f *Fetcher) Name() string {
	if f.NameFn == nil {
		return "mock"
	}
	return f.NameFn()
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagesift.PageSnapshot, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
