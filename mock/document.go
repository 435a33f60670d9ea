package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.DocumentParser = (*DocumentParser)(nil)

// DocumentParser is a mock implementation of pagesift.DocumentParser.
type DocumentParser struct {
	ParseFn func(ctx context.Context, path string) (*pagesift.ExtractResult, error)
}

func (p *DocumentParser) Parse(ctx context.Context, path string) (*pagesift.ExtractResult, error) {
	return p.ParseFn(ctx, path)
}
