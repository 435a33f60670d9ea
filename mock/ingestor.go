package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.Ingestor = (*Ingestor)(nil)

// Ingestor is a mock implementation of pagesift.Ingestor.
type Ingestor struct {
	IngestFn func(ctx context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error)
}

func (i *Ingestor) Ingest(ctx context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
	return i.IngestFn(ctx, source)
}
