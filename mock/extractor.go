package mock

import "github.com/pagesift/pagesift"

var _ pagesift.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagesift.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*pagesift.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*pagesift.ExtractResult, error) {
	return e.ExtractFn(html)
}
