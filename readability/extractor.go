// Package readability adapts go-readability as a fallback extractor for
// pages whose structure defeats the selector cascade.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/pagesift/pagesift"
)

// Ensure Extractor implements pagesift.Extractor at compile time.
var _ pagesift.Extractor = (*Extractor)(nil)

// DefaultMinTextLen is the minimum extracted text length accepted by
// default. Readability finds "something" on almost any page, so the floor
// is higher than the selector cascade's.
const DefaultMinTextLen = 200

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct {
	minTextLen int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinTextLen sets the minimum text length an extraction must reach;
// shorter results are reported as empty.
func WithMinTextLen(n int) Option {
	return func(e *Extractor) {
		e.minTextLen = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{minTextLen: DefaultMinTextLen}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes raw HTML and returns the main content, or an empty
// result when the page yields less text than the configured minimum.
func (e *Extractor) Extract(rawHTML string) (*pagesift.ExtractResult, error) {
	if rawHTML == "" {
		return nil, pagesift.Errorf(pagesift.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EPARSE, "readability extraction failed: %v", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < e.minTextLen {
		return &pagesift.ExtractResult{}, nil
	}

	return &pagesift.ExtractResult{
		Title:       article.Title,
		Text:        text,
		ContentHTML: article.Content,
		Tier:        "readability",
	}, nil
}
