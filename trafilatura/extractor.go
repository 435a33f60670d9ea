// Package trafilatura adapts go-trafilatura as an alternative extraction
// engine, selectable in place of the selector cascade.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/pagesift/pagesift"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pagesift.Extractor at compile time.
var _ pagesift.Extractor = (*Extractor)(nil)

// DefaultMinTextLen is the minimum extracted text length accepted by default.
const DefaultMinTextLen = 100

// Extractor wraps go-trafilatura to extract main content from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EPARSE, "trafilatura extraction failed: %v", err)
	}

	text := strings.TrimSpace(result.ContentText)
	if len(text) < e.minTextLen {
		return &pagesift.ExtractResult{}, nil
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &pagesift.ExtractResult{
		Title:       result.Metadata.Title,
		Text:        text,
		ContentHTML: contentHTML,
		Tier:        "trafilatura",
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", pagesift.Errorf(pagesift.EINTERNAL, "failed to render content node: %v", err)
	}
	return buf.String(), nil
}
