// Package document parses local files registered as document sources.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pagesift/pagesift"
)

// Compile-time interface verification.
var _ pagesift.DocumentParser = (*Parser)(nil)

// Parser implements pagesift.DocumentParser for markdown, plain text and
// PDF files.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads the document at path and returns its content.
func (p *Parser) Parse(ctx context.Context, path string) (*pagesift.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, pagesift.Errorf(pagesift.ENOTFOUND, "document not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".md":
		return p.parseMarkdown(path)
	case ".txt":
		return p.parseText(path)
	case ".pdf":
		return p.parsePDF(path)
	default:
		return nil, pagesift.Errorf(pagesift.EINVALID, "unsupported document type %q", ext)
	}
}

func (p *Parser) parseMarkdown(path string) (*pagesift.ExtractResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	text := strings.TrimSpace(string(content))

	title := firstHeading(text)
	if title == "" {
		title = filenameTitle(path)
	}

	return &pagesift.ExtractResult{
		Title: title,
		Text:  text,
		Tier:  "document",
	}, nil
}

func (p *Parser) parseText(path string) (*pagesift.ExtractResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return &pagesift.ExtractResult{
		Title: filenameTitle(path),
		Text:  strings.TrimSpace(string(content)),
		Tier:  "document",
	}, nil
}

// firstHeading returns the text of the first level-one markdown heading.
func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// filenameTitle derives a title from the file name, minus the extension.
func filenameTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
