package pagesift

import "context"

// DocumentParser extracts text from local document files, used for sources
// with ContentTypeDocument whose URL is a filesystem path.
type DocumentParser interface {
	// Parse reads the document at path and returns its content.
	// Returns EINVALID for unsupported file types and ENOTFOUND when the
	// file does not exist.
	Parse(ctx context.Context, path string) (*ExtractResult, error)
}
