package pagesift

import (
	"context"
	"time"
)

// ExtractionMethod identifies the cheapest fetch strategy that produced a
// content item. A rendered method is never recorded when the static strategy
// already succeeded.
type ExtractionMethod string

// Extraction method constants for ContentItem.
const (
	MethodStatic   ExtractionMethod = "static"
	MethodRendered ExtractionMethod = "rendered"
)

// ItemStatus describes the outcome carried by a content record.
// The pipeline persists items only with StatusOK; the wider enum is part of
// the record shape consumed by downstream collaborators.
type ItemStatus string

// Item status constants for ContentItem.
const (
	StatusOK     ItemStatus = "ok"
	StatusEmpty  ItemStatus = "empty"
	StatusFailed ItemStatus = "failed"
)

// ContentItem represents one extracted unit of text associated with a
// source. Items are created exclusively by the ingestion pipeline and are
// immutable afterwards except for classification metadata attached by an
// external collaborator.
type ContentItem struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	URL      string `json:"url"`
	Title    string `json:"title"`

	ExtractedText string `json:"extractedText"`

	// ContentHash is a stable digest of the whitespace-normalized text,
	// unique per source.
	ContentHash string `json:"contentHash"`

	ExtractionMethod ExtractionMethod `json:"extractionMethod"`
	Status           ItemStatus       `json:"status"`

	// Metadata holds additive fields such as classification results owned
	// by external collaborators; the pipeline only seeds extraction hints.
	Metadata map[string]string `json:"metadata,omitempty"`

	FetchedAt time.Time `json:"fetchedAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *ContentItem) Validate() error {
	if i.SourceID == "" {
		return Errorf(EINVALID, "item source ID required")
	}
	if i.ExtractedText == "" {
		return Errorf(EINVALID, "item extracted text required")
	}
	if i.ContentHash == "" {
		return Errorf(EINVALID, "item content hash required")
	}
	return nil
}

// ItemService represents a service for managing content items.
type ItemService interface {
	// CreateItem creates a new content item.
	// Returns ECONFLICT if the source already has an item with the same
	// content hash.
	CreateItem(ctx context.Context, item *ContentItem) error

	// FindItemByID retrieves an item by ID.
	// Returns ENOTFOUND if item does not exist.
	FindItemByID(ctx context.Context, id string) (*ContentItem, error)

	// FindItems retrieves items matching the filter, newest first.
	FindItems(ctx context.Context, filter ItemFilter) ([]*ContentItem, error)

	// ExistsContentHash reports whether the source already has an item
	// with the given content hash.
	ExistsContentHash(ctx context.Context, sourceID, hash string) (bool, error)

	// CountItems returns the number of items matching the filter.
	CountItems(ctx context.Context, filter ItemFilter) (int, error)
}

// ItemFilter represents a filter for FindItems and CountItems.
type ItemFilter struct {
	ID       *string           `json:"id"`
	SourceID *string           `json:"sourceId"`
	Method   *ExtractionMethod `json:"method"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
