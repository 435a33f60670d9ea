package pagesift

import (
	"context"
	"net/url"
	"time"
)

// ContentType identifies how a source's content is obtained.
type ContentType string

// Content type constants for ContentSource.
const (
	ContentTypeWebsite     ContentType = "website"
	ContentTypeDocument    ContentType = "document"
	ContentTypeTestimonial ContentType = "testimonial"
	ContentTypeOther       ContentType = "other"
)

// Valid returns true if t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeWebsite, ContentTypeDocument, ContentTypeTestimonial, ContentTypeOther:
		return true
	}
	return false
}

// ContentSource represents a registered origin to be periodically ingested.
// Sources are created by an operator; the ingestion pipeline mutates only
// LastIngestedAt and never deletes a source.
type ContentSource struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	ContentType ContentType       `json:"contentType"`
	IsActive    bool              `json:"isActive"`
	Metadata    map[string]string `json:"metadata,omitempty"`

	// LastIngestedAt is nil until the first ingestion run completes.
	LastIngestedAt *time.Time `json:"lastIngestedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *ContentSource) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.URL == "" {
		return Errorf(EINVALID, "source URL required")
	}
	if !s.ContentType.Valid() {
		return Errorf(EINVALID, "unknown content type %q", s.ContentType)
	}
	if s.ContentType == ContentTypeWebsite {
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Errorf(EINVALID, "source URL must be absolute http(s): %q", s.URL)
		}
	}
	return nil
}

// SourceService represents a service for managing content sources.
type SourceService interface {
	// CreateSource creates a new source.
	CreateSource(ctx context.Context, source *ContentSource) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if source does not exist.
	FindSourceByID(ctx context.Context, id string) (*ContentSource, error)

	// FindSources retrieves sources matching the filter.
	FindSources(ctx context.Context, filter SourceFilter) ([]*ContentSource, error)

	// ListActiveSources retrieves all sources with is_active set,
	// oldest-ingested first so stale sources are picked up earliest.
	ListActiveSources(ctx context.Context) ([]*ContentSource, error)

	// LastIngestedAt returns the last ingestion timestamp for a source,
	// or nil if the source has never been ingested.
	// Returns ENOTFOUND if source does not exist.
	LastIngestedAt(ctx context.Context, id string) (*time.Time, error)

	// TouchLastIngested sets the last ingestion timestamp for a source.
	// Returns ENOTFOUND if source does not exist.
	TouchLastIngested(ctx context.Context, id string, t time.Time) error

	// UpdateSource updates an existing source.
	// Returns ENOTFOUND if source does not exist.
	UpdateSource(ctx context.Context, id string, upd SourceUpdate) (*ContentSource, error)

	// DeleteSource permanently removes a source and its content items.
	// Operator action only; the pipeline never calls this.
	// Returns ENOTFOUND if source does not exist.
	DeleteSource(ctx context.Context, id string) error
}

// SourceFilter represents a filter for FindSources.
type SourceFilter struct {
	ID       *string      `json:"id"`
	Name     *string      `json:"name"`
	IsActive *bool        `json:"isActive"`
	Type     *ContentType `json:"type"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SourceUpdate represents fields that can be updated on a source.
type SourceUpdate struct {
	Name     *string      `json:"name"`
	URL      *string      `json:"url"`
	Type     *ContentType `json:"type"`
	IsActive *bool        `json:"isActive"`
}
