package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pagesift/pagesift"
)

// Compile-time interface verification.
var _ pagesift.SourceService = (*SourceService)(nil)

// SourceService implements pagesift.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// CreateSource creates a new source.
func (s *SourceService) CreateSource(ctx context.Context, source *pagesift.ContentSource) error {
	if err := source.Validate(); err != nil {
		return err
	}

	source.ID = uuid.New().String()
	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now

	metadata, err := marshalMetadata(source.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content_sources (id, name, url, content_type, is_active, metadata, last_ingested_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, source.ID, source.Name, source.URL, string(source.ContentType), source.IsActive, metadata,
		nullableTime(source.LastIngestedAt),
		source.CreatedAt.Format(time.RFC3339), source.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindSourceByID retrieves a source by ID.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*pagesift.ContentSource, error) {
	var source pagesift.ContentSource
	var metadata, createdAt, updatedAt string
	var lastIngested sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, url, content_type, is_active, metadata, last_ingested_at, created_at, updated_at
		FROM content_sources
		WHERE id = ?
	`, id).Scan(&source.ID, &source.Name, &source.URL, &source.ContentType, &source.IsActive,
		&metadata, &lastIngested, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	if err := populateSource(&source, metadata, lastIngested, createdAt, updatedAt); err != nil {
		return nil, err
	}

	return &source, nil
}

// FindSources retrieves sources matching the filter.
func (s *SourceService) FindSources(ctx context.Context, filter pagesift.SourceFilter) ([]*pagesift.ContentSource, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, url, content_type, is_active, metadata, last_ingested_at, created_at, updated_at FROM content_sources WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.IsActive != nil {
		query.WriteString(" AND is_active = ?")
		args = append(args, *filter.IsActive)
	}
	if filter.Type != nil {
		query.WriteString(" AND content_type = ?")
		args = append(args, string(*filter.Type))
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	return s.querySources(ctx, query.String(), args...)
}

// ListActiveSources retrieves all active sources, oldest-ingested first.
// NULL orders before any value under ASC in SQLite, so never-ingested
// sources lead the list.
func (s *SourceService) ListActiveSources(ctx context.Context) ([]*pagesift.ContentSource, error) {
	return s.querySources(ctx, `
		SELECT id, name, url, content_type, is_active, metadata, last_ingested_at, created_at, updated_at
		FROM content_sources
		WHERE is_active = 1
		ORDER BY last_ingested_at ASC, created_at ASC
	`)
}

// LastIngestedAt returns the last ingestion timestamp for a source, or nil
// if the source has never been ingested.
func (s *SourceService) LastIngestedAt(ctx context.Context, id string) (*time.Time, error) {
	var lastIngested sql.NullString

	err := s.db.QueryRowContext(ctx, `
		SELECT last_ingested_at FROM content_sources WHERE id = ?
	`, id).Scan(&lastIngested)

	if err == sql.ErrNoRows {
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	if !lastIngested.Valid {
		return nil, nil
	}

	t, err := parseRFC3339(lastIngested.String, "last_ingested_at")
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TouchLastIngested sets the last ingestion timestamp for a source.
func (s *SourceService) TouchLastIngested(ctx context.Context, id string, t time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE content_sources
		SET last_ingested_at = ?, updated_at = ?
		WHERE id = ?
	`, t.UTC().Format(time.RFC3339), time.Now().UTC().Format(time.RFC3339), id)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pagesift.Errorf(pagesift.ENOTFOUND, "source not found")
	}

	return nil
}

// UpdateSource updates an existing source.
func (s *SourceService) UpdateSource(ctx context.Context, id string, upd pagesift.SourceUpdate) (*pagesift.ContentSource, error) {
	// First check if source exists
	source, err := s.FindSourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if upd.Name != nil {
		source.Name = *upd.Name
	}
	if upd.URL != nil {
		source.URL = *upd.URL
	}
	if upd.Type != nil {
		source.ContentType = *upd.Type
	}
	if upd.IsActive != nil {
		source.IsActive = *upd.IsActive
	}

	// Validate before persisting
	if err := source.Validate(); err != nil {
		return nil, err
	}

	source.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE content_sources
		SET name = ?, url = ?, content_type = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`, source.Name, source.URL, string(source.ContentType), source.IsActive,
		source.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return source, nil
}

// DeleteSource permanently removes a source and its content items.
func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM content_sources WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pagesift.Errorf(pagesift.ENOTFOUND, "source not found")
	}

	return nil
}

// querySources runs a SELECT over content_sources and scans the result rows.
func (s *SourceService) querySources(ctx context.Context, query string, args ...any) ([]*pagesift.ContentSource, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*pagesift.ContentSource
	for rows.Next() {
		var source pagesift.ContentSource
		var metadata, createdAt, updatedAt string
		var lastIngested sql.NullString

		if err := rows.Scan(&source.ID, &source.Name, &source.URL, &source.ContentType, &source.IsActive,
			&metadata, &lastIngested, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		if err := populateSource(&source, metadata, lastIngested, createdAt, updatedAt); err != nil {
			return nil, err
		}

		sources = append(sources, &source)
	}

	return sources, rows.Err()
}

// populateSource fills the parsed fields of a scanned source row.
func populateSource(source *pagesift.ContentSource, metadata string, lastIngested sql.NullString, createdAt, updatedAt string) error {
	var err error

	source.Metadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return err
	}

	if lastIngested.Valid {
		t, err := parseRFC3339(lastIngested.String, "last_ingested_at")
		if err != nil {
			return err
		}
		source.LastIngestedAt = &t
	}

	source.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return err
	}
	source.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at")
	if err != nil {
		return err
	}

	return nil
}
