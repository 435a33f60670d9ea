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
var _ pagesift.ItemService = (*ItemService)(nil)

// ItemService implements pagesift.ItemService using SQLite.
type ItemService struct {
	db *DB
}

// NewItemService creates a new ItemService.
func NewItemService(db *DB) *ItemService {
	return &ItemService{db: db}
}

// CreateItem creates a new content item. The caller supplies the content
// hash; FetchedAt is preserved when set so items carry the snapshot time
// rather than the insert time.
func (s *ItemService) CreateItem(ctx context.Context, item *pagesift.ContentItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	item.ID = uuid.New().String()
	item.CreatedAt = time.Now().UTC()
	if item.FetchedAt.IsZero() {
		item.FetchedAt = item.CreatedAt
	}
	if item.Status == "" {
		item.Status = pagesift.StatusOK
	}

	metadata, err := marshalMetadata(item.Metadata)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO content_items (id, source_id, url, title, extracted_text, content_hash, extraction_method, status, metadata, fetched_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.SourceID, item.URL, item.Title, item.ExtractedText, item.ContentHash,
		string(item.ExtractionMethod), string(item.Status), metadata,
		item.FetchedAt.UTC().Format(time.RFC3339), item.CreatedAt.Format(time.RFC3339))

	if isUniqueConstraintError(err) {
		return pagesift.Errorf(pagesift.ECONFLICT, "source already has an item with this content hash")
	}

	return err
}

// FindItemByID retrieves an item by ID.
func (s *ItemService) FindItemByID(ctx context.Context, id string) (*pagesift.ContentItem, error) {
	var item pagesift.ContentItem
	var metadata, fetchedAt, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, source_id, url, title, extracted_text, content_hash, extraction_method, status, metadata, fetched_at, created_at
		FROM content_items
		WHERE id = ?
	`, id).Scan(&item.ID, &item.SourceID, &item.URL, &item.Title, &item.ExtractedText,
		&item.ContentHash, &item.ExtractionMethod, &item.Status, &metadata, &fetchedAt, &createdAt)

	if err == sql.ErrNoRows {
		return nil, pagesift.Errorf(pagesift.ENOTFOUND, "item not found")
	}
	if err != nil {
		return nil, err
	}

	item.Metadata, err = unmarshalMetadata(metadata)
	if err != nil {
		return nil, err
	}
	item.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}
	item.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// FindItems retrieves items matching the filter, newest first.
func (s *ItemService) FindItems(ctx context.Context, filter pagesift.ItemFilter) ([]*pagesift.ContentItem, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_id, url, title, extracted_text, content_hash, extraction_method, status, metadata, fetched_at, created_at FROM content_items WHERE 1=1")
	appendItemFilters(&query, &args, filter)

	query.WriteString(" ORDER BY fetched_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*pagesift.ContentItem
	for rows.Next() {
		var item pagesift.ContentItem
		var metadata, fetchedAt, createdAt string

		if err := rows.Scan(&item.ID, &item.SourceID, &item.URL, &item.Title, &item.ExtractedText,
			&item.ContentHash, &item.ExtractionMethod, &item.Status, &metadata, &fetchedAt, &createdAt); err != nil {
			return nil, err
		}

		item.Metadata, err = unmarshalMetadata(metadata)
		if err != nil {
			return nil, err
		}
		item.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}
		item.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		items = append(items, &item)
	}

	return items, rows.Err()
}

// ExistsContentHash reports whether the source already has an item with the
// given content hash.
func (s *ItemService) ExistsContentHash(ctx context.Context, sourceID, hash string) (bool, error) {
	var one int

	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM content_items WHERE source_id = ? AND content_hash = ? LIMIT 1
	`, sourceID, hash).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// CountItems returns the number of items matching the filter.
func (s *ItemService) CountItems(ctx context.Context, filter pagesift.ItemFilter) (int, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT COUNT(*) FROM content_items WHERE 1=1")
	appendItemFilters(&query, &args, filter)

	var count int
	if err := s.db.QueryRowContext(ctx, query.String(), args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// appendItemFilters appends the WHERE clauses shared by FindItems and
// CountItems so both interpret a filter identically.
func appendItemFilters(query *strings.Builder, args *[]any, filter pagesift.ItemFilter) {
	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		*args = append(*args, *filter.ID)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		*args = append(*args, *filter.SourceID)
	}
	if filter.Method != nil {
		query.WriteString(" AND extraction_method = ?")
		*args = append(*args, string(*filter.Method))
	}
}
