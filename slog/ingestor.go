package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagesift/pagesift"
)

// Ensure LoggingIngestor implements pagesift.Ingestor.
var _ pagesift.Ingestor = (*LoggingIngestor)(nil)

// LoggingIngestor wraps an Ingestor with per-run logging.
type LoggingIngestor struct {
	next   pagesift.Ingestor
	logger *slog.Logger
}

// NewLoggingIngestor creates a new LoggingIngestor.
func NewLoggingIngestor(next pagesift.Ingestor, logger *slog.Logger) *LoggingIngestor {
	return &LoggingIngestor{next: next, logger: logger}
}

// Ingest logs the run outcome and attempt trail, then delegates.
func (i *LoggingIngestor) Ingest(ctx context.Context, source *pagesift.ContentSource) (result *pagesift.IngestionResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"source_id", source.ID,
			"source", source.Name,
			"url", source.URL,
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs,
				"outcome", string(result.Outcome),
				"items", len(result.Items),
				"attempts", len(result.Attempts),
			)
			for _, a := range result.Attempts {
				i.logger.Debug("extraction attempt",
					"source_id", source.ID,
					"strategy", a.Strategy,
					"outcome", string(a.Outcome),
					"error_kind", a.ErrorKind,
					"duration", a.Duration,
				)
			}
		}
		i.logger.Info("ingest", attrs...)
	}(time.Now())
	return i.next.Ingest(ctx, source)
}
