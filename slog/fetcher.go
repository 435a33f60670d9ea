// Package slog provides logging decorators for the core services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagesift/pagesift"
)

// Ensure LoggingFetcher implements pagesift.Fetcher.
var _ pagesift.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   pagesift.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next pagesift.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Name delegates to the wrapped fetcher.
func (f *LoggingFetcher) Name() string {
	return f.next.Name()
}

// Fetch logs the fetch outcome and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (snap *pagesift.PageSnapshot, err error) {
	defer func(begin time.Time) {
		var size int
		if snap != nil {
			size = len(snap.HTML)
		}
		f.logger.Info("fetch",
			"strategy", f.next.Name(),
			"url", url,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
