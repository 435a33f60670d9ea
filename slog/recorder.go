package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/pagesift/pagesift"
)

// Ensure LoggingRecorder implements pagesift.DiagnosticsRecorder.
var _ pagesift.DiagnosticsRecorder = (*LoggingRecorder)(nil)

// LoggingRecorder wraps a DiagnosticsRecorder with debug logging.
type LoggingRecorder struct {
	next   pagesift.DiagnosticsRecorder
	logger *slog.Logger
}

// NewLoggingRecorder creates a new LoggingRecorder.
func NewLoggingRecorder(next pagesift.DiagnosticsRecorder, logger *slog.Logger) *LoggingRecorder {
	return &LoggingRecorder{next: next, logger: logger}
}

// Record logs the artifact write and delegates to the wrapped recorder.
func (r *LoggingRecorder) Record(ctx context.Context, sourceID, strategy string, artifact pagesift.Artifact) (ref string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("diagnostics recorded",
			"source_id", sourceID,
			"strategy", strategy,
			"ext", artifact.Ext,
			"bytes", len(artifact.Data),
			"ref", ref,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Record(ctx, sourceID, strategy, artifact)
}
