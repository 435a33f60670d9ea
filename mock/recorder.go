package mock

import (
	"context"

	"github.com/pagesift/pagesift"
)

var _ pagesift.DiagnosticsRecorder = (*DiagnosticsRecorder)(nil)

// DiagnosticsRecorder is a mock implementation of pagesift.DiagnosticsRecorder.
type DiagnosticsRecorder struct {
	RecordFn func(ctx context.Context, sourceID, strategy string, artifact pagesift.Artifact) (string, error)
}

func (r *DiagnosticsRecorder) Record(ctx context.Context, sourceID, strategy string, artifact pagesift.Artifact) (string, error) {
	return r.RecordFn(ctx, sourceID, strategy, artifact)
}
