package pagesift

import "context"

// Artifact is one diagnostics capture: a screenshot, an HTML excerpt, or a
// text dump taken when a strategy failed.
type Artifact struct {
	// Ext is the file extension without dot ("png", "html", "txt").
	Ext string

	Data []byte
}

// DiagnosticsRecorder stores failure artifacts for offline debugging.
// Recording is a pure side effect: implementations must never influence
// control flow, and callers ignore record failures beyond logging them.
type DiagnosticsRecorder interface {
	// Record stores an artifact keyed by source, strategy, and capture
	// time. It returns the stored artifact's reference (e.g., a file
	// path) for inclusion in attempt records.
	Record(ctx context.Context, sourceID, strategy string, artifact Artifact) (ref string, err error)
}
