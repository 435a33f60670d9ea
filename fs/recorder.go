// Package fs stores diagnostics artifacts on the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pagesift/pagesift"
)

// Ensure Recorder implements pagesift.DiagnosticsRecorder at compile time.
var _ pagesift.DiagnosticsRecorder = (*Recorder)(nil)

// timestampLayout keeps artifact names safe on every filesystem; colons
// are replaced with dashes.
const timestampLayout = "2006-01-02T15-04-05Z"

// Recorder writes diagnostics artifacts (screenshots, page excerpts) to a
// local directory, named {source}_{strategy}_{timestamp}.{ext} so related
// captures sort together.
type Recorder struct {
	dir string
}

// NewRecorder creates a Recorder writing into dir. The directory is
// created on first write.
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Record writes the artifact and returns its path.
func (r *Recorder) Record(ctx context.Context, sourceID, strategy string, artifact pagesift.Artifact) (string, error) {
	if len(artifact.Data) == 0 {
		return "", pagesift.Errorf(pagesift.EINVALID, "empty artifact")
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", pagesift.Errorf(pagesift.EINTERNAL, "failed to create diagnostics directory: %v", err)
	}

	ext := strings.TrimPrefix(artifact.Ext, ".")
	if ext == "" {
		ext = "bin"
	}

	name := sanitize(sourceID) + "_" + sanitize(strategy) + "_" +
		time.Now().UTC().Format(timestampLayout) + "." + ext
	path := filepath.Join(r.dir, name)

	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return "", pagesift.Errorf(pagesift.EINTERNAL, "failed to write artifact: %v", err)
	}

	return path, nil
}

// sanitize keeps name components filesystem-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
