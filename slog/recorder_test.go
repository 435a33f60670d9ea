package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/mock"
	pagesiftslog "github.com/pagesift/pagesift/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRecorder_Record(t *testing.T) {
	t.Parallel()

	t.Run("logs artifact details and ref", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DiagnosticsRecorder{
			RecordFn: func(ctx context.Context, sourceID, strategy string, artifact pagesift.Artifact) (string, error) {
				return "/tmp/diagnostics/src-1_render_x.png", nil
			},
		}

		recorder := pagesiftslog.NewLoggingRecorder(inner, logger)
		ref, err := recorder.Record(context.Background(), "src-1", "render", pagesift.Artifact{
			Ext:  "png",
			Data: []byte{1, 2, 3},
		})

		require.NoError(t, err)
		assert.Equal(t, "/tmp/diagnostics/src-1_render_x.png", ref)
		output := buf.String()
		assert.Contains(t, output, "diagnostics recorded")
		assert.Contains(t, output, "source_id=src-1")
		assert.Contains(t, output, "strategy=render")
		assert.Contains(t, output, "ext=png")
		assert.Contains(t, output, "bytes=3")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.DiagnosticsRecorder{
			RecordFn: func(ctx context.Context, sourceID, strategy string, artifact pagesift.Artifact) (string, error) {
				return "", pagesift.Errorf(pagesift.EINTERNAL, "disk full")
			},
		}

		recorder := pagesiftslog.NewLoggingRecorder(inner, logger)
		_, err := recorder.Record(context.Background(), "src-1", "render", pagesift.Artifact{Ext: "png"})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "disk full")
	})
}
