package ingest_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/ingest"
	"github.com/pagesift/pagesift/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_IngestSource(t *testing.T) {
	t.Parallel()

	t.Run("collapses concurrent runs for the same source", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		var calls atomic.Int32

		c := &ingest.Coordinator{
			Ingestor: &mock.Ingestor{
				IngestFn: func(_ context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
					calls.Add(1)
					<-release
					return &pagesift.IngestionResult{SourceID: source.ID, Outcome: pagesift.OutcomeDone}, nil
				},
			},
		}

		const workers = 5
		var launched, done sync.WaitGroup
		results := make([]*pagesift.IngestionResult, workers)
		errs := make([]error, workers)

		for i := range workers {
			launched.Add(1)
			done.Add(1)
			go func() {
				defer done.Done()
				launched.Done()
				results[i], errs[i] = c.IngestSource(context.Background(), websiteSource())
			}()
		}

		launched.Wait()
		close(release)
		done.Wait()

		assert.Equal(t, int32(1), calls.Load(), "all callers share one in-flight run")
		for i := range workers {
			require.NoError(t, errs[i])
			assert.Same(t, results[0], results[i])
		}
	})

	t.Run("rejects a nil source", func(t *testing.T) {
		t.Parallel()

		c := &ingest.Coordinator{Ingestor: &mock.Ingestor{}}

		result, err := c.IngestSource(context.Background(), nil)

		assert.Nil(t, result)
		assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
	})

	t.Run("propagates ingestor errors", func(t *testing.T) {
		t.Parallel()

		c := &ingest.Coordinator{
			Ingestor: &mock.Ingestor{
				IngestFn: func(_ context.Context, _ *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
					return nil, pagesift.Errorf(pagesift.EINTERNAL, "storage unavailable")
				},
			},
		}

		result, err := c.IngestSource(context.Background(), websiteSource())

		assert.Nil(t, result)
		assert.Equal(t, pagesift.EINTERNAL, pagesift.ErrorCode(err))
	})
}

func TestCoordinator_IngestAll(t *testing.T) {
	t.Parallel()

	t.Run("sweeps every active source", func(t *testing.T) {
		t.Parallel()

		sources := []*pagesift.ContentSource{
			{ID: "src-1", Name: "Blog", URL: "https://example.com/blog", ContentType: pagesift.ContentTypeWebsite, IsActive: true},
			{ID: "src-2", Name: "News", URL: "https://example.org/news", ContentType: pagesift.ContentTypeWebsite, IsActive: true},
			{ID: "src-3", Name: "Status", URL: "https://status.example.com", ContentType: pagesift.ContentTypeWebsite, IsActive: true},
		}

		c := &ingest.Coordinator{
			Sources: &mock.SourceService{
				ListActiveSourcesFn: func(_ context.Context) ([]*pagesift.ContentSource, error) {
					return sources, nil
				},
			},
			Ingestor: &mock.Ingestor{
				IngestFn: func(_ context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
					if source.ID == "src-3" {
						return &pagesift.IngestionResult{
							SourceID: source.ID,
							Outcome:  pagesift.OutcomeFailed,
							Attempts: []pagesift.ExtractionAttempt{{
								Strategy:  "static",
								Outcome:   pagesift.AttemptError,
								ErrorKind: pagesift.ENETWORK,
								Detail:    "connection refused",
							}},
						}, nil
					}
					return &pagesift.IngestionResult{
						SourceID: source.ID,
						Outcome:  pagesift.OutcomeDone,
						Items:    []*pagesift.ContentItem{{SourceID: source.ID, ExtractedText: "hello world"}},
					}, nil
				},
			},
			Concurrency: 2,
		}

		var events []ingest.ProgressEvent
		result, err := c.IngestAll(context.Background(), func(event ingest.ProgressEvent) {
			events = append(events, event)
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, 3, result.Sources)
		assert.Equal(t, 2, result.Done)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 2, result.Items)
		assert.Equal(t, 2*len("hello world"), result.Bytes)

		// Started first and Finished last, with one event per source in between.
		require.Len(t, events, 5)
		assert.Equal(t, ingest.ProgressStarted, events[0].Type)
		assert.Equal(t, 3, events[0].Total)
		assert.Equal(t, ingest.ProgressFinished, events[4].Type)
		assert.Equal(t, 2, events[4].Items)

		var completedEvents, failedEvents int
		for _, event := range events[1:4] {
			switch event.Type {
			case ingest.ProgressCompleted:
				completedEvents++
			case ingest.ProgressFailed:
				failedEvents++
				assert.Equal(t, "Status", event.Source)
				require.Error(t, event.Error)
				assert.Contains(t, event.Error.Error(), "connection refused")
			}
		}
		assert.Equal(t, 2, completedEvents)
		assert.Equal(t, 1, failedEvents)
	})

	t.Run("counts a hard ingestor error as a failure", func(t *testing.T) {
		t.Parallel()

		c := &ingest.Coordinator{
			Sources: &mock.SourceService{
				ListActiveSourcesFn: func(_ context.Context) ([]*pagesift.ContentSource, error) {
					return []*pagesift.ContentSource{websiteSource()}, nil
				},
			},
			Ingestor: &mock.Ingestor{
				IngestFn: func(_ context.Context, _ *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
					return nil, pagesift.Errorf(pagesift.EINTERNAL, "storage unavailable")
				},
			},
		}

		result, err := c.IngestAll(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Done)
	})

	t.Run("returns an error when listing sources fails", func(t *testing.T) {
		t.Parallel()

		c := &ingest.Coordinator{
			Sources: &mock.SourceService{
				ListActiveSourcesFn: func(_ context.Context) ([]*pagesift.ContentSource, error) {
					return nil, pagesift.Errorf(pagesift.EINTERNAL, "db is locked")
				},
			},
			Ingestor: &mock.Ingestor{},
		}

		result, err := c.IngestAll(context.Background(), nil)

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list active sources")
	})
}

func TestCoordinator_Run(t *testing.T) {
	t.Parallel()

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := &ingest.Coordinator{
			Sources: &mock.SourceService{
				ListActiveSourcesFn: func(_ context.Context) ([]*pagesift.ContentSource, error) {
					return nil, nil
				},
			},
			Ingestor: &mock.Ingestor{},
		}

		var sweeps atomic.Int32
		err := c.Run(ctx, 0, func(event ingest.ProgressEvent) {
			if event.Type == ingest.ProgressFinished {
				sweeps.Add(1)
				cancel()
			}
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), sweeps.Load())
	})

	t.Run("propagates sweep errors", func(t *testing.T) {
		t.Parallel()

		c := &ingest.Coordinator{
			Sources: &mock.SourceService{
				ListActiveSourcesFn: func(_ context.Context) ([]*pagesift.ContentSource, error) {
					return nil, pagesift.Errorf(pagesift.EINTERNAL, "db is locked")
				},
			},
			Ingestor: &mock.Ingestor{},
		}

		err := c.Run(context.Background(), 0, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "list active sources")
	})
}

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	t.Run("returns short URLs unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "https://example.com", ingest.TruncateURL("https://example.com", 50))
	})

	t.Run("keeps the end of long URLs", func(t *testing.T) {
		t.Parallel()

		got := ingest.TruncateURL("https://example.com/docs/guides/getting-started", 20)

		assert.Len(t, got, 20)
		assert.True(t, strings.HasPrefix(got, "..."))
		assert.True(t, strings.HasSuffix(got, "getting-started"))
	})

	t.Run("handles tiny limits", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", ingest.TruncateURL("https://example.com", 0))
		assert.Equal(t, "htt", ingest.TruncateURL("https://example.com", 3))
	})
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", ingest.FormatBytes(512))
	assert.Equal(t, "2.0 KB", ingest.FormatBytes(2048))
	assert.Equal(t, "3.0 MB", ingest.FormatBytes(3*1024*1024))
}
