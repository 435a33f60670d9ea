package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pagesift/pagesift"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency bounds how many sources are ingested simultaneously
// during a sweep.
const DefaultConcurrency = 4

// DefaultInterval is the pause between sweeps when running continuously.
const DefaultInterval = time.Hour

// Coordinator fans ingestion out across sources with bounded concurrency.
// Concurrent requests for the same source collapse into one in-flight run
// whose result is shared by every caller.
type Coordinator struct {
	Sources     pagesift.SourceService
	Ingestor    pagesift.Ingestor
	Concurrency int

	flight singleflight.Group
}

// Result holds the outcome of one sweep over the active sources.
type Result struct {
	Sources int
	Done    int
	Failed  int
	Items   int
	Bytes   int
}

// ProgressEvent reports progress during a sweep.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	URL       string
	Items     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting sweep progress.
type ProgressFunc func(event ProgressEvent)

// sweepResult holds the outcome of ingesting a single source.
type sweepResult struct {
	source *pagesift.ContentSource
	result *pagesift.IngestionResult
	err    error
}

// IngestSource runs the pipeline for one source. Concurrent calls for the
// same source ID join the in-flight run and receive its result.
func (c *Coordinator) IngestSource(ctx context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
	if c.Ingestor == nil {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "coordinator is missing an ingestor")
	}
	if source == nil || source.ID == "" {
		return nil, pagesift.Errorf(pagesift.EINVALID, "source required")
	}

	v, err, _ := c.flight.Do(source.ID, func() (any, error) {
		return c.Ingestor.Ingest(ctx, source)
	})
	if err != nil {
		return nil, err
	}
	return v.(*pagesift.IngestionResult), nil
}

// IngestAll sweeps every active source once. The progress callback, if
// provided, receives events as the sweep proceeds. Per-source failures are
// tallied in the result; an error return means the sweep itself could not
// run.
func (c *Coordinator) IngestAll(ctx context.Context, progress ProgressFunc) (*Result, error) {
	if c.Sources == nil || c.Ingestor == nil {
		return nil, pagesift.Errorf(pagesift.EINTERNAL, "coordinator is missing required services")
	}

	sources, err := c.Sources.ListActiveSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active sources: %w", err)
	}

	total := len(sources)
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan sweepResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, source := range sources {
			g.Go(func() error {
				result, err := c.IngestSource(gctx, source)
				resultCh <- sweepResult{source: source, result: result, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	sweep := &Result{Sources: total}
	var completed int
	for res := range resultCh {
		completed++

		switch {
		case res.err != nil:
			sweep.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					Total:     total,
					Source:    res.source.Name,
					URL:       res.source.URL,
					Error:     res.err,
				})
			}
		case res.result.Outcome == pagesift.OutcomeFailed:
			sweep.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					Total:     total,
					Source:    res.source.Name,
					URL:       res.source.URL,
					Error:     attemptError(res.result),
				})
			}
		default:
			sweep.Done++
			sweep.Items += len(res.result.Items)
			for _, item := range res.result.Items {
				sweep.Bytes += len(item.ExtractedText)
			}
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressCompleted,
					Completed: completed,
					Total:     total,
					Source:    res.source.Name,
					URL:       res.source.URL,
					Items:     len(res.result.Items),
				})
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
			Items:     sweep.Items,
		})
	}

	return sweep, nil
}

// Run sweeps the active sources repeatedly, pausing interval between
// sweeps, until the context is canceled. An interval of zero or less uses
// DefaultInterval.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration, progress ProgressFunc) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	for {
		if _, err := c.IngestAll(ctx, progress); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// attemptError summarizes a failed run's final attempt for display.
func attemptError(result *pagesift.IngestionResult) error {
	if len(result.Attempts) == 0 {
		return errors.New("no extraction attempts")
	}
	last := result.Attempts[len(result.Attempts)-1]
	if last.ErrorKind != "" {
		return fmt.Errorf("%s: %s (%s)", last.Strategy, last.Detail, last.ErrorKind)
	}
	return fmt.Errorf("%s: %s", last.Strategy, last.Detail)
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
