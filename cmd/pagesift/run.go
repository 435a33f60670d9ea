package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/ingest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	if c.Concurrency > 0 {
		deps.Coordinator.Concurrency = c.Concurrency
	}

	if c.Metrics != "" {
		srv := metricsServer(c.Metrics, deps.Metrics)
		go func() {
			<-deps.Ctx.Done()
			_ = srv.Close()
		}()
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(deps.Stderr, "metrics server: %v\n", err)
			}
		}()
		fmt.Fprintf(deps.Stdout, "Serving metrics on %s/metrics\n", c.Metrics)
	}

	interval := c.Interval
	if interval <= 0 && deps.Config != nil {
		interval = deps.Config.Interval()
	}

	loop := interval > 0
	progress := func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Sweeping %d sources\n", event.Total)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.Source, event.Error)
		case ingest.ProgressFinished:
			if loop {
				fmt.Fprintf(deps.Stdout, "Sweep complete: %d new items\n", event.Items)
			}
		}
	}

	// Without an interval a single sweep runs and the summary comes from
	// its result.
	if !loop {
		result, err := deps.Coordinator.IngestAll(deps.Ctx, progress)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Done: %d/%d sources, %d new items (%s)\n",
			result.Done, result.Sources, result.Items, ingest.FormatBytes(result.Bytes))
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Sweeping every %s. Press Ctrl-C to stop.\n", interval)
	err := deps.Coordinator.Run(deps.Ctx, interval, progress)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(deps.Stdout, "Stopped")
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagesift.ErrorMessage(err))
	}
	return err
}

// metricsServer exposes the ingestion metrics registry over HTTP.
func metricsServer(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: mux}
}
