// Package prometheus provides Prometheus instrumentation for ingestion.
package prometheus

import (
	"context"
	"strings"
	"time"

	"github.com/pagesift/pagesift"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ensure MetricsIngestor implements pagesift.Ingestor.
var _ pagesift.Ingestor = (*MetricsIngestor)(nil)

// MetricsIngestor wraps an Ingestor with Prometheus metrics.
type MetricsIngestor struct {
	next pagesift.Ingestor

	runs     *prometheus.CounterVec
	attempts *prometheus.CounterVec
	items    prometheus.Counter
	duration prometheus.Histogram
}

// NewMetricsIngestor creates a MetricsIngestor and registers its collectors
// with reg.
func NewMetricsIngestor(next pagesift.Ingestor, reg prometheus.Registerer) *MetricsIngestor {
	factory := promauto.With(reg)

	return &MetricsIngestor{
		next: next,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagesift",
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Ingestion runs by outcome.",
		}, []string{"outcome"}),
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagesift",
			Subsystem: "ingest",
			Name:      "attempts_total",
			Help:      "Extraction attempts by strategy, outcome, and error kind.",
		}, []string{"strategy", "outcome", "error_kind"}),
		items: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pagesift",
			Subsystem: "ingest",
			Name:      "items_total",
			Help:      "Content items persisted.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pagesift",
			Subsystem: "ingest",
			Name:      "run_duration_seconds",
			Help:      "Ingestion run duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
}

// Ingest delegates to the wrapped Ingestor and observes the run.
func (i *MetricsIngestor) Ingest(ctx context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
	begin := time.Now()
	result, err := i.next.Ingest(ctx, source)
	i.duration.Observe(time.Since(begin).Seconds())

	if err != nil {
		i.runs.WithLabelValues("error").Inc()
		return result, err
	}

	i.runs.WithLabelValues(strings.ToLower(string(result.Outcome))).Inc()
	i.items.Add(float64(len(result.Items)))
	for _, a := range result.Attempts {
		i.attempts.WithLabelValues(a.Strategy, string(a.Outcome), a.ErrorKind).Inc()
	}

	return result, nil
}
