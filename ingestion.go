package pagesift

import (
	"context"
	"time"
)

// Outcome is the terminal state of one ingestion run.
type Outcome string

// Outcome constants for IngestionResult.
const (
	OutcomeDone   Outcome = "DONE"
	OutcomeFailed Outcome = "FAILED"
)

// AttemptOutcome describes how a single strategy attempt ended.
type AttemptOutcome string

// Attempt outcome constants for ExtractionAttempt.
const (
	AttemptSuccess AttemptOutcome = "success"
	AttemptEmpty   AttemptOutcome = "empty"
	AttemptError   AttemptOutcome = "error"
)

// ExtractionAttempt records one strategy invocation during an ingestion
// run. Attempts are ephemeral: they live in the IngestionResult and in logs,
// never in the database. The trail is the input an external retry policy
// uses to decide whether to re-invoke ingestion later.
type ExtractionAttempt struct {
	// Strategy is the fetcher name ("static", "render") or "document" for
	// file-backed sources.
	Strategy string `json:"strategy"`

	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`

	Outcome AttemptOutcome `json:"outcome"`

	// ErrorKind is the application error code when Outcome is error.
	ErrorKind string `json:"errorKind,omitempty"`

	// Detail is a short human-readable note (error message, tier name).
	Detail string `json:"detail,omitempty"`

	// DiagnosticsRef is the artifact path when diagnostics were recorded
	// for this attempt.
	DiagnosticsRef string `json:"diagnosticsRef,omitempty"`
}

// IngestionResult is the outcome of one ingestion run for one source.
// Callers must inspect Outcome; a page with no usable content is a normal
// FAILED result, not an error.
type IngestionResult struct {
	SourceID string              `json:"sourceId"`
	Items    []*ContentItem      `json:"items"`
	Attempts []ExtractionAttempt `json:"attempts"`
	Outcome  Outcome             `json:"outcome"`
}

// Ingestor runs the extraction pipeline for a single source.
type Ingestor interface {
	// Ingest fetches, extracts, deduplicates, and persists content for
	// the source. It returns an error only for programming errors such as
	// an invalid, inactive, or unknown source reference; strategy
	// failures surface as Outcome FAILED with an attempt trail.
	Ingest(ctx context.Context, source *ContentSource) (*IngestionResult, error)
}

// DomainLimiter enforces politeness limits per domain.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled before the wait
	// completes.
	Wait(ctx context.Context, domain string) error
}
