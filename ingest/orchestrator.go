// Package ingest provides content ingestion orchestration.
// It sequences fetch strategies per source, then deduplicates and persists
// the extracted content.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/bloom"
)

// DefaultMinRawTextLen is the minimum length of a whole-page text dump
// accepted when structural extraction finds nothing.
const DefaultMinRawTextLen = 100

// htmlExcerptCap bounds the HTML stored as a diagnostics artifact.
const htmlExcerptCap = 64 << 10

// Compile-time interface verification.
var _ pagesift.Ingestor = (*Orchestrator)(nil)

// Orchestrator runs the extraction pipeline for a single source: an ordered
// list of fetch strategies, cheapest first, with escalation on failure or
// empty extraction.
type Orchestrator struct {
	Fetchers    []pagesift.Fetcher
	Extractor   pagesift.Extractor
	Converter   pagesift.Converter
	Documents   pagesift.DocumentParser
	Sources     pagesift.SourceService
	Items       pagesift.ItemService
	Recorder    pagesift.DiagnosticsRecorder
	RateLimiter pagesift.DomainLimiter
	Seen        *bloom.SeenCache

	// Cooldown short-circuits ingestion of sources ingested more recently
	// than this window. Zero disables the check.
	Cooldown time.Duration

	// MinRawTextLen overrides DefaultMinRawTextLen when positive.
	MinRawTextLen int

	// ForceDiagnostics records artifacts for successful attempts too.
	ForceDiagnostics bool
}

// Ingest fetches, extracts, deduplicates, and persists content for the
// source. Strategy failures surface in the result's outcome and attempt
// trail; an error return means the source reference or a collaborator is
// unusable.
func (o *Orchestrator) Ingest(ctx context.Context, source *pagesift.ContentSource) (*pagesift.IngestionResult, error) {
	if err := o.validate(source); err != nil {
		return nil, err
	}

	last, err := o.Sources.LastIngestedAt(ctx, source.ID)
	if pagesift.ErrorCode(err) == pagesift.ENOTFOUND {
		return nil, pagesift.Errorf(pagesift.EINVALID, "unknown source %q", source.ID)
	}
	if err != nil {
		return nil, err
	}

	result := &pagesift.IngestionResult{SourceID: source.ID}

	// Recently ingested sources are an idempotent no-op: no attempts, no
	// timestamp change.
	if o.Cooldown > 0 && last != nil && time.Since(*last) < o.Cooldown {
		result.Outcome = pagesift.OutcomeDone
		return result, nil
	}

	if source.ContentType == pagesift.ContentTypeDocument {
		err = o.ingestDocument(ctx, source, result)
	} else {
		err = o.ingestWebsite(ctx, source, result)
	}
	if err != nil {
		return nil, err
	}

	// The timestamp records that an ingestion was attempted, not that it
	// produced content.
	if err := o.Sources.TouchLastIngested(ctx, source.ID, time.Now().UTC()); err != nil {
		return nil, err
	}

	return result, nil
}

func (o *Orchestrator) validate(source *pagesift.ContentSource) error {
	if o.Extractor == nil || o.Sources == nil || o.Items == nil {
		return pagesift.Errorf(pagesift.EINTERNAL, "orchestrator is missing required services")
	}
	if source == nil || source.ID == "" {
		return pagesift.Errorf(pagesift.EINVALID, "source required")
	}
	if !source.IsActive {
		return pagesift.Errorf(pagesift.EINVALID, "source %q is inactive", source.ID)
	}

	switch source.ContentType {
	case pagesift.ContentTypeWebsite:
		if len(o.Fetchers) == 0 {
			return pagesift.Errorf(pagesift.EINTERNAL, "no fetch strategies configured")
		}
	case pagesift.ContentTypeDocument:
		if o.Documents == nil {
			return pagesift.Errorf(pagesift.EINTERNAL, "no document parser configured")
		}
	default:
		return pagesift.Errorf(pagesift.EINVALID, "cannot ingest content type %q", source.ContentType)
	}

	return nil
}

// ingestWebsite walks the strategy list, escalating until one produces
// content or the final strategy fails.
func (o *Orchestrator) ingestWebsite(ctx context.Context, source *pagesift.ContentSource, result *pagesift.IngestionResult) error {
	var lastSnapshot *pagesift.PageSnapshot

	for i, fetcher := range o.Fetchers {
		attempt, snapshot, extracted := o.runStrategy(ctx, fetcher, source)
		if snapshot != nil {
			lastSnapshot = snapshot
		}

		switch nextState(attempt.Outcome, i == len(o.Fetchers)-1) {
		case statePersist:
			if o.ForceDiagnostics {
				attempt.DiagnosticsRef = o.recordDiagnostics(ctx, source.ID, fetcher.Name(), snapshot)
			}
			result.Attempts = append(result.Attempts, attempt)
			return o.persist(ctx, source, result, extracted, methodFor(fetcher.Name()))
		case stateFailed:
			attempt.DiagnosticsRef = o.recordDiagnostics(ctx, source.ID, fetcher.Name(), lastSnapshot)
			result.Attempts = append(result.Attempts, attempt)
			result.Outcome = pagesift.OutcomeFailed
			return nil
		default:
			result.Attempts = append(result.Attempts, attempt)
		}
	}

	return nil
}

// ingestDocument runs the single-attempt path for file-backed sources.
func (o *Orchestrator) ingestDocument(ctx context.Context, source *pagesift.ContentSource, result *pagesift.IngestionResult) error {
	attempt := pagesift.ExtractionAttempt{
		Strategy:  "document",
		StartedAt: time.Now().UTC(),
	}

	parsed, err := o.Documents.Parse(ctx, source.URL)
	attempt.Duration = time.Since(attempt.StartedAt)

	switch {
	case err != nil:
		attempt.Outcome = pagesift.AttemptError
		attempt.ErrorKind = pagesift.ErrorCode(err)
		attempt.Detail = pagesift.ErrorMessage(err)
	case parsed.Empty():
		attempt.Outcome = pagesift.AttemptEmpty
		attempt.Detail = "no document content"
	default:
		attempt.Outcome = pagesift.AttemptSuccess
		attempt.Detail = parsed.Tier
	}
	result.Attempts = append(result.Attempts, attempt)

	if attempt.Outcome != pagesift.AttemptSuccess {
		result.Outcome = pagesift.OutcomeFailed
		return nil
	}

	extracted := &extraction{
		title:     parsed.Title,
		text:      parsed.Text,
		fetchedAt: time.Now().UTC(),
		metadata: map[string]string{
			"file_type": strings.ToLower(filepath.Ext(source.URL)),
		},
	}
	return o.persist(ctx, source, result, extracted, pagesift.MethodStatic)
}

// extraction is the usable content produced by a successful strategy run.
type extraction struct {
	title     string
	text      string
	html      string // empty for raw dumps and documents
	tier      string
	metadata  map[string]string
	fetchedAt time.Time
}

// runStrategy executes one fetch strategy and classifies its outcome. The
// extraction is non-nil only when the attempt succeeded.
func (o *Orchestrator) runStrategy(ctx context.Context, fetcher pagesift.Fetcher, source *pagesift.ContentSource) (attempt pagesift.ExtractionAttempt, snapshot *pagesift.PageSnapshot, extracted *extraction) {
	attempt.Strategy = fetcher.Name()
	attempt.StartedAt = time.Now().UTC()
	defer func() { attempt.Duration = time.Since(attempt.StartedAt) }()

	if o.RateLimiter != nil {
		if host := sourceHost(source.URL); host != "" {
			if err := o.RateLimiter.Wait(ctx, host); err != nil {
				attempt.Outcome = pagesift.AttemptError
				attempt.ErrorKind = pagesift.ErrorCode(err)
				attempt.Detail = err.Error()
				return attempt, nil, nil
			}
		}
	}

	snapshot, err := fetcher.Fetch(ctx, source.URL)
	if err != nil {
		attempt.Outcome = pagesift.AttemptError
		attempt.ErrorKind = pagesift.ErrorCode(err)
		attempt.Detail = pagesift.ErrorMessage(err)
		// A failed fetch may still carry a partial snapshot for
		// diagnostics.
		return attempt, snapshot, nil
	}

	if strings.TrimSpace(snapshot.HTML) == "" && strings.TrimSpace(snapshot.BodyText) == "" {
		attempt.Outcome = pagesift.AttemptEmpty
		attempt.Detail = "empty page"
		return attempt, snapshot, nil
	}

	result := &pagesift.ExtractResult{}
	if strings.TrimSpace(snapshot.HTML) != "" {
		result, err = o.Extractor.Extract(snapshot.HTML)
		if err != nil {
			attempt.Outcome = pagesift.AttemptError
			attempt.ErrorKind = pagesift.ErrorCode(err)
			attempt.Detail = pagesift.ErrorMessage(err)
			return attempt, snapshot, nil
		}
	}

	if !result.Empty() {
		title := result.Title
		if title == "" {
			title = snapshot.Title
		}
		attempt.Outcome = pagesift.AttemptSuccess
		attempt.Detail = result.Tier
		extracted = &extraction{
			title:     title,
			text:      result.Text,
			html:      result.ContentHTML,
			tier:      result.Tier,
			fetchedAt: snapshot.FetchedAt,
		}
		return attempt, snapshot, extracted
	}

	// Last resort: accept the live-page text dump when it carries enough
	// content. Only rendering strategies populate BodyText.
	if dump := strings.TrimSpace(snapshot.BodyText); len(dump) >= o.minRawTextLen() {
		attempt.Outcome = pagesift.AttemptSuccess
		attempt.Detail = "fullpage_text"
		extracted = &extraction{
			title:     snapshot.Title,
			text:      dump,
			fetchedAt: snapshot.FetchedAt,
			metadata:  map[string]string{"extraction": "fullpage_text"},
		}
		return attempt, snapshot, extracted
	}

	attempt.Outcome = pagesift.AttemptEmpty
	attempt.Detail = "no qualifying content"
	return attempt, snapshot, nil
}

// persist converts, hashes, and stores one extraction, folding duplicate
// content into a DONE outcome with no new item.
func (o *Orchestrator) persist(ctx context.Context, source *pagesift.ContentSource, result *pagesift.IngestionResult, extracted *extraction, method pagesift.ExtractionMethod) error {
	text := extracted.text
	if extracted.html != "" && o.Converter != nil {
		// Conversion failures fall back to the cascade's plain text; a
		// win with readable text never turns into a failed run here.
		if markdown, err := o.Converter.Convert(extracted.html); err == nil && strings.TrimSpace(markdown) != "" {
			text = markdown
		}
	}

	hash := ComputeHash(text)

	duplicate, err := o.isDuplicate(ctx, source.ID, hash)
	if err != nil {
		return err
	}

	if !duplicate {
		item := &pagesift.ContentItem{
			SourceID:         source.ID,
			URL:              source.URL,
			Title:            extracted.title,
			ExtractedText:    text,
			ContentHash:      hash,
			ExtractionMethod: method,
			Status:           pagesift.StatusOK,
			Metadata:         extracted.metadata,
			FetchedAt:        extracted.fetchedAt,
		}
		if item.Title == "" {
			item.Title = "Content from " + source.URL
		}

		err := o.Items.CreateItem(ctx, item)
		switch {
		case pagesift.ErrorCode(err) == pagesift.ECONFLICT:
			// A previous run already stored this content.
		case err != nil:
			return err
		default:
			result.Items = append(result.Items, item)
		}
	}

	if o.Seen != nil {
		o.Seen.Add(source.ID, hash)
	}

	result.Outcome = pagesift.OutcomeDone
	return nil
}

// isDuplicate checks the hash against the seen-cache fast path, consulting
// the store only when the cache cannot rule the hash out. Cache positives
// are always confirmed: a false positive must never drop new content.
func (o *Orchestrator) isDuplicate(ctx context.Context, sourceID, hash string) (bool, error) {
	if o.Seen != nil && !o.Seen.MaybeSeen(sourceID, hash) {
		// Definitely not seen by this process. A previous run may still
		// have stored it; the store's uniqueness constraint backstops
		// that case on insert.
		return false, nil
	}
	return o.Items.ExistsContentHash(ctx, sourceID, hash)
}

// recordDiagnostics stores the last known page state. Recording is
// fire-and-forget: a record failure only costs the artifact reference.
func (o *Orchestrator) recordDiagnostics(ctx context.Context, sourceID, strategy string, snapshot *pagesift.PageSnapshot) string {
	if o.Recorder == nil || snapshot == nil {
		return ""
	}

	var ref string
	if len(snapshot.Screenshot) > 0 {
		if r, err := o.Recorder.Record(ctx, sourceID, strategy, pagesift.Artifact{Ext: "png", Data: snapshot.Screenshot}); err == nil {
			ref = r
		}
	}
	if html := strings.TrimSpace(snapshot.HTML); html != "" {
		if len(html) > htmlExcerptCap {
			html = html[:htmlExcerptCap]
		}
		if r, err := o.Recorder.Record(ctx, sourceID, strategy, pagesift.Artifact{Ext: "html", Data: []byte(html)}); err == nil && ref == "" {
			ref = r
		}
	}
	return ref
}

func (o *Orchestrator) minRawTextLen() int {
	if o.MinRawTextLen > 0 {
		return o.MinRawTextLen
	}
	return DefaultMinRawTextLen
}

// state is a position in the per-source ingestion state machine.
type state int

const (
	stateEscalate state = iota
	statePersist
	stateFailed
)

// nextState is the transition decision that follows one completed strategy
// attempt: success persists, failure on the final strategy terminates the
// run, and everything else escalates to the next strategy. Network, parse,
// and empty outcomes deliberately route the same way. Pure so it can be
// tested without a network or browser.
func nextState(outcome pagesift.AttemptOutcome, finalStrategy bool) state {
	switch {
	case outcome == pagesift.AttemptSuccess:
		return statePersist
	case finalStrategy:
		return stateFailed
	default:
		return stateEscalate
	}
}

// methodFor maps a strategy name to the extraction method recorded on
// items. Anything beyond the plain static fetch is a rendered variant.
func methodFor(strategy string) pagesift.ExtractionMethod {
	if strategy == string(pagesift.MethodStatic) {
		return pagesift.MethodStatic
	}
	return pagesift.MethodRendered
}

// ComputeHash returns the duplicate-detection digest of content: an xxhash
// over the whitespace-normalized text, so formatting-only changes do not
// produce new items.
func ComputeHash(content string) string {
	h := xxhash.Sum64String(normalizeText(content))
	return fmt.Sprintf("%x", h)
}

// normalizeText collapses whitespace runs so formatting-only changes do not
// defeat duplicate detection.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func sourceHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
