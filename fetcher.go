package pagesift

import (
	"context"
	"time"
)

// PageSnapshot is the raw result of one fetch strategy run.
type PageSnapshot struct {
	// URL is the final URL after redirects.
	URL string

	// HTML is the page markup: the response body for static fetches, the
	// rendered DOM for browser fetches.
	HTML string

	// BodyText is a whole-page plain-text dump captured from the live
	// page. Only rendering strategies populate it; it is the last-resort
	// input when structural extraction finds nothing.
	BodyText string

	// Title is the document title as reported by the page, when the
	// strategy can see one.
	Title string

	// Screenshot is a full-page capture for diagnostics. Only rendering
	// strategies populate it.
	Screenshot []byte

	FetchedAt time.Time
}

// Fetcher retrieves page content from URLs. Implementations form an ordered
// fallback list: a cheap static fetch first, a browser-rendering fetch on
// escalation. Strategies are interchangeable behind this interface.
type Fetcher interface {
	// Name identifies the strategy in attempt records ("static",
	// "render").
	Name() string

	// Fetch retrieves the page at url.
	// The context controls timeout and cancellation. On failure a partial
	// snapshot carrying diagnostics captured before the failure (such as a
	// screenshot of the broken page) may be returned alongside the error.
	Fetch(ctx context.Context, url string) (*PageSnapshot, error)

	// Close releases strategy resources (connections, browser sessions).
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
