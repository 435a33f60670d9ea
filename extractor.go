package pagesift

import "strings"

// ExtractResult holds the content selected from an HTML page.
type ExtractResult struct {
	// Title is the page title, located through the extractor's fallback
	// chain (heading in the winning block, first h1, og:title, <title>).
	Title string

	// Text is the whitespace-normalized plain text of the winning block.
	// Thresholds and content hashing operate on this value.
	Text string

	// ContentHTML is the winning block as clean HTML with boilerplate
	// removed. Empty when the result came from a raw text dump.
	ContentHTML string

	// Tier names the cascade tier that produced the result ("article",
	// "main", "content-class", "readability", "body"). Informational.
	Tier string
}

// Empty reports whether no candidate met its threshold. An empty result is
// a normal outcome, not an error; it is what triggers escalation upstream.
func (r *ExtractResult) Empty() bool {
	return r == nil || strings.TrimSpace(r.Text) == ""
}

// Extractor locates the main content block in an HTML page.
type Extractor interface {
	// Extract processes raw HTML and returns the best candidate content.
	// A page with no qualifying content yields an empty result and a nil
	// error; errors are reserved for markup that cannot be parsed at all.
	// Deterministic: identical input yields identical output.
	Extract(html string) (*ExtractResult, error)
}
