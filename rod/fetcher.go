package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/pagesift/pagesift"
)

// DefaultFetchTimeout bounds one full render: navigation, load, waits, and
// capture.
const DefaultFetchTimeout = 30 * time.Second

// DefaultSettleDelay is how long the page is left alone after load so
// late-running scripts can finish painting content.
const DefaultSettleDelay = 2 * time.Second

// DefaultSelectorTimeout is the wait budget per content selector.
const DefaultSelectorTimeout = 2 * time.Second

// DefaultWaitSelectors are probed in order after load; the first one that
// appears ends the wait. Pages matching none still proceed to capture.
func DefaultWaitSelectors() []string {
	return []string{"p", "article", "div.content", "main", ".post-content", ".entry-content"}
}

// rawTextJS collects visible text fragments from content-bearing elements.
// Script-rendered pages with unrecognizable structure often still expose
// their text this way when the structural cascade finds nothing.
const rawTextJS = `() => {
	const parts = [];
	const seen = new Set();
	for (const el of document.querySelectorAll('h1, h2, h3, h4, h5, h6, p, li, span')) {
		const text = (el.innerText || '').trim();
		if (text.length > 20 && !seen.has(text)) {
			seen.add(text);
			parts.push(text);
		}
	}
	return parts.join('\n\n');
}`

// Ensure Fetcher implements pagesift.Fetcher at compile time.
var _ pagesift.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves fully rendered pages using Chrome browser automation.
// Every fetch runs in a fresh page on the managed browser, gated by the
// session pool. Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager         *BrowserManager
	pool            *Pool
	fetchTimeout    time.Duration
	settleDelay     time.Duration
	selectorTimeout time.Duration
	waitSelectors   []string
	screenshots     bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds one full render.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithSettleDelay sets the post-load settle delay.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithSelectorTimeout sets the wait budget per content selector.
func WithSelectorTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.selectorTimeout = d
	}
}

// WithWaitSelectors replaces the content selectors probed after load.
func WithWaitSelectors(selectors []string) Option {
	return func(f *Fetcher) {
		f.waitSelectors = selectors
	}
}

// WithScreenshots captures a full-page screenshot on successful renders as
// well. Screenshots of failed renders are always attempted.
func WithScreenshots(enabled bool) Option {
	return func(f *Fetcher) {
		f.screenshots = enabled
	}
}

// NewFetcher creates a render Fetcher on the given browser manager, gated
// by pool.
func NewFetcher(manager *BrowserManager, pool *Pool, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager:         manager,
		pool:            pool,
		fetchTimeout:    DefaultFetchTimeout,
		settleDelay:     DefaultSettleDelay,
		selectorTimeout: DefaultSelectorTimeout,
		waitSelectors:   DefaultWaitSelectors(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name identifies the strategy in attempt records.
func (f *Fetcher) Name() string {
	return "render"
}

// Fetch renders the page at url and captures its final state: markup, a
// raw text dump, the title, and optionally a screenshot. On failure a
// partial snapshot holding a screenshot of the broken page may accompany
// the error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagesift.PageSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := f.pool.Acquire(ctx); err != nil {
		return nil, err
	}
	defer f.pool.Release()

	page, err := f.manager.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()
	page = page.Context(fetchCtx)

	if err := page.Navigate(url); err != nil {
		return f.failed(ctx, page, pagesift.Errorf(pagesift.ERENDER, "navigation failed for %s: %v", url, err))
	}
	if err := page.WaitLoad(); err != nil {
		return f.failed(ctx, page, pagesift.Errorf(pagesift.ERENDER, "page load failed for %s: %v", url, err))
	}

	f.waitForContent(page)
	f.settle(fetchCtx)

	// Nudge lazy-loaded content into view.
	_, _ = page.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)

	html, err := page.HTML()
	if err != nil {
		return f.failed(ctx, page, pagesift.Errorf(pagesift.ERENDER, "failed to read rendered HTML for %s: %v", url, err))
	}

	snap := &pagesift.PageSnapshot{
		URL:       url,
		HTML:      html,
		FetchedAt: time.Now().UTC(),
	}
	if info, err := page.Info(); err == nil {
		snap.Title = info.Title
	}
	if res, err := page.Eval(rawTextJS); err == nil {
		snap.BodyText = res.Value.Str()
	}
	if f.screenshots {
		if shot, err := page.Screenshot(true, nil); err == nil {
			snap.Screenshot = shot
		}
	}

	return snap, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// waitForContent waits for any known content selector to appear, giving
// each a short budget. Pages matching none proceed anyway; the raw text
// dump may still rescue them.
func (f *Fetcher) waitForContent(page *rod.Page) {
	for _, sel := range f.waitSelectors {
		if _, err := page.Timeout(f.selectorTimeout).Element(sel); err == nil {
			return
		}
	}
}

// settle leaves the page alone for the settle delay, returning early if
// ctx expires.
func (f *Fetcher) settle(ctx context.Context) {
	t := time.NewTimer(f.settleDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// failed captures a screenshot of the broken page when possible so callers
// can record diagnostics, then returns the original error. The shot runs
// on the outer context, not the expired fetch budget.
func (f *Fetcher) failed(ctx context.Context, page *rod.Page, ferr error) (*pagesift.PageSnapshot, error) {
	shot, err := page.Context(ctx).Timeout(2 * time.Second).Screenshot(false, nil)
	if err != nil || len(shot) == 0 {
		return nil, ferr
	}
	return &pagesift.PageSnapshot{Screenshot: shot, FetchedAt: time.Now().UTC()}, ferr
}
