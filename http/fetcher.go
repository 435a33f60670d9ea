// Package http provides the static fetch strategy: plain HTTP requests with
// no JavaScript execution, suitable for server-rendered pages.
package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/pagesift/pagesift"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests. Static
// fetches are the cheap path and should fail fast so rendering can take
// over.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with every request. Some sites serve reduced or
// empty markup to unknown agents, so we present as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultMaxBodySize caps the decoded response body at 10 MiB.
const DefaultMaxBodySize = 10 << 20

// DefaultMaxRedirects caps redirect chains.
const DefaultMaxRedirects = 5

// Ensure Fetcher implements pagesift.Fetcher at compile time.
var _ pagesift.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML from URLs using plain HTTP requests. Unlike
// rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize caps the decoded response body in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= DefaultMaxRedirects {
				return pagesift.Errorf(pagesift.ENETWORK, "stopped after %d redirects", DefaultMaxRedirects)
			}
			return nil
		},
	}

	return f
}

// Name identifies the strategy in attempt records.
func (f *Fetcher) Name() string {
	return "static"
}

// Fetch retrieves the HTML document at url. The snapshot carries markup
// only; title and text are derived later by extraction.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*pagesift.PageSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EINVALID, "invalid URL %q: %v", url, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	// Setting Accept-Encoding manually disables the transport's automatic
	// gzip handling, so all three encodings are decoded below.
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.ENETWORK, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pagesift.Errorf(pagesift.ENETWORK, "HTTP %d for %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		return nil, pagesift.Errorf(pagesift.EPARSE, "unsupported content type %q for %s", contentType, url)
	}

	decoded, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}

	utf8, err := charset.NewReader(decoded, contentType)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.EPARSE, "failed to decode charset: %v", err)
	}

	body, err := io.ReadAll(io.LimitReader(utf8, f.maxBodySize))
	if err != nil {
		return nil, pagesift.Errorf(pagesift.ENETWORK, "failed to read response body: %v", err)
	}

	return &pagesift.PageSnapshot{
		URL:       resp.Request.URL.String(),
		HTML:      string(body),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// decodeBody returns a reader that undoes the response content encoding.
func decodeBody(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return r, nil
	case "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, pagesift.Errorf(pagesift.EPARSE, "invalid gzip body: %v", err)
		}
		return gz, nil
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return brotli.NewReader(r), nil
	default:
		return nil, pagesift.Errorf(pagesift.EPARSE, "unsupported content encoding %q", encoding)
	}
}

// isHTMLContentType reports whether the response can be parsed as HTML.
// A missing header is given the benefit of the doubt.
func isHTMLContentType(header string) bool {
	if header == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}
