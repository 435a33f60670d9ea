//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements pagesift.Fetcher.
var _ pagesift.Fetcher = (*rod.Fetcher)(nil)

func newTestFetcher(t *testing.T, opts ...rod.Option) *rod.Fetcher {
	t.Helper()
	fetcher := rod.NewFetcher(rod.NewBrowserManager(), rod.NewPool(1), opts...)
	t.Cleanup(func() { _ = fetcher.Close() })
	return fetcher
}

func TestFetcher_Fetch_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Server that delays response
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Don't respond - let context timeout
		select {}
	}))
	defer srv.Close()

	fetcher := newTestFetcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := fetcher.Fetch(ctx, srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetcher_Fetch_ReturnsRenderedSnapshot(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add content
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript rendered paragraph with enough text to count.';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher := newTestFetcher(t, rod.WithSettleDelay(200*time.Millisecond))

	snap, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, snap.HTML, "JavaScript rendered paragraph")
	assert.NotContains(t, snap.HTML, "Loading...")
	assert.Equal(t, "Test Page", snap.Title)
	assert.False(t, snap.FetchedAt.IsZero())
}

func TestFetcher_Fetch_CapturesRawTextDump(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Raw Text</title></head>
<body>
<p>This paragraph carries more than twenty characters of text.</p>
<span>short</span>
<li>Another fragment that is long enough to be collected here.</li>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher := newTestFetcher(t, rod.WithSettleDelay(100*time.Millisecond))

	snap, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, snap.BodyText, "more than twenty characters")
	assert.Contains(t, snap.BodyText, "Another fragment")
	// Fragments at or under 20 characters are dropped.
	assert.NotContains(t, snap.BodyText, "short")
}

func TestFetcher_Fetch_CapturesScreenshotWhenEnabled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>Visible content for the capture.</p></body></html>`))
	}))
	defer srv.Close()

	fetcher := newTestFetcher(t,
		rod.WithSettleDelay(100*time.Millisecond),
		rod.WithScreenshots(true),
	)

	snap, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.NotEmpty(t, snap.Screenshot)
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	// Server that delays longer than the fetch timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	// Use a short timeout for testing (100ms, shorter than server delay)
	fetcher := newTestFetcher(t, rod.WithFetchTimeout(100*time.Millisecond))

	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, pagesift.ERENDER, pagesift.ErrorCode(err))
}

func TestFetcher_Fetch_PoolExhaustion(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>slow</body></html>`))
	}))
	defer srv.Close()

	manager := rod.NewBrowserManager()
	pool := rod.NewPool(1, rod.WithAcquireTimeout(100*time.Millisecond))
	fetcher := rod.NewFetcher(manager, pool, rod.WithFetchTimeout(10*time.Second))
	defer fetcher.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = fetcher.Fetch(context.Background(), srv.URL)
	}()

	time.Sleep(300 * time.Millisecond) // let the first fetch hold the slot

	_, err := fetcher.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, pagesift.EPOOLEXHAUSTED, pagesift.ErrorCode(err))

	<-done
}

func TestFetcher_Close_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher(rod.NewBrowserManager(), rod.NewPool(1))

	// First close should succeed
	err := fetcher.Close()
	require.NoError(t, err)

	// Second close should also succeed (not panic or error)
	err = fetcher.Close()
	require.NoError(t, err)
}

func TestFetcher_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher(rod.NewBrowserManager(), rod.NewPool(1))

	err := fetcher.Close()
	require.NoError(t, err)

	_, err = fetcher.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
	assert.Contains(t, pagesift.ErrorMessage(err), "closed")
}
