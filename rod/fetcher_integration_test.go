//go:build integration

package rod_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pagesift/pagesift/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises a real, heavily client-rendered site. The react.dev content
// only exists after hydration, so a static fetch of the same URL would
// come back near-empty.
func TestFetcher_Integration_ReactDocs(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fetcher := rod.NewFetcher(rod.NewBrowserManager(), rod.NewPool(1))
	defer fetcher.Close()

	snap, err := fetcher.Fetch(ctx, "https://react.dev/learn")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.HTML, "expected non-empty HTML response")

	// Verify HTML document structure
	lower := strings.ToLower(strings.TrimSpace(snap.HTML))
	assert.True(t, strings.HasPrefix(lower, "<!doctype html>") || strings.HasPrefix(lower, "<html"),
		"expected valid HTML document start")
	assert.Contains(t, snap.HTML, "</body>", "expected closing body tag")

	// The page title only appears after React hydration
	assert.Contains(t, snap.HTML, "Quick Start", "expected rendered page title")

	// The raw text dump should have picked up real content fragments
	assert.NotEmpty(t, snap.BodyText, "expected raw text dump from rendered page")

	t.Logf("Fetched %d bytes (%d raw text) from react.dev/learn", len(snap.HTML), len(snap.BodyText))
}
