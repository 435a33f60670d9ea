//go:build integration

package rod_test

import (
	"testing"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_LaunchesLazily(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()
	defer manager.Close()

	// No browser process until the first page is requested.
	assert.Zero(t, manager.LauncherPID())

	page, err := manager.NewPage()
	require.NoError(t, err)
	defer page.Close()

	assert.NotZero(t, manager.LauncherPID())
}

func TestBrowserManager_ReusesBrowserAcrossPages(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()
	defer manager.Close()

	first, err := manager.NewPage()
	require.NoError(t, err)
	pid := manager.LauncherPID()
	require.NoError(t, first.Close())

	second, err := manager.NewPage()
	require.NoError(t, err)
	defer second.Close()

	// Same browser process serves both pages.
	assert.Equal(t, pid, manager.LauncherPID())
}

func TestBrowserManager_NewPageAfterClose(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()
	require.NoError(t, manager.Close())

	_, err := manager.NewPage()

	require.Error(t, err)
	assert.Equal(t, pagesift.EINVALID, pagesift.ErrorCode(err))
}

func TestBrowserManager_CloseIdempotent(t *testing.T) {
	t.Parallel()

	manager := rod.NewBrowserManager()

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
}
