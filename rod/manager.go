// Package rod provides the headless render strategy: a managed Chrome
// browser that fully renders a page before extraction.
package rod

import (
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/pagesift/pagesift"
)

// BrowserManager owns the browser process behind the render strategy. The
// browser is launched on first use, so constructing a manager is free for
// runs that never escalate past the static strategy.
//
// When creating a page fails the browser connection is presumed dead and a
// fresh browser is launched; a crashed session is never handed out again.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	mu       sync.Mutex
	closed   atomic.Bool
}

// NewBrowserManager creates a new BrowserManager. Close must be called when
// the BrowserManager is no longer needed.
func NewBrowserManager() *BrowserManager {
	return &BrowserManager{}
}

// NewPage returns a fresh stealth page on the managed browser, launching or
// relaunching the browser as needed. The caller owns the page and must
// close it.
func (bm *BrowserManager) NewPage() (*rod.Page, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed.Load() {
		return nil, pagesift.Errorf(pagesift.EINVALID, "browser manager is closed")
	}

	if bm.browser == nil {
		if err := bm.launchBrowser(); err != nil {
			return nil, pagesift.Errorf(pagesift.ERENDER, "launching browser: %v", err)
		}
	}

	page, err := stealth.Page(bm.browser)
	if err == nil {
		return page, nil
	}

	// The browser connection is likely dead. Replace it and retry once.
	_ = bm.closeBrowser()
	if err := bm.launchBrowser(); err != nil {
		return nil, pagesift.Errorf(pagesift.ERENDER, "relaunching browser: %v", err)
	}
	page, err = stealth.Page(bm.browser)
	if err != nil {
		return nil, pagesift.Errorf(pagesift.ERENDER, "creating page: %v", err)
	}
	return page, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	return bm.closeBrowser()
}

// launchBrowser starts a new browser instance with stability flags.
// Must be called with mu held.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return err
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher, or zero when
// no browser is running. This method exists for testing purposes to verify
// proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
