package rod

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/google/uuid"
)

// DefaultMaxRenders is the default number of rendered documents before
// browser recycling.
const DefaultMaxRenders = 75

// BrowserManager manages browser lifecycle with automatic recycling to
// prevent memory accumulation. Chrome accumulates memory over long render
// batches and the baseline never returns to initial levels even with
// proper page cleanup, so the browser is replaced periodically.
//
// Each browser launch gets its own user-data directory so concurrent
// conversions never share profile state; the directory is removed when the
// browser goes away.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	dataDir     string
	renderCount int64
	maxRenders  int64
	mu          sync.Mutex
	closed      atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxRenders sets the number of rendered documents before the browser
// is recycled. Defaults to 75 if not specified.
func WithMaxRenders(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxRenders = n
	}
}

// NewBrowserManager creates a new BrowserManager that launches a headless
// Chrome browser. Close must be called when the BrowserManager is no
// longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxRenders: DefaultMaxRenders,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launchBrowser(); err != nil {
		return nil, err
	}

	return bm, nil
}

// Browser returns the current browser instance, recycling if the render
// count has reached maxRenders. Callers should call RenderDone after each
// successfully rendered document.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if atomic.LoadInt64(&bm.renderCount) >= bm.maxRenders {
		bm.recycleBrowser()
	}

	return bm.browser
}

// RenderDone increments the render counter toward the recycling threshold.
func (bm *BrowserManager) RenderDone() {
	atomic.AddInt64(&bm.renderCount, 1)
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
func (bm *BrowserManager) launchBrowser() error {
	dataDir := filepath.Join(os.TempDir(), "slidekit-chrome-"+uuid.NewString())

	lnchr := launcher.New().
		UserDataDir(dataDir).
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("allow-file-access-from-files").
		Set("force-device-scale-factor", "1").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		_ = os.RemoveAll(dataDir)
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	bm.dataDir = dataDir
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
	if bm.dataDir != "" {
		_ = os.RemoveAll(bm.dataDir)
		bm.dataDir = ""
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser := bm.browser
	oldLauncher := bm.launcher
	oldDataDir := bm.dataDir
	bm.browser = nil
	bm.launcher = nil
	bm.dataDir = ""

	if err := bm.launchBrowser(); err != nil {
		// Keep the old browser when the replacement fails to launch.
		bm.browser = oldBrowser
		bm.launcher = oldLauncher
		bm.dataDir = oldDataDir
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	if oldDataDir != "" {
		_ = os.RemoveAll(oldDataDir)
	}
	atomic.StoreInt64(&bm.renderCount, 0)
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
