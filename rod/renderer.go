// Package rod renders HTML documents in headless Chrome and captures the
// layout snapshots extraction runs over.
package rod

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/slidekit/slidekit"
)

// Ensure Renderer implements slidekit.Renderer at compile time.
var _ slidekit.Renderer = (*Renderer)(nil)

// DefaultRenderTimeout bounds one document's load-and-capture cycle.
const DefaultRenderTimeout = 30 * time.Second

// Renderer loads HTML files into headless Chrome pages and captures their
// rendered layout. Renderer is safe for concurrent use by multiple
// goroutines; each Render call runs in its own page.
type Renderer struct {
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderTimeout overrides the per-document timeout.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) { r.timeout = d }
}

// NewRenderer creates a Renderer backed by a managed headless Chrome
// browser. Close must be called when the Renderer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{timeout: DefaultRenderTimeout}
	for _, opt := range opts {
		opt(r)
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	r.manager = manager
	return r, nil
}

// Render opens the HTML file at path in a fresh page, sizes the viewport
// to the target page, detects the slide container, refits the viewport to
// the effective content box and captures the layout snapshot. The page is
// closed on every exit path.
func (r *Renderer) Render(ctx context.Context, path string, size slidekit.PageSize) (*slidekit.RenderResult, error) {
	if r.closed.Load() {
		return nil, slidekit.Errorf(slidekit.EINVALID, "renderer is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, slidekit.Errorf(slidekit.EINVALID, "resolving document path %q: %v", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, slidekit.Errorf(slidekit.ENOTFOUND, "document %q not found", path)
	}

	page, err := r.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, renderErr(err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if r.timeout > 0 {
		page = page.Timeout(r.timeout)
	}

	if err := r.setViewport(page, size.Width*slidekit.PixelsPerInch, size.Height*slidekit.PixelsPerInch); err != nil {
		return nil, renderErr(err)
	}

	if err := page.Navigate("file://" + filepath.ToSlash(abs)); err != nil {
		return nil, renderErr(err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, renderErr(err)
	}

	// First pass measures the effective content box so the snapshot is
	// captured with the viewport fitted to it, letting viewport-relative
	// layout settle at the slide's own size.
	obj, err := page.Eval(jsMeasure)
	if err != nil {
		return nil, renderErr(err)
	}
	var m measurement
	if err := json.Unmarshal([]byte(obj.Value.Str()), &m); err != nil {
		return nil, slidekit.Errorf(slidekit.EINTERNAL, "decoding layout measurement: %v", err)
	}
	if m.Content.W > 0 && m.Content.H > 0 {
		if err := r.setViewport(page, m.Content.W, m.Content.H); err != nil {
			return nil, renderErr(err)
		}
	}

	obj, err = page.Eval(jsSnapshot)
	if err != nil {
		return nil, renderErr(err)
	}
	var p payload
	if err := json.Unmarshal([]byte(obj.Value.Str()), &p); err != nil {
		return nil, slidekit.Errorf(slidekit.EINTERNAL, "decoding layout snapshot: %v", err)
	}
	if p.Root == nil {
		return nil, slidekit.Errorf(slidekit.EINTERNAL, "layout snapshot has no content root")
	}

	r.manager.RenderDone()

	return &slidekit.RenderResult{
		Root:         p.Root,
		BodyBox:      p.BodyBox,
		ContainerBox: p.ContainerBox,
		ContentBox:   p.ContentBox,
		ScrollWidth:  p.ScrollWidth,
		ScrollHeight: p.ScrollHeight,
	}, nil
}

func (r *Renderer) setViewport(page *rod.Page, w, h float64) error {
	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(math.Round(w)),
		Height:            int(math.Round(h)),
		DeviceScaleFactor: 1,
	})
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher. This method
// exists for testing purposes to verify proper cleanup.
func (r *Renderer) LauncherPID() int {
	return r.manager.LauncherPID()
}

// renderErr maps a page-level failure onto the application error space. A
// blown deadline means the browser could not produce a layout in time.
func renderErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return slidekit.Errorf(slidekit.EUNAVAILABLE, "rendering timed out: %v", err)
	}
	return err
}

// measurement is the first-pass result: the effective content box size.
type measurement struct {
	Content struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"content"`
}

// payload is the snapshot capture decoded from the page.
type payload struct {
	Root         *slidekit.Node `json:"root"`
	BodyBox      slidekit.Box   `json:"bodyBox"`
	ContainerBox *slidekit.Box  `json:"containerBox"`
	ContentBox   slidekit.Box   `json:"contentBox"`
	ScrollWidth  float64        `json:"scrollWidth"`
	ScrollHeight float64        `json:"scrollHeight"`
}
