package slidekit

import "context"

// PixelsPerInch is the CSS reference pixel density. Browser geometry is
// captured at this density, so page sizes in inches map to snapshot pixels
// by this factor.
const PixelsPerInch = 96.0

// PageSize is the target deck page size in inches.
type PageSize struct {
	Width  float64
	Height float64
}

// DefaultPageSize is a 16:9 slide.
var DefaultPageSize = PageSize{Width: 10, Height: 5.625}

// RenderResult is everything extraction needs from one rendered document.
type RenderResult struct {
	// Root is the snapshot of the effective content element's subtree.
	// Node geometry is relative to the content box origin.
	Root *Node

	// BodyBox is the document body's border box in page pixels.
	BodyBox Box

	// ContainerBox is the detected slide container's border box in page
	// pixels, nil when the body itself is the content frame.
	ContainerBox *Box

	// ContentBox is whichever of body and container was selected as the
	// effective content frame.
	ContentBox Box

	// ScrollWidth and ScrollHeight are the document's full scroll size in
	// pixels, used for overflow detection.
	ScrollWidth  float64
	ScrollHeight float64
}

// Renderer loads one HTML document into an isolated browser session sized
// to the document's natural dimensions and returns its rendered snapshot.
// Implementations guarantee the session is torn down on every exit path,
// including render failure and timeout.
type Renderer interface {
	// Render opens the HTML file at path, waits for layout, and captures
	// the snapshot. The context bounds the page-load step; on timeout the
	// session is still released and an EUNAVAILABLE error is returned.
	Render(ctx context.Context, path string, page PageSize) (*RenderResult, error)

	// Close releases browser resources. Must be called when the Renderer
	// is no longer needed.
	Close() error
}
