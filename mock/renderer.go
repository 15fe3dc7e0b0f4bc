package mock

import (
	"context"

	"github.com/slidekit/slidekit"
)

var _ slidekit.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of slidekit.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, path string, page slidekit.PageSize) (*slidekit.RenderResult, error)
	CloseFn  func() error
}

func (r *Renderer) Render(ctx context.Context, path string, page slidekit.PageSize) (*slidekit.RenderResult, error) {
	return r.RenderFn(ctx, path, page)
}

func (r *Renderer) Close() error {
	if r.CloseFn == nil {
		return nil
	}
	return r.CloseFn()
}
