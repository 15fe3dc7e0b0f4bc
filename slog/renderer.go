// Package slog provides logging decorators for the domain interfaces,
// built on the standard library's structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/slidekit/slidekit"
)

// Ensure LoggingRenderer implements slidekit.Renderer.
var _ slidekit.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   slidekit.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next slidekit.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, path string, page slidekit.PageSize) (res *slidekit.RenderResult, err error) {
	defer func(begin time.Time) {
		var w, h float64
		if res != nil {
			w, h = res.ContentBox.W, res.ContentBox.H
		}
		r.logger.Info("render",
			"path", path,
			"content_w", w,
			"content_h", h,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, path, page)
}

// Close delegates to the wrapped renderer.
func (r *LoggingRenderer) Close() error {
	return r.next.Close()
}
