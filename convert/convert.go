// Package convert provides document-to-slide conversion orchestration.
// It coordinates rendering, extraction, validation, and emission of
// slides onto a deck, one input document per slide.
package convert

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/extract"
	"golang.org/x/sync/errgroup"
)

// Converter orchestrates the conversion of rendered HTML documents into
// deck slides.
type Converter struct {
	Renderer    slidekit.Renderer
	Page        slidekit.PageSize
	Calibration *extract.Calibration
	Concurrency int
}

// Result holds the outcome of a batch conversion.
type Result struct {
	Converted int
	Failed    int
}

// ProgressEvent reports progress during a batch conversion.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting conversion progress.
type ProgressFunc func(event ProgressEvent)

func (c *Converter) page() slidekit.PageSize {
	if c.Page.Width <= 0 || c.Page.Height <= 0 {
		return slidekit.DefaultPageSize
	}
	return c.Page
}

func (c *Converter) extractor(path string) *extract.Extractor {
	opts := []extract.Option{extract.WithBaseDir(filepath.Dir(path))}
	if c.Calibration != nil {
		opts = append(opts, extract.WithCalibration(*c.Calibration))
	}
	return extract.New(opts...)
}

// snapshot renders one document and extracts its slide model. The
// returned document may carry validation findings; callers decide how to
// surface them.
func (c *Converter) snapshot(ctx context.Context, path string) (*slidekit.SlideDocument, error) {
	res, err := c.Renderer.Render(ctx, path, c.page())
	if err != nil {
		return nil, err
	}
	return c.extractor(path).Extract(res, c.page()), nil
}

// Convert renders the document at path and appends it to the deck as one
// slide. Nothing is appended when rendering fails or validation finds
// problems.
func (c *Converter) Convert(ctx context.Context, path string, deck slidekit.Deck) error {
	doc, err := c.snapshot(ctx, path)
	if err != nil {
		return err
	}
	if err := doc.Err(); err != nil {
		return err
	}
	return emit(deck, doc)
}

// Check runs the identical render-extract-validate pipeline without
// touching a deck and returns the document's placeholder reservations.
// A document with validation findings returns the composite error.
func (c *Converter) Check(ctx context.Context, path string) ([]slidekit.Placeholder, error) {
	doc, err := c.snapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := doc.Err(); err != nil {
		return nil, err
	}
	return doc.Placeholders, nil
}

// convertResult holds the outcome of processing a single document.
type convertResult struct {
	position int
	path     string
	doc      *slidekit.SlideDocument
	err      error
}

// ConvertAll converts every document in paths and appends the valid ones
// to the deck in input order, one slide each. Rendering and extraction
// fan out across workers; emission is serialized so slide order matches
// input order. A failing document is skipped without affecting its
// siblings. The progress callback, if provided, receives events as
// conversion proceeds.
func (c *Converter) ConvertAll(ctx context.Context, paths []string, deck slidekit.Deck, progress ProgressFunc) (*Result, error) {
	total := len(paths)
	if total == 0 {
		return &Result{}, nil
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	resultCh := make(chan convertResult, total)

	var completed atomic.Int64

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				result := c.processDocument(gctx, i, path)
				resultCh <- result
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results as workers finish.
	results := make([]convertResult, total)
	var failedCount int
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if result.err != nil {
			failedCount++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: int(completed.Load()),
					Total:     total,
					Path:      result.path,
					Error:     result.err,
				})
			}
		} else if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				Path:      result.path,
			})
		}
	}

	// Emit validated documents onto the deck in input order.
	var convertedCount int
	for _, result := range results {
		if result.err != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := emit(deck, result.doc); err != nil {
			failedCount++
			continue
		}
		convertedCount++
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return &Result{Converted: convertedCount, Failed: failedCount}, nil
}

// processDocument renders, extracts and validates one document. The
// deck is never touched here; emission happens later, serialized and in
// input order.
func (c *Converter) processDocument(ctx context.Context, position int, path string) convertResult {
	result := convertResult{position: position, path: path}

	if err := ctx.Err(); err != nil {
		result.err = err
		return result
	}

	doc, err := c.snapshot(ctx, path)
	if err != nil {
		result.err = err
		return result
	}
	if err := doc.Err(); err != nil {
		result.err = err
		return result
	}

	result.doc = doc
	return result
}
