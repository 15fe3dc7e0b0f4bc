package convert_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/convert"
	"github.com/slidekit/slidekit/extract"
	"github.com/slidekit/slidekit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderResult builds a 960x540 snapshot from annotated HTML, standing in
// for a live browser render.
func renderResult(t *testing.T, src string) *slidekit.RenderResult {
	t.Helper()
	root, err := extract.FromHTML(strings.NewReader(src))
	require.NoError(t, err)
	box := slidekit.Box{W: 960, H: 540}
	return &slidekit.RenderResult{
		Root:         root,
		BodyBox:      box,
		ContentBox:   box,
		ScrollWidth:  960,
		ScrollHeight: 540,
	}
}

func paragraphDoc(text string) string {
	return `<body><p data-box="96 96 480 48" style="font-size: 16px">` + text + `</p></body>`
}

// invalidDoc carries bare text directly inside a container, which is a
// structural violation.
const invalidDoc = `<body><div data-box="0 0 960 540">loose text</div></body>`

// imageDoc extracts cleanly; its image only fails at the deck, where the
// file is actually loaded.
const imageDoc = `<body><p data-box="96 96 480 48" style="font-size: 16px">first</p>` +
	`<img src="missing.png" data-box="96 192 96 96"></body>`

// recordingDeck collects the calls a conversion makes, in order, and
// mirrors the slide structure a real deck would retain: AddSlide opens a
// slide, text lands on the current one, DiscardSlide drops it.
type recordingDeck struct {
	mu       sync.Mutex
	imageErr error

	calls  []string
	texts  []string
	slides [][]string
}

func (d *recordingDeck) mock() *mock.Deck {
	return &mock.Deck{
		AddSlideFn: func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.calls = append(d.calls, "AddSlide")
			d.slides = append(d.slides, []string{})
		},
		DiscardSlideFn: func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.calls = append(d.calls, "DiscardSlide")
			if n := len(d.slides); n > 0 {
				d.slides = d.slides[:n-1]
			}
		},
		SetBackgroundFn: func(bg slidekit.Background) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.calls = append(d.calls, "SetBackground")
			return nil
		},
		AddTextFn: func(b slidekit.TextBlock) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.calls = append(d.calls, "AddText")
			d.texts = append(d.texts, b.Text)
			last := len(d.slides) - 1
			d.slides[last] = append(d.slides[last], b.Text)
			return nil
		},
		AddImageFn: func(b slidekit.ImageBlock) error {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.calls = append(d.calls, "AddImage")
			return d.imageErr
		},
	}
}

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("emits one slide per document", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, path string, page slidekit.PageSize) (*slidekit.RenderResult, error) {
				assert.Equal(t, slidekit.DefaultPageSize, page)
				return renderResult(t, paragraphDoc("hello")), nil
			},
		}
		deck := &recordingDeck{}

		c := &convert.Converter{Renderer: renderer}
		require.NoError(t, c.Convert(context.Background(), "slide.html", deck.mock()))

		assert.Equal(t, []string{"AddSlide", "SetBackground", "AddText"}, deck.calls)
		assert.Equal(t, []string{"hello"}, deck.texts)
	})

	t.Run("validation failure leaves the deck untouched", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, invalidDoc), nil
			},
		}
		deck := &recordingDeck{}

		c := &convert.Converter{Renderer: renderer}
		err := c.Convert(context.Background(), "slide.html", deck.mock())

		require.Error(t, err)
		assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
		assert.Empty(t, deck.calls)
	})

	t.Run("emission failure discards the partial slide", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, imageDoc), nil
			},
		}
		deck := &recordingDeck{
			imageErr: slidekit.Errorf(slidekit.ENOTFOUND, `image "missing.png" not found`),
		}

		c := &convert.Converter{Renderer: renderer}
		err := c.Convert(context.Background(), "slide.html", deck.mock())

		require.Error(t, err)
		assert.Equal(t, slidekit.ENOTFOUND, slidekit.ErrorCode(err))
		assert.Equal(t, []string{"AddSlide", "SetBackground", "AddText", "AddImage", "DiscardSlide"}, deck.calls)
		assert.Empty(t, deck.slides)
	})

	t.Run("render failure propagates", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return nil, slidekit.Errorf(slidekit.EUNAVAILABLE, "rendering timed out")
			},
		}
		deck := &recordingDeck{}

		c := &convert.Converter{Renderer: renderer}
		err := c.Convert(context.Background(), "slide.html", deck.mock())

		require.Error(t, err)
		assert.Equal(t, slidekit.EUNAVAILABLE, slidekit.ErrorCode(err))
		assert.Empty(t, deck.calls)
	})
}

func TestConverter_Check(t *testing.T) {
	t.Parallel()

	t.Run("returns placeholder reservations", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, `<body><div class="placeholder" id="chart-1" data-box="96 96 480 240"></div></body>`), nil
			},
		}

		c := &convert.Converter{Renderer: renderer}
		placeholders, err := c.Check(context.Background(), "slide.html")

		require.NoError(t, err)
		require.Len(t, placeholders, 1)
		assert.Equal(t, "chart-1", placeholders[0].ID)
		assert.Equal(t, 1.0, placeholders[0].X)
		assert.Equal(t, 5.0, placeholders[0].W)
	})

	t.Run("reports findings as an error", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, invalidDoc), nil
			},
		}

		c := &convert.Converter{Renderer: renderer}
		_, err := c.Check(context.Background(), "slide.html")

		require.Error(t, err)
		assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
	})

	t.Run("repeated checks report identical findings", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, invalidDoc), nil
			},
		}

		c := &convert.Converter{Renderer: renderer}
		_, first := c.Check(context.Background(), "slide.html")
		_, second := c.Check(context.Background(), "slide.html")

		require.Error(t, first)
		require.Error(t, second)
		assert.Equal(t, first.Error(), second.Error())
	})
}

func TestConverter_ConvertAll(t *testing.T) {
	t.Parallel()

	t.Run("appends slides in input order", func(t *testing.T) {
		t.Parallel()

		docs := map[string]string{
			"01.html": paragraphDoc("one"),
			"02.html": paragraphDoc("two"),
			"03.html": paragraphDoc("three"),
		}
		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, path string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, docs[path]), nil
			},
		}
		deck := &recordingDeck{}

		c := &convert.Converter{Renderer: renderer, Concurrency: 3}
		result, err := c.ConvertAll(context.Background(), []string{"01.html", "02.html", "03.html"}, deck.mock(), nil)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Converted)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, []string{"one", "two", "three"}, deck.texts)
	})

	t.Run("failing document is skipped without affecting siblings", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, path string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				if path == "02.html" {
					return renderResult(t, invalidDoc), nil
				}
				return renderResult(t, paragraphDoc(path)), nil
			},
		}
		deck := &recordingDeck{}

		var mu sync.Mutex
		var failed []string
		progress := func(event convert.ProgressEvent) {
			if event.Type == convert.ProgressFailed {
				mu.Lock()
				failed = append(failed, event.Path)
				mu.Unlock()
			}
		}

		c := &convert.Converter{Renderer: renderer}
		result, err := c.ConvertAll(context.Background(), []string{"01.html", "02.html", "03.html"}, deck.mock(), progress)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Converted)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []string{"01.html", "03.html"}, deck.texts)
		assert.Equal(t, []string{"02.html"}, failed)
	})

	t.Run("failed emission discards the partial slide", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, path string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				if path == "01.html" {
					return renderResult(t, imageDoc), nil
				}
				return renderResult(t, paragraphDoc("second")), nil
			},
		}
		deck := &recordingDeck{
			imageErr: slidekit.Errorf(slidekit.ENOTFOUND, `image "missing.png" not found`),
		}

		c := &convert.Converter{Renderer: renderer}
		result, err := c.ConvertAll(context.Background(), []string{"01.html", "02.html"}, deck.mock(), nil)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Converted)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []string{
			"AddSlide", "SetBackground", "AddText", "AddImage", "DiscardSlide",
			"AddSlide", "SetBackground", "AddText",
		}, deck.calls)
		assert.Equal(t, [][]string{{"second"}}, deck.slides)
	})

	t.Run("reports start and finish events", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, path string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, paragraphDoc(path)), nil
			},
		}

		var mu sync.Mutex
		var types []convert.ProgressType
		progress := func(event convert.ProgressEvent) {
			mu.Lock()
			types = append(types, event.Type)
			mu.Unlock()
		}

		c := &convert.Converter{Renderer: renderer}
		_, err := c.ConvertAll(context.Background(), []string{"01.html", "02.html"}, (&recordingDeck{}).mock(), progress)

		require.NoError(t, err)
		require.Len(t, types, 4)
		assert.Equal(t, convert.ProgressStarted, types[0])
		assert.Equal(t, convert.ProgressFinished, types[3])
	})

	t.Run("cancelled context converts nothing", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(ctx context.Context, path string, _ slidekit.PageSize) (*slidekit.RenderResult, error) {
				return renderResult(t, paragraphDoc(path)), nil
			},
		}
		deck := &recordingDeck{}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := &convert.Converter{Renderer: renderer}
		result, err := c.ConvertAll(ctx, []string{"01.html", "02.html"}, deck.mock(), nil)

		if err == nil {
			assert.Equal(t, 0, result.Converted)
		}
		assert.Empty(t, deck.texts)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		t.Parallel()

		c := &convert.Converter{Renderer: &mock.Renderer{}}
		result, err := c.ConvertAll(context.Background(), nil, (&recordingDeck{}).mock(), nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Converted)
		assert.Equal(t, 0, result.Failed)
	})
}
