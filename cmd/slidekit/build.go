package main

import (
	"fmt"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/convert"
	"github.com/slidekit/slidekit/pptx"
	kitslog "github.com/slidekit/slidekit/slog"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	page, err := parsePage(c.Page)
	if err != nil {
		return err
	}

	paths, err := collectInputs(c.Inputs)
	if err != nil {
		return err
	}

	conv := &convert.Converter{
		Renderer:    deps.Renderer,
		Page:        page,
		Concurrency: c.Concurrency,
	}

	deck := pptx.NewDeck(page)

	progress := func(event convert.ProgressEvent) {
		switch event.Type {
		case convert.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "ok   %s (%d/%d)\n",
				displayPath(event.Path), event.Completed, event.Total)
		case convert.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "FAIL %s: %s\n",
				displayPath(event.Path), slidekit.ErrorMessage(event.Error))
		}
	}

	result, err := conv.ConvertAll(deps.Ctx, paths, kitslog.NewLoggingDeck(deck, deps.Logger), progress)
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", result.Failed, len(paths))
	}

	if err := deck.Save(c.Output); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "wrote %s (%d slides)\n", c.Output, result.Converted)
	return nil
}
