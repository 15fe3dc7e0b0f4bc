package main

import (
	"fmt"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/convert"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	page, err := parsePage(c.Page)
	if err != nil {
		return err
	}

	paths, err := collectInputs(c.Inputs)
	if err != nil {
		return err
	}

	conv := &convert.Converter{
		Renderer: deps.Renderer,
		Page:     page,
	}

	var failed int
	for _, path := range paths {
		placeholders, err := conv.Check(deps.Ctx, path)
		if err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "FAIL %s: %s\n", displayPath(path), slidekit.ErrorMessage(err))
			continue
		}

		fmt.Fprintf(deps.Stdout, "ok   %s\n", displayPath(path))
		for _, p := range placeholders {
			fmt.Fprintf(deps.Stdout, "     placeholder %s at %.2f,%.2f %.2fx%.2fin\n",
				p.ID, p.X, p.Y, p.W, p.H)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed validation", failed, len(paths))
	}
	return nil
}
