package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/goquery"
)

// Run executes the merge command.
func (c *MergeCmd) Run(deps *Dependencies) error {
	page, err := parsePage(c.Page)
	if err != nil {
		return err
	}

	pages, err := slidekit.CollectPages(c.Dir)
	if err != nil {
		return err
	}

	m := &goquery.Merger{Page: page}
	merged, err := m.Merge(pages)
	if err != nil {
		return err
	}

	out := c.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(c.Dir, out)
	}
	if err := os.WriteFile(out, []byte(merged), 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", out, err)
	}

	fmt.Fprintf(deps.Stdout, "merged %d pages into %s\n", len(pages), out)
	return nil
}
