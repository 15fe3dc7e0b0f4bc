package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/slidekit/slidekit"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Renderer slidekit.Renderer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Build BuildCmd `cmd:"" help:"Render HTML documents and build a .pptx deck"`
	Check CheckCmd `cmd:"" help:"Validate HTML documents without building a deck"`
	Merge MergeCmd `cmd:"" help:"Merge page-numbered HTML files into one preview document"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Inputs      []string      `arg:"" help:"HTML files or a directory of page-numbered files"`
	Output      string        `short:"o" default:"deck.pptx" help:"Output .pptx path"`
	Page        string        `default:"10x5.625" help:"Page size in inches, WxH"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent render limit"`
	Timeout     time.Duration `default:"30s" help:"Per-document render timeout"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct {
	Inputs  []string      `arg:"" help:"HTML files or a directory of page-numbered files"`
	Page    string        `default:"10x5.625" help:"Page size in inches, WxH"`
	Timeout time.Duration `default:"30s" help:"Per-document render timeout"`
	Verbose bool          `short:"v" help:"Enable debug logging"`
}

// MergeCmd is the "merge" subcommand.
type MergeCmd struct {
	Dir    string `short:"d" required:"" help:"Directory of page-numbered HTML files"`
	Output string `short:"o" default:"merged_presentation.html" help:"Output file name"`
	Page   string `default:"10x5.625" help:"Page size in inches, WxH"`
}

// parsePage parses a "WxH" page size in inches.
func parsePage(v string) (slidekit.PageSize, error) {
	w, h, found := strings.Cut(strings.ToLower(v), "x")
	if !found {
		return slidekit.PageSize{}, fmt.Errorf("invalid page size %q, expected WxH", v)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return slidekit.PageSize{}, fmt.Errorf("invalid page width %q", w)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return slidekit.PageSize{}, fmt.Errorf("invalid page height %q", h)
	}
	if width <= 0 || height <= 0 {
		return slidekit.PageSize{}, fmt.Errorf("page size %q must be positive", v)
	}
	return slidekit.PageSize{Width: width, Height: height}, nil
}

// collectInputs expands each input into document paths: a directory
// contributes its page-numbered files in page order, a file contributes
// itself.
func collectInputs(inputs []string) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", input, err)
		}
		if !info.IsDir() {
			paths = append(paths, input)
			continue
		}
		pages, err := slidekit.CollectPages(input)
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			paths = append(paths, p.Path)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input documents")
	}
	return paths, nil
}

func displayPath(path string) string {
	return filepath.Base(path)
}
