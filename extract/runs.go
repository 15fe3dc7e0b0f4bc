package extract

import (
	"regexp"
	"strings"

	"github.com/slidekit/slidekit"
)

// iconGlyphs maps recognized icon-font classes to Unicode equivalents.
// Icon fonts are not reproducible in the deck format, so the handful of
// directional glyphs that appear in practice are substituted.
var iconGlyphs = map[string]string{
	"fa-arrow-right":   "→",
	"fa-arrow-left":    "←",
	"fa-arrow-up":      "↑",
	"fa-arrow-down":    "↓",
	"fa-chevron-right": "›",
	"fa-chevron-left":  "‹",
	"fa-angle-right":   "›",
	"fa-angle-left":    "‹",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// styleTags are inline elements whose tag alone implies run styling.
var styleTags = map[string]func(*slidekit.RunOptions){
	"b":      func(o *slidekit.RunOptions) { o.Bold = true },
	"strong": func(o *slidekit.RunOptions) { o.Bold = true },
	"i":      func(o *slidekit.RunOptions) { o.Italic = true },
	"em":     func(o *slidekit.RunOptions) { o.Italic = true },
	"u":      func(o *slidekit.RunOptions) { o.Underline = true },
	"ins":    func(o *slidekit.RunOptions) { o.Underline = true },
}

// RunParser parses the mixed-markup content of a text-bearing node into
// an ordered list of styled runs.
type RunParser struct {
	Cal Calibration

	// Pre preserves whitespace instead of collapsing it and turns
	// newlines into line breaks.
	Pre bool

	// Skip marks element nodes whose content is emitted elsewhere; the
	// parser passes over them entirely.
	Skip map[*slidekit.Node]bool
}

// Parse walks the node's children and returns merged runs plus any
// structural findings (margins on inline styling elements).
func (p *RunParser) Parse(n *slidekit.Node, base slidekit.RunOptions) ([]slidekit.Run, []string) {
	var raw []slidekit.Run
	var findings []string
	for _, c := range n.Children {
		p.walk(c, base, &raw, &findings)
	}

	// A break fragment terminates the preceding run rather than standing
	// alone.
	var folded []slidekit.Run
	for _, r := range raw {
		if r.Text == "" && r.Options.BreakLine {
			if n := len(folded); n > 0 && !folded[n-1].Options.BreakLine {
				folded[n-1].Options.BreakLine = true
				continue
			}
		}
		folded = append(folded, r)
	}

	return slidekit.MergeRuns(folded), findings
}

func (p *RunParser) walk(n *slidekit.Node, opts slidekit.RunOptions, out *[]slidekit.Run, findings *[]string) {
	if n.IsText() {
		p.emitText(n.Text, opts, out)
		return
	}

	if p.Skip[n] {
		return
	}

	if n.Tag == "br" {
		*out = append(*out, slidekit.Run{Options: breakOpts(opts)})
		return
	}

	if glyph := p.iconGlyph(n); glyph != "" {
		*out = append(*out, slidekit.Run{Text: glyph, Options: opts})
		return
	}

	// Inline elements cannot carry box-model margins in the deck format.
	for _, side := range [4]string{"margin-top", "margin-right", "margin-bottom", "margin-left"} {
		if Length(n.Computed(side)) != 0 {
			*findings = append(*findings,
				"inline element <"+n.Tag+"> carries margins, which the deck format cannot represent")
			break
		}
	}

	child := opts
	if apply, ok := styleTags[n.Tag]; ok {
		apply(&child)
	}
	p.applyComputed(n, &child)

	for _, c := range n.Children {
		p.walk(c, child, out, findings)
	}
}

// applyComputed copies a styling element's computed style onto the cloned
// options. Only properties present in the snapshot override, so nested
// styling composes: innermost wins where it speaks, everything else
// inherits outward-in.
func (p *RunParser) applyComputed(n *slidekit.Node, opts *slidekit.RunOptions) {
	if v := n.Computed("font-weight"); v != "" {
		opts.Bold = Bold(v)
	}
	if v := n.Computed("font-style"); v != "" {
		opts.Italic = strings.Contains(v, "italic")
	}
	if v := n.Computed("text-decoration-line"); v != "" && v != "none" {
		opts.Underline = strings.Contains(v, "underline")
	}
	if v := n.Computed("color"); v != "" {
		if c, ok := ParseColor(v); ok {
			opts.Color = c.Hex
			opts.Transparency = c.Transparency
		}
	}
	if v := n.Computed("font-size"); v != "" {
		opts.FontSizePt = p.Cal.FontSizePt(v)
	}
}

func (p *RunParser) emitText(text string, opts slidekit.RunOptions, out *[]slidekit.Run) {
	if !p.Pre {
		collapsed := whitespaceRe.ReplaceAllString(text, " ")
		if collapsed == "" {
			return
		}
		*out = append(*out, slidekit.Run{Text: collapsed, Options: opts})
		return
	}

	// Preformatted content keeps indentation; only whitespace fragments
	// that carry no newline are formatting noise from the markup.
	if strings.TrimSpace(text) == "" && !strings.Contains(text, "\n") {
		return
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		o := opts
		if i < len(lines)-1 {
			o.BreakLine = true
		}
		if line == "" && !o.BreakLine {
			continue
		}
		*out = append(*out, slidekit.Run{Text: line, Options: o})
	}
}

func (p *RunParser) iconGlyph(n *slidekit.Node) string {
	for _, class := range n.Classes() {
		if glyph, ok := iconGlyphs[class]; ok {
			return glyph
		}
	}
	return ""
}

func breakOpts(opts slidekit.RunOptions) slidekit.RunOptions {
	opts.BreakLine = true
	return opts
}
