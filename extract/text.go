package extract

import (
	"strings"

	"github.com/slidekit/slidekit"
)

// bulletGlyphs are literal characters that read as list bullets. Bullets
// must come from semantic list markup so the deck can render native
// bullets; literal glyphs outside a list are a structural error.
const bulletGlyphs = "•●○◦▪▫‣·"

func leadingBulletGlyph(s string) (rune, bool) {
	trimmed := strings.TrimSpace(s)
	for _, r := range trimmed {
		if strings.ContainsRune(bulletGlyphs, r) {
			return r, true
		}
		return 0, false
	}
	return 0, false
}

func stripLeadingBullet(s string) string {
	trimmed := strings.TrimLeft(s, " \t")
	if r, ok := leadingBulletGlyph(trimmed); ok {
		trimmed = strings.TrimPrefix(trimmed, string(r))
		return strings.TrimLeft(trimmed, " \t")
	}
	return s
}

// preformatted reports whether the node preserves whitespace.
func preformatted(n *slidekit.Node) bool {
	if n.Tag == "pre" {
		return true
	}
	return strings.HasPrefix(n.Computed("white-space"), "pre")
}

func hasElementChildren(n *slidekit.Node) bool {
	for _, c := range n.Children {
		if !c.IsText() {
			return true
		}
	}
	return false
}

func (p *pass) extractText(n *slidekit.Node) {
	if !n.Box.Positive() {
		return
	}
	content := n.TextContent()
	if strings.TrimSpace(content) == "" {
		return
	}

	if glyph, ok := leadingBulletGlyph(content); ok {
		p.finding("text %q starts with a literal bullet glyph %q; use list markup instead",
			prefix(strings.TrimSpace(content), 50), glyph)
	}

	pre := preformatted(n)
	codeLike := n.Tag == "pre" || n.Tag == "code"
	// Backgrounds on code blocks are tolerated as decoration; anywhere
	// else the author should have used a container.
	if !codeLike && hasBoxStyling(n) {
		p.finding("text element <%s> carries background/border/shadow styling; wrap it in a container instead", n.Tag)
	}

	deg := Rotation(n.Style)
	box := OrientBox(n.Box, deg)
	style := p.textStyle(n, pre)
	style.RotationDeg = deg

	block := slidekit.TextBlock{Position: BoxToPosition(box), Style: style}

	base := p.baseRunOptions(n)
	if hasElementChildren(n) {
		var skip map[*slidekit.Node]bool
		// Syntax highlighting puts backgrounds on spans inside code;
		// those stay inline as plain runs.
		if !codeLike {
			skip = p.liftStyledSpans(n)
		}
		parser := &RunParser{Cal: p.cal, Pre: pre, Skip: skip}
		runs, findings := parser.Parse(n, base)
		p.doc.Errors = append(p.doc.Errors, findings...)
		if len(runs) == 0 {
			return
		}
		block.Runs = runs
	} else {
		text := content
		if pre {
			text = strings.Trim(text, "\n")
		} else {
			text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
		}
		if base == (slidekit.RunOptions{}) {
			block.Text = text
		} else {
			block.Runs = []slidekit.Run{{Text: text, Options: base}}
		}
	}

	p.doc.Elements = append(p.doc.Elements, block)
}

// liftStyledSpans rewrites box-styled inline elements nested inside a
// text node as shape plus overlaid text pairs at their own boxes, the
// same decomposition a styled span gets at container level. The returned
// set tells the run parser to pass over them so their content is not
// duplicated inline.
func (p *pass) liftStyledSpans(n *slidekit.Node) map[*slidekit.Node]bool {
	var styled []*slidekit.Node
	var scan func(*slidekit.Node)
	scan = func(n *slidekit.Node) {
		for _, c := range n.Children {
			if c.IsText() {
				continue
			}
			if hasBoxStyling(c) && c.Box.Positive() {
				styled = append(styled, c)
				continue
			}
			scan(c)
		}
	}
	scan(n)
	if len(styled) == 0 {
		return nil
	}

	skip := make(map[*slidekit.Node]bool, len(styled))
	for _, s := range styled {
		p.extractShape(s)
		p.extractSpanText(s)
		skip[s] = true
	}
	return skip
}

// baseRunOptions lifts the block's own weight/style/decoration onto the
// run options runs inherit, since the block style carries no boolean
// emphasis of its own.
func (p *pass) baseRunOptions(n *slidekit.Node) slidekit.RunOptions {
	var opts slidekit.RunOptions
	if Bold(n.Computed("font-weight")) {
		opts.Bold = true
	}
	if strings.Contains(n.Computed("font-style"), "italic") {
		opts.Italic = true
	}
	if strings.Contains(n.Computed("text-decoration-line"), "underline") {
		opts.Underline = true
	}
	return opts
}

// preLineSpacing tightens preformatted line spacing relative to the font
// size instead of trusting the rendered line-height.
const preLineSpacing = 1.25

func (p *pass) textStyle(n *slidekit.Node, pre bool) slidekit.TextStyle {
	style := slidekit.TextStyle{
		FontSizePt: p.cal.FontSizePt(n.Computed("font-size")),
		FontFace:   FontFace(n.Computed("font-family")),
		Align:      Align(n.Computed("text-align")),
	}

	if c, ok := ParseColor(n.Computed("color")); ok {
		style.Color = c.Hex
		style.Transparency = c.Transparency
	}

	if pre {
		style.LineSpacingPt = style.FontSizePt * preLineSpacing
	} else if lh := Length(n.Computed("line-height")); lh > 0 {
		style.LineSpacingPt = p.cal.Points(lh)
	}

	style.ParaSpaceBeforePt = p.cal.Points(Length(n.Computed("margin-top")))
	style.ParaSpaceAfterPt = p.cal.Points(Length(n.Computed("margin-bottom")))

	for i, side := range [4]string{"top", "right", "bottom", "left"} {
		style.MarginPt[i] = p.cal.Points(Length(n.Computed("padding-" + side)))
	}

	return style
}
