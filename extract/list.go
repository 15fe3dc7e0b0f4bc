package extract

import (
	"strings"

	"github.com/slidekit/slidekit"
)

// Browser list padding reserves room for both the marker and the gap
// after it; only part of it maps to the deck's bullet position, and the
// gap between bullet and text is a small fixed amount.
const (
	bulletIndentScale = 0.5
	bulletTextGapPt   = 10.0
)

func (p *pass) extractList(n *slidekit.Node) {
	if !n.Box.Positive() {
		return
	}

	var items []*slidekit.Node
	for _, c := range n.Children {
		if c.Tag == "li" {
			items = append(items, c)
		}
	}
	if len(items) == 0 {
		return
	}

	style := p.textStyle(n, false)
	style.BulletIndentPt = bulletTextGapPt
	style.MarginLeftPt = p.cal.Points(Length(n.Computed("padding-left"))) * bulletIndentScale

	parser := &RunParser{Cal: p.cal}
	var runs []slidekit.Run
	for i, li := range items {
		var itemRuns []slidekit.Run
		if hasElementChildren(li) {
			parsed, findings := parser.Parse(li, p.baseRunOptions(li))
			p.doc.Errors = append(p.doc.Errors, findings...)
			itemRuns = parsed
		} else {
			text := strings.TrimSpace(whitespaceRe.ReplaceAllString(li.TextContent(), " "))
			if text != "" {
				itemRuns = []slidekit.Run{{Text: text, Options: p.baseRunOptions(li)}}
			}
		}
		if len(itemRuns) == 0 {
			continue
		}

		// Bullets come from the list markup; a literal glyph would render
		// twice.
		itemRuns[0].Text = stripLeadingBullet(itemRuns[0].Text)
		if itemRuns[0].Text == "" && !itemRuns[0].Options.BreakLine {
			itemRuns = itemRuns[1:]
			if len(itemRuns) == 0 {
				continue
			}
		}

		if i < len(items)-1 {
			itemRuns[len(itemRuns)-1].Options.BreakLine = true
		}
		runs = append(runs, itemRuns...)
	}

	if len(runs) == 0 {
		return
	}

	p.doc.Elements = append(p.doc.Elements, slidekit.ListBlock{
		Position: BoxToPosition(n.Box),
		Items:    runs,
		Style:    style,
	})
}
