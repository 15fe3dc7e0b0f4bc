package extract

import (
	"strings"

	"github.com/slidekit/slidekit"
)

// tableRow pairs a row node with the section wrapper it came from, so
// cell fills can fall back to the section background.
type tableRow struct {
	node    *slidekit.Node
	section *slidekit.Node
	header  bool
}

// tableRows flattens thead/tbody/tfoot wrappers and direct tr children
// into document order, marking head-section rows.
func tableRows(n *slidekit.Node) []tableRow {
	var rows []tableRow
	for _, c := range n.Children {
		switch c.Tag {
		case "thead", "tbody", "tfoot":
			for _, tr := range c.Children {
				if tr.Tag == "tr" {
					rows = append(rows, tableRow{node: tr, section: c, header: c.Tag == "thead"})
				}
			}
		case "tr":
			rows = append(rows, tableRow{node: c})
		}
	}
	return rows
}

func rowCells(tr *slidekit.Node) []*slidekit.Node {
	var cells []*slidekit.Node
	for _, c := range tr.Children {
		if c.Tag == "td" || c.Tag == "th" {
			cells = append(cells, c)
		}
	}
	return cells
}

// allHeaderCells implements the fallback header-detection rule: a first
// row made entirely of th cells is a header even without a thead wrapper.
func allHeaderCells(cells []*slidekit.Node) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c.Tag != "th" {
			return false
		}
	}
	return true
}

func (p *pass) extractTable(n *slidekit.Node) {
	if !n.Box.Positive() {
		return
	}

	rows := tableRows(n)
	if len(rows) == 0 {
		p.finding("table has no rows")
		return
	}

	if !rows[0].header && allHeaderCells(rowCells(rows[0].node)) {
		rows[0].header = true
	}

	headerCells := rowCells(rows[0].node)
	if len(headerCells) == 0 {
		p.finding("table header row has no cells")
		return
	}

	ratios := columnRatios(headerCells, n.Box.W)
	if ratios == nil {
		p.finding("table is missing column widths; header cells have no rendered width")
		return
	}

	if len(rows) < 2 {
		p.finding("table has a header but no data rows")
		return
	}

	block := slidekit.TableBlock{
		Position:          BoxToPosition(n.Box),
		ColumnWidthRatios: ratios,
	}

	valid := true
	for i, row := range rows {
		cells := rowCells(row.node)
		if len(cells) != len(headerCells) {
			p.finding("table row %d has %d cells, expected %d", i+1, len(cells), len(headerCells))
			valid = false
			continue
		}
		outRow := make([]slidekit.Cell, len(cells))
		for j, cell := range cells {
			outRow[j] = p.extractCell(cell, row)
		}
		block.Rows = append(block.Rows, outRow)
	}

	if valid {
		p.doc.Elements = append(p.doc.Elements, block)
	}
}

// columnRatios derives per-column width shares from the header cells'
// rendered widths. The shares are normalized to sum to 1.0.
func columnRatios(cells []*slidekit.Node, tableWidth float64) []float64 {
	if tableWidth <= 0 {
		return nil
	}
	ratios := make([]float64, len(cells))
	var sum float64
	for i, c := range cells {
		ratios[i] = c.Box.W / tableWidth
		sum += ratios[i]
	}
	if sum <= 0 {
		return nil
	}
	for i := range ratios {
		ratios[i] /= sum
	}
	return ratios
}

func (p *pass) extractCell(cell *slidekit.Node, row tableRow) slidekit.Cell {
	out := slidekit.Cell{Style: p.cellStyle(cell, row)}

	if hasElementChildren(cell) {
		parser := &RunParser{Cal: p.cal}
		runs, findings := parser.Parse(cell, slidekit.RunOptions{})
		p.doc.Errors = append(p.doc.Errors, findings...)
		// Only styling beyond font metrics justifies the run
		// representation; otherwise the cell degrades to plain text.
		if runsCarryStyle(runs) {
			out.Runs = runs
			return out
		}
	}

	out.Text = strings.TrimSpace(whitespaceRe.ReplaceAllString(cell.TextContent(), " "))
	return out
}

// runsCarryStyle reports whether any run carries a style override beyond
// font metrics.
func runsCarryStyle(runs []slidekit.Run) bool {
	for _, r := range runs {
		o := r.Options
		if o.Bold || o.Italic || o.Underline || o.Color != "" || o.Transparency != 0 {
			return true
		}
	}
	return false
}

func (p *pass) cellStyle(cell *slidekit.Node, row tableRow) slidekit.CellStyle {
	style := slidekit.CellStyle{
		FontSizePt: p.cal.CellPoints(Length(cell.Computed("font-size"))) * p.cal.TableFontScale,
		FontFace:   FontFace(cell.Computed("font-family")),
		Bold:       cell.Tag == "th" || Bold(cell.Computed("font-weight")),
		Align:      Align(cell.Computed("text-align")),
	}
	if style.FontSizePt < slidekit.MinFontSizePt {
		style.FontSizePt = slidekit.MinFontSizePt
	}

	if c, ok := ParseColor(cell.Computed("color")); ok {
		style.Color = c.Hex
	}

	// Fill falls back cell → head section → row.
	for _, src := range []*slidekit.Node{cell, row.section, row.node} {
		if src == nil {
			continue
		}
		if src == row.section && !row.header {
			continue
		}
		if c, ok := ParseColor(src.Computed("background-color")); ok {
			style.Fill = c.Hex
			break
		}
	}

	return style
}
