package extract

import (
	"strings"

	"github.com/slidekit/slidekit"
)

// edge is one border edge's resolved stroke.
type edge struct {
	widthPx float64
	color   string
}

func (p *pass) borderEdges(n *slidekit.Node) [4]edge {
	var edges [4]edge
	for i, side := range [4]string{"top", "right", "bottom", "left"} {
		if n.Computed("border-"+side+"-style") == "none" {
			continue
		}
		w := Length(n.Computed("border-" + side + "-width"))
		if w <= 0 {
			continue
		}
		c, ok := ParseColor(n.Computed("border-" + side + "-color"))
		if !ok {
			continue
		}
		edges[i] = edge{widthPx: w, color: c.Hex}
	}
	return edges
}

// extractShape turns a styled container into a ShapeBlock, decomposing a
// non-uniform border into per-edge LineBlocks. The shape is appended
// before the node's children so overlaid content stays above it in
// z-order.
func (p *pass) extractShape(n *slidekit.Node) {
	box := n.Box
	if !box.Positive() {
		return
	}

	deg := Rotation(n.Style)
	box = OrientBox(box, deg)

	shape := slidekit.ShapeBlock{
		Position:     BoxToPosition(box),
		CornerRadius: p.cal.CornerRadius(n.Computed("border-radius"), box),
		RotationDeg:  deg,
	}

	if c, ok := ParseColor(n.Computed("background-color")); ok {
		shape.Fill = c.Hex
		shape.Transparency = c.Transparency
	}

	if img := n.Computed("background-image"); img != "" && img != "none" {
		if strings.Contains(img, "gradient") {
			p.finding("container <%s> has a gradient background, which is not supported", n.Tag)
		} else {
			p.finding("container <%s> has a background image; use an <img> child instead", n.Tag)
		}
	}

	if sh := p.parseShadow(n.Computed("box-shadow")); sh != nil {
		shape.Shadow = sh
	}

	edges := p.borderEdges(n)
	if uniform, stroke := uniformBorder(edges); uniform {
		if stroke.widthPx > 0 {
			shape.Border = &slidekit.Border{
				Color:   stroke.color,
				WidthPt: p.cal.Points(stroke.widthPx),
			}
		}
		p.doc.Elements = append(p.doc.Elements, shape)
		return
	}

	p.doc.Elements = append(p.doc.Elements, shape)
	p.doc.Elements = append(p.doc.Elements, p.edgeLines(box, edges)...)
}

// uniformBorder reports whether all four edges share one width and color.
// An unbordered box is uniform with a zero stroke.
func uniformBorder(edges [4]edge) (bool, edge) {
	first := edges[0]
	for _, e := range edges[1:] {
		if e != first {
			return false, edge{}
		}
	}
	return true, first
}

// edgeLines decomposes a non-uniform border into one line per non-zero
// edge. Each line is inset by half its stroke width so it centers on the
// geometric edge.
func (p *pass) edgeLines(box slidekit.Box, edges [4]edge) []slidekit.Element {
	x, y := Inches(box.X), Inches(box.Y)
	w, h := Inches(box.W), Inches(box.H)

	var lines []slidekit.Element
	add := func(e edge, x1, y1, x2, y2 float64) {
		if e.widthPx <= 0 {
			return
		}
		lines = append(lines, slidekit.LineBlock{
			X1: x1, Y1: y1, X2: x2, Y2: y2,
			Color:   e.color,
			WidthPt: p.cal.Points(e.widthPx),
		})
	}

	top, right, bottom, left := edges[0], edges[1], edges[2], edges[3]
	add(top, x, y+Inches(top.widthPx)/2, x+w, y+Inches(top.widthPx)/2)
	add(right, x+w-Inches(right.widthPx)/2, y, x+w-Inches(right.widthPx)/2, y+h)
	add(bottom, x, y+h-Inches(bottom.widthPx)/2, x+w, y+h-Inches(bottom.widthPx)/2)
	add(left, x+Inches(left.widthPx)/2, y, x+Inches(left.widthPx)/2, y+h)
	return lines
}

// parseShadow interprets a computed box-shadow. Computed values arrive as
// "rgba(...) Xpx Ypx blur spread" with the color either first or last.
func (p *pass) parseShadow(v string) *slidekit.Shadow {
	v = strings.TrimSpace(v)
	if v == "" || v == "none" {
		return nil
	}
	// Multiple shadows keep only the first.
	if i := strings.Index(v, "px,"); i > 0 {
		v = v[:i+2]
	}

	color := slidekit.Shadow{Color: "#000000", Transparency: 60}
	if start := strings.Index(v, "rgb"); start >= 0 {
		end := strings.IndexByte(v[start:], ')')
		if end > 0 {
			if c, ok := ParseColor(v[start : start+end+1]); ok {
				color.Color = c.Hex
				color.Transparency = c.Transparency
			}
			v = v[:start] + v[start+end+1:]
		}
	}

	var lengths []float64
	for _, f := range strings.Fields(v) {
		if strings.HasSuffix(f, "px") {
			lengths = append(lengths, Length(f))
		}
	}
	if len(lengths) < 2 {
		return nil
	}

	offsetY := lengths[1]
	var blur float64
	if len(lengths) >= 3 {
		blur = lengths[2]
	}

	sh := color
	sh.OffsetPt = p.cal.Points(offsetY)
	if sh.OffsetPt < 0 {
		sh.OffsetPt = -sh.OffsetPt
		sh.AngleDeg = 270
	} else {
		sh.AngleDeg = 90
	}
	sh.BlurPt = p.cal.Points(blur)
	return &sh
}

// extractSpanText emits the nested text half of a styled-span rewrite:
// the span's inline content becomes a TextBlock overlaid on its shape.
// The box follows the same rotation treatment as the shape half so the
// pair stays aligned for vertical writing modes.
func (p *pass) extractSpanText(n *slidekit.Node) {
	if !n.Box.Positive() {
		return
	}

	deg := Rotation(n.Style)
	box := OrientBox(n.Box, deg)

	parser := &RunParser{Cal: p.cal, Skip: p.liftStyledSpans(n)}
	runs, findings := parser.Parse(n, p.baseRunOptions(n))
	p.doc.Errors = append(p.doc.Errors, findings...)
	if len(runs) == 0 {
		return
	}

	style := p.textStyle(n, false)
	style.RotationDeg = deg

	p.doc.Elements = append(p.doc.Elements, slidekit.TextBlock{
		Position: BoxToPosition(box),
		Runs:     runs,
		Style:    style,
	})
}
