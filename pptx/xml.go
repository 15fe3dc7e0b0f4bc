package pptx

import (
	"fmt"
	"math"
	"strings"

	"github.com/beevik/etree"
	"github.com/slidekit/slidekit"
)

// OOXML namespaces.
const (
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsOfficeDocRels  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"

	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// English Metric Units.
const (
	emuPerInch  = 914400
	emuPerPoint = 12700
)

func emuIn(v float64) int64 { return int64(math.Round(v * emuPerInch)) }
func emuPt(v float64) int64 { return int64(math.Round(v * emuPerPoint)) }

// hundredthsPt is the text size unit: points times 100.
func hundredthsPt(v float64) int64 { return int64(math.Round(v * 100)) }

// sixtieths is the angle unit: degrees times 60000.
func sixtieths(deg float64) int64 { return int64(math.Round(deg * 60000)) }

// alphaVal converts the model's 0-100 transparency to the alpha
// thousandths OOXML expects.
func alphaVal(transparency int) int { return (100 - transparency) * 1000 }

func hexVal(c string) string { return strings.TrimPrefix(c, "#") }

func alignVal(a string) string {
	switch a {
	case slidekit.AlignCenter:
		return "ctr"
	case slidekit.AlignRight:
		return "r"
	case slidekit.AlignJustify:
		return "just"
	default:
		return "l"
	}
}

// relationship is one entry in a part's .rels file.
type relationship struct {
	id     string
	kind   string
	target string
}

// slideWriter generates one slide part and its relationships.
type slideWriter struct {
	deck  *Deck
	rels  []relationship
	spID  int
	tree  *etree.Element
}

func (d *Deck) slideXML(s *slide) (*etree.Document, []relationship) {
	w := &slideWriter{
		deck: d,
		rels: []relationship{{id: "rId1", kind: relTypeSlideLayout, target: "../slideLayouts/slideLayout1.xml"}},
		spID: 1, // 1 is reserved for the group shape
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", nsDrawingML)
	sld.CreateAttr("xmlns:r", nsOfficeDocRels)
	sld.CreateAttr("xmlns:p", nsPresentationML)

	cSld := sld.CreateElement("p:cSld")
	w.background(cSld, s)

	spTree := cSld.CreateElement("p:spTree")
	nv := spTree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")
	grpSpPr := spTree.CreateElement("p:grpSpPr")
	xfrm := grpSpPr.CreateElement("a:xfrm")
	zeroPoint(xfrm.CreateElement("a:off"))
	zeroExt(xfrm.CreateElement("a:ext"))
	zeroPoint(xfrm.CreateElement("a:chOff"))
	zeroExt(xfrm.CreateElement("a:chExt"))

	w.tree = spTree
	for _, b := range s.blocks {
		switch el := b.(type) {
		case slidekit.TextBlock:
			w.textShape(el)
		case slidekit.ListBlock:
			w.listShape(el)
		case slidekit.TableBlock:
			w.tableFrame(el)
		case slidekit.ShapeBlock:
			w.autoShape(el)
		case slidekit.ImageBlock:
			w.picture(el)
		case slidekit.LineBlock:
			w.connector(el)
		}
	}

	clrMap := sld.CreateElement("p:clrMapOvr")
	clrMap.CreateElement("a:masterClrMapping")

	return doc, w.rels
}

func zeroPoint(e *etree.Element) {
	e.CreateAttr("x", "0")
	e.CreateAttr("y", "0")
}

func zeroExt(e *etree.Element) {
	e.CreateAttr("cx", "0")
	e.CreateAttr("cy", "0")
}

func (w *slideWriter) nextID() int {
	w.spID++
	return w.spID
}

// addRel registers a relationship for the current slide and returns its ID.
func (w *slideWriter) addRel(kind, target string) string {
	id := fmt.Sprintf("rId%d", len(w.rels)+1)
	w.rels = append(w.rels, relationship{id: id, kind: kind, target: target})
	return id
}

func (w *slideWriter) mediaRel(idx int) string {
	target := fmt.Sprintf("../media/image%d.%s", idx+1, w.deck.media[idx].ext)
	return w.addRel(relTypeImage, target)
}

func (w *slideWriter) background(cSld *etree.Element, s *slide) {
	if s.bgColor == "" && s.bgMedia < 0 {
		return
	}
	bgPr := cSld.CreateElement("p:bg").CreateElement("p:bgPr")
	if s.bgMedia >= 0 {
		blipFill := bgPr.CreateElement("a:blipFill")
		blip := blipFill.CreateElement("a:blip")
		blip.CreateAttr("r:embed", w.mediaRel(s.bgMedia))
		blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")
	} else {
		solidFill(bgPr, s.bgColor, 0)
	}
	bgPr.CreateElement("a:effectLst")
}

// solidFill appends <a:solidFill> with an optional alpha child.
func solidFill(parent *etree.Element, hex string, transparency int) {
	clr := parent.CreateElement("a:solidFill").CreateElement("a:srgbClr")
	clr.CreateAttr("val", hexVal(hex))
	if transparency > 0 {
		clr.CreateElement("a:alpha").CreateAttr("val", fmt.Sprint(alphaVal(transparency)))
	}
}

// shapeXfrm writes the offset/extent transform, with rotation when set.
func shapeXfrm(spPr *etree.Element, pos slidekit.Position, rotDeg float64) {
	xfrm := spPr.CreateElement("a:xfrm")
	if rotDeg != 0 {
		xfrm.CreateAttr("rot", fmt.Sprint(sixtieths(rotDeg)))
	}
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", fmt.Sprint(emuIn(pos.X)))
	off.CreateAttr("y", fmt.Sprint(emuIn(pos.Y)))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprint(emuIn(pos.W)))
	ext.CreateAttr("cy", fmt.Sprint(emuIn(pos.H)))
}

func prstGeom(spPr *etree.Element, prst string) *etree.Element {
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", prst)
	return geom.CreateElement("a:avLst")
}

// textShape writes a text block as an unfilled text box.
func (w *slideWriter) textShape(b slidekit.TextBlock) {
	sp := w.tree.CreateElement("p:sp")
	id := w.nextID()

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("TextBox %d", id))
	nv.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	shapeXfrm(spPr, b.Position, b.Style.RotationDeg)
	prstGeom(spPr, "rect")
	spPr.CreateElement("a:noFill")

	txBody := sp.CreateElement("p:txBody")
	w.bodyPr(txBody, b.Style)
	txBody.CreateElement("a:lstStyle")

	runs := b.Runs
	if len(runs) == 0 {
		runs = []slidekit.Run{{Text: b.Text}}
	}
	w.paragraph(txBody, runs, b.Style, nil)
}

// listShape writes a list block: one bulleted paragraph per item.
func (w *slideWriter) listShape(b slidekit.ListBlock) {
	sp := w.tree.CreateElement("p:sp")
	id := w.nextID()

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("List %d", id))
	nv.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	shapeXfrm(spPr, b.Position, b.Style.RotationDeg)
	prstGeom(spPr, "rect")
	spPr.CreateElement("a:noFill")

	txBody := sp.CreateElement("p:txBody")
	w.bodyPr(txBody, b.Style)
	txBody.CreateElement("a:lstStyle")

	bullet := &bulletProps{
		char:     "•",
		marginPt: b.Style.MarginLeftPt,
		indentPt: b.Style.BulletIndentPt,
	}
	for _, item := range splitItems(b.Items) {
		w.paragraph(txBody, item, b.Style, bullet)
	}
}

// splitItems cuts a flattened run sequence back into per-line groups at
// the BreakLine boundaries.
func splitItems(runs []slidekit.Run) [][]slidekit.Run {
	var items [][]slidekit.Run
	var cur []slidekit.Run
	for _, r := range runs {
		cur = append(cur, r)
		if r.Options.BreakLine {
			items = append(items, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		items = append(items, cur)
	}
	return items
}

type bulletProps struct {
	char     string
	marginPt float64
	indentPt float64
}

func (w *slideWriter) bodyPr(txBody *etree.Element, style slidekit.TextStyle) {
	bodyPr := txBody.CreateElement("a:bodyPr")
	bodyPr.CreateAttr("wrap", "square")
	bodyPr.CreateAttr("anchor", "t")
	// Margins arrive as top, right, bottom, left.
	bodyPr.CreateAttr("tIns", fmt.Sprint(emuPt(style.MarginPt[0])))
	bodyPr.CreateAttr("rIns", fmt.Sprint(emuPt(style.MarginPt[1])))
	bodyPr.CreateAttr("bIns", fmt.Sprint(emuPt(style.MarginPt[2])))
	bodyPr.CreateAttr("lIns", fmt.Sprint(emuPt(style.MarginPt[3])))
}

// paragraph writes one a:p. Runs with BreakLine get an a:br after them,
// except at the paragraph end.
func (w *slideWriter) paragraph(txBody *etree.Element, runs []slidekit.Run, style slidekit.TextStyle, bullet *bulletProps) {
	p := txBody.CreateElement("a:p")
	pPr := p.CreateElement("a:pPr")
	pPr.CreateAttr("algn", alignVal(style.Align))

	if bullet != nil {
		pPr.CreateAttr("marL", fmt.Sprint(emuPt(bullet.marginPt+bullet.indentPt)))
		pPr.CreateAttr("indent", fmt.Sprint(-emuPt(bullet.indentPt)))
	}

	if style.LineSpacingPt > 0 {
		pPr.CreateElement("a:lnSpc").CreateElement("a:spcPts").
			CreateAttr("val", fmt.Sprint(hundredthsPt(style.LineSpacingPt)))
	}
	if style.ParaSpaceBeforePt > 0 {
		pPr.CreateElement("a:spcBef").CreateElement("a:spcPts").
			CreateAttr("val", fmt.Sprint(hundredthsPt(style.ParaSpaceBeforePt)))
	}
	if style.ParaSpaceAfterPt > 0 {
		pPr.CreateElement("a:spcAft").CreateElement("a:spcPts").
			CreateAttr("val", fmt.Sprint(hundredthsPt(style.ParaSpaceAfterPt)))
	}
	if bullet != nil {
		pPr.CreateElement("a:buChar").CreateAttr("char", bullet.char)
	} else {
		pPr.CreateElement("a:buNone")
	}

	for i, r := range runs {
		w.run(p, r, style)
		if r.Options.BreakLine && i < len(runs)-1 {
			p.CreateElement("a:br")
		}
	}
}

func (w *slideWriter) run(p *etree.Element, r slidekit.Run, style slidekit.TextStyle) {
	if r.Text == "" {
		return
	}
	el := p.CreateElement("a:r")
	rPr := el.CreateElement("a:rPr")
	rPr.CreateAttr("lang", "en-US")

	size := style.FontSizePt
	if r.Options.FontSizePt > 0 {
		size = r.Options.FontSizePt
	}
	if size > 0 {
		rPr.CreateAttr("sz", fmt.Sprint(hundredthsPt(size)))
	}
	rPr.CreateAttr("dirty", "0")
	if r.Options.Bold {
		rPr.CreateAttr("b", "1")
	}
	if r.Options.Italic {
		rPr.CreateAttr("i", "1")
	}
	if r.Options.Underline {
		rPr.CreateAttr("u", "sng")
	}

	color := style.Color
	transparency := style.Transparency
	if r.Options.Color != "" {
		color = r.Options.Color
		transparency = r.Options.Transparency
	}
	if color != "" {
		solidFill(rPr, color, transparency)
	}
	if style.FontFace != "" {
		rPr.CreateElement("a:latin").CreateAttr("typeface", style.FontFace)
	}

	el.CreateElement("a:t").SetText(r.Text)
}

// autoShape writes a styled container as a rect or roundRect shape.
func (w *slideWriter) autoShape(b slidekit.ShapeBlock) {
	sp := w.tree.CreateElement("p:sp")
	id := w.nextID()

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("Shape %d", id))
	nv.CreateElement("p:cNvSpPr")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	shapeXfrm(spPr, b.Position, b.RotationDeg)

	if b.CornerRadius > 0 {
		avLst := prstGeom(spPr, "roundRect")
		gd := avLst.CreateElement("a:gd")
		gd.CreateAttr("name", "adj")
		gd.CreateAttr("fmla", fmt.Sprintf("val %d", cornerAdj(b)))
	} else {
		prstGeom(spPr, "rect")
	}

	if b.Fill != "" {
		solidFill(spPr, b.Fill, b.Transparency)
	} else {
		spPr.CreateElement("a:noFill")
	}

	if b.Border != nil {
		ln := spPr.CreateElement("a:ln")
		ln.CreateAttr("w", fmt.Sprint(emuPt(b.Border.WidthPt)))
		solidFill(ln, b.Border.Color, 0)
	}

	if b.Shadow != nil {
		shdw := spPr.CreateElement("a:effectLst").CreateElement("a:outerShdw")
		shdw.CreateAttr("blurRad", fmt.Sprint(emuPt(b.Shadow.BlurPt)))
		shdw.CreateAttr("dist", fmt.Sprint(emuPt(b.Shadow.OffsetPt)))
		shdw.CreateAttr("dir", fmt.Sprint(sixtieths(float64(b.Shadow.AngleDeg))))
		shdw.CreateAttr("rotWithShape", "0")
		clr := shdw.CreateElement("a:srgbClr")
		clr.CreateAttr("val", hexVal(b.Shadow.Color))
		clr.CreateElement("a:alpha").CreateAttr("val", fmt.Sprint(alphaVal(b.Shadow.Transparency)))
	}
}

// cornerAdj converts the model's corner radius to the roundRect
// adjustment, a fraction of the shorter side in hundred-thousandths
// capped at the full-round value.
func cornerAdj(b slidekit.ShapeBlock) int64 {
	shorter := math.Min(b.Position.W, b.Position.H)
	if shorter <= 0 {
		return 0
	}
	frac := b.CornerRadius / shorter
	if frac > 0.5 {
		frac = 0.5
	}
	return int64(math.Round(frac * 100000))
}

// picture writes an image element referencing a media part.
func (w *slideWriter) picture(b slidekit.ImageBlock) {
	idx, ok := w.deck.mediaPath[b.SourcePath]
	if !ok {
		return
	}

	pic := w.tree.CreateElement("p:pic")
	id := w.nextID()

	nv := pic.CreateElement("p:nvPicPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("Picture %d", id))
	nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks").CreateAttr("noChangeAspect", "1")
	nv.CreateElement("p:nvPr")

	blipFill := pic.CreateElement("p:blipFill")
	blipFill.CreateElement("a:blip").CreateAttr("r:embed", w.mediaRel(idx))
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("p:spPr")
	shapeXfrm(spPr, b.Position, 0)
	prstGeom(spPr, "rect")
}

// connector writes a line as a connection shape. Negative slopes flip the
// shape vertically because the transform only carries positive extents.
func (w *slideWriter) connector(b slidekit.LineBlock) {
	cxn := w.tree.CreateElement("p:cxnSp")
	id := w.nextID()

	nv := cxn.CreateElement("p:nvCxnSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("Line %d", id))
	nv.CreateElement("p:cNvCxnSpPr")
	nv.CreateElement("p:nvPr")

	spPr := cxn.CreateElement("p:spPr")
	bounds := b.Bounds()
	xfrm := spPr.CreateElement("a:xfrm")
	if (b.X2-b.X1)*(b.Y2-b.Y1) < 0 {
		xfrm.CreateAttr("flipV", "1")
	}
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", fmt.Sprint(emuIn(bounds.X)))
	off.CreateAttr("y", fmt.Sprint(emuIn(bounds.Y)))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprint(emuIn(bounds.W)))
	ext.CreateAttr("cy", fmt.Sprint(emuIn(bounds.H)))

	prstGeom(spPr, "line")
	ln := spPr.CreateElement("a:ln")
	ln.CreateAttr("w", fmt.Sprint(emuPt(b.WidthPt)))
	solidFill(ln, b.Color, 0)
}

// tableFrame writes a table as a graphic frame.
func (w *slideWriter) tableFrame(b slidekit.TableBlock) {
	frame := w.tree.CreateElement("p:graphicFrame")
	id := w.nextID()

	nv := frame.CreateElement("p:nvGraphicFramePr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprint(id))
	cNvPr.CreateAttr("name", fmt.Sprintf("Table %d", id))
	nv.CreateElement("p:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks").CreateAttr("noGrp", "1")
	nv.CreateElement("p:nvPr")

	xfrm := frame.CreateElement("p:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", fmt.Sprint(emuIn(b.Position.X)))
	off.CreateAttr("y", fmt.Sprint(emuIn(b.Position.Y)))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprint(emuIn(b.Position.W)))
	ext.CreateAttr("cy", fmt.Sprint(emuIn(b.Position.H)))

	graphicData := frame.CreateElement("a:graphic").CreateElement("a:graphicData")
	graphicData.CreateAttr("uri", "http://schemas.openxmlformats.org/drawingml/2006/table")

	tbl := graphicData.CreateElement("a:tbl")
	tblPr := tbl.CreateElement("a:tblPr")
	tblPr.CreateAttr("firstRow", "1")
	tblPr.CreateAttr("bandRow", "1")

	grid := tbl.CreateElement("a:tblGrid")
	for _, ratio := range b.ColumnWidthRatios {
		grid.CreateElement("a:gridCol").
			CreateAttr("w", fmt.Sprint(emuIn(b.Position.W*ratio)))
	}

	rowHeight := emuIn(b.Position.H / float64(len(b.Rows)))
	for _, row := range b.Rows {
		tr := tbl.CreateElement("a:tr")
		tr.CreateAttr("h", fmt.Sprint(rowHeight))
		for _, cell := range row {
			w.tableCell(tr, cell)
		}
	}
}

func (w *slideWriter) tableCell(tr *etree.Element, cell slidekit.Cell) {
	tc := tr.CreateElement("a:tc")
	txBody := tc.CreateElement("a:txBody")
	txBody.CreateElement("a:bodyPr")
	txBody.CreateElement("a:lstStyle")

	style := slidekit.TextStyle{
		FontSizePt: cell.Style.FontSizePt,
		FontFace:   cell.Style.FontFace,
		Color:      cell.Style.Color,
		Align:      cell.Style.Align,
	}
	runs := cell.Runs
	if len(runs) == 0 {
		opts := slidekit.RunOptions{Bold: cell.Style.Bold}
		runs = []slidekit.Run{{Text: cell.Text, Options: opts}}
	} else if cell.Style.Bold {
		runs = append([]slidekit.Run(nil), runs...)
		for i := range runs {
			runs[i].Options.Bold = true
		}
	}
	w.paragraph(txBody, runs, style, nil)

	tcPr := tc.CreateElement("a:tcPr")
	if cell.Style.Fill != "" {
		solidFill(tcPr, cell.Style.Fill, 0)
	}
}
