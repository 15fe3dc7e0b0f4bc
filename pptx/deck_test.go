package pptx_test

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/slidekit/slidekit"
	"github.com/slidekit/slidekit/pptx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Deck implements slidekit.Deck.
var _ slidekit.Deck = (*pptx.Deck)(nil)

func saveDeck(t *testing.T, d *pptx.Deck) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.SaveTo(&buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	return zr
}

func readPart(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	f, err := zr.Open(name)
	require.NoError(t, err, name)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return data
}

func parsePart(t *testing.T, zr *zip.Reader, name string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(readPart(t, zr, name)))
	return doc
}

func writeImage(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDeckPackageStructure(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddText(slidekit.TextBlock{
		Position: slidekit.Position{X: 1, Y: 1, W: 4, H: 1},
		Text:     "hello",
	}))
	d.AddSlide()
	require.NoError(t, d.AddText(slidekit.TextBlock{
		Position: slidekit.Position{X: 1, Y: 1, W: 4, H: 1},
		Text:     "world",
	}))

	zr := saveDeck(t, d)

	for _, part := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide1.xml.rels",
	} {
		_, err := zr.Open(part)
		assert.NoError(t, err, part)
	}

	pres := parsePart(t, zr, "ppt/presentation.xml")
	sldSz := pres.FindElement("//p:sldSz")
	require.NotNil(t, sldSz)
	// 10in wide at 914400 EMU/in.
	assert.Equal(t, "9144000", sldSz.SelectAttrValue("cx", ""))
	assert.Equal(t, "5143500", sldSz.SelectAttrValue("cy", ""))
	assert.Len(t, pres.FindElements("//p:sldId"), 2)
}

func TestDeckText(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddText(slidekit.TextBlock{
		Position: slidekit.Position{X: 1, Y: 0.5, W: 5, H: 1},
		Runs: []slidekit.Run{
			{Text: "big ", Options: slidekit.RunOptions{Bold: true}},
			{Text: "news", Options: slidekit.RunOptions{Color: "#FF0000", FontSizePt: 30}},
		},
		Style: slidekit.TextStyle{FontSizePt: 24, FontFace: "Arial", Align: slidekit.AlignCenter, Color: "#111111"},
	}))

	sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")

	texts := sld.FindElements("//a:t")
	require.Len(t, texts, 2)
	assert.Equal(t, "big ", texts[0].Text())
	assert.Equal(t, "news", texts[1].Text())

	rPrs := sld.FindElements("//a:rPr")
	require.Len(t, rPrs, 2)
	assert.Equal(t, "1", rPrs[0].SelectAttrValue("b", ""))
	assert.Equal(t, "2400", rPrs[0].SelectAttrValue("sz", ""))
	assert.Equal(t, "3000", rPrs[1].SelectAttrValue("sz", ""))

	fills := rPrs[1].FindElements(".//a:srgbClr")
	require.NotEmpty(t, fills)
	assert.Equal(t, "FF0000", fills[0].SelectAttrValue("val", ""))

	pPr := sld.FindElement("//a:pPr")
	require.NotNil(t, pPr)
	assert.Equal(t, "ctr", pPr.SelectAttrValue("algn", ""))

	off := sld.FindElement("//p:sp//a:off")
	require.NotNil(t, off)
	assert.Equal(t, "914400", off.SelectAttrValue("x", ""))
	assert.Equal(t, "457200", off.SelectAttrValue("y", ""))
}

func TestDeckTextLineBreaks(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddText(slidekit.TextBlock{
		Position: slidekit.Position{X: 1, Y: 1, W: 4, H: 1},
		Runs: []slidekit.Run{
			{Text: "first", Options: slidekit.RunOptions{BreakLine: true}},
			{Text: "second"},
		},
	}))

	sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")
	assert.Len(t, sld.FindElements("//a:br"), 1)
	assert.Len(t, sld.FindElements("//a:p"), 1)
}

func TestDeckList(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddList(slidekit.ListBlock{
		Position: slidekit.Position{X: 1, Y: 1, W: 4, H: 2},
		Items: []slidekit.Run{
			{Text: "one", Options: slidekit.RunOptions{BreakLine: true}},
			{Text: "two"},
		},
		Style: slidekit.TextStyle{FontSizePt: 18, BulletIndentPt: 10, MarginLeftPt: 15},
	}))

	sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")

	// One paragraph per item, each carrying a bullet.
	paras := sld.FindElements("//a:p")
	require.Len(t, paras, 2)
	bullets := sld.FindElements("//a:buChar")
	require.Len(t, bullets, 2)
	assert.Equal(t, "•", bullets[0].SelectAttrValue("char", ""))

	pPr := sld.FindElement("//a:pPr")
	require.NotNil(t, pPr)
	// marL = (15 + 10)pt in EMU, indent hangs back by the bullet gap.
	assert.Equal(t, "317500", pPr.SelectAttrValue("marL", ""))
	assert.Equal(t, "-127000", pPr.SelectAttrValue("indent", ""))
}

func TestDeckShape(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddShape(slidekit.ShapeBlock{
		Position:     slidekit.Position{X: 1, Y: 1, W: 2, H: 1},
		Fill:         "#336699",
		Transparency: 25,
		Border:       &slidekit.Border{Color: "#000000", WidthPt: 2},
		CornerRadius: 0.25,
		RotationDeg:  90,
	}))

	sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")

	geom := sld.FindElement("//a:prstGeom")
	require.NotNil(t, geom)
	assert.Equal(t, "roundRect", geom.SelectAttrValue("prst", ""))
	gd := geom.FindElement(".//a:gd")
	require.NotNil(t, gd)
	// 0.25in radius on a 1in shorter side.
	assert.Equal(t, "val 25000", gd.SelectAttrValue("fmla", ""))

	xfrm := sld.FindElement("//p:sp//a:xfrm")
	require.NotNil(t, xfrm)
	assert.Equal(t, "5400000", xfrm.SelectAttrValue("rot", ""))

	fill := sld.FindElement("//p:spPr/a:solidFill/a:srgbClr")
	require.NotNil(t, fill)
	assert.Equal(t, "336699", fill.SelectAttrValue("val", ""))
	alpha := fill.FindElement("a:alpha")
	require.NotNil(t, alpha)
	assert.Equal(t, "75000", alpha.SelectAttrValue("val", ""))

	ln := sld.FindElement("//a:ln")
	require.NotNil(t, ln)
	assert.Equal(t, "25400", ln.SelectAttrValue("w", ""))
}

func TestDeckLine(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddLine(slidekit.LineBlock{
		X1: 1, Y1: 2, X2: 4, Y2: 2,
		Color:   "#CCCCCC",
		WidthPt: 1.5,
	}))

	sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")

	cxn := sld.FindElement("//p:cxnSp")
	require.NotNil(t, cxn)
	ext := cxn.FindElement(".//a:ext")
	require.NotNil(t, ext)
	assert.Equal(t, "2743200", ext.SelectAttrValue("cx", ""))
	assert.Equal(t, "0", ext.SelectAttrValue("cy", ""))
	ln := cxn.FindElement(".//a:ln")
	require.NotNil(t, ln)
	assert.Equal(t, "19050", ln.SelectAttrValue("w", ""))
}

func TestDeckTable(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddTable(slidekit.TableBlock{
		Position:          slidekit.Position{X: 1, Y: 1, W: 4, H: 2},
		ColumnWidthRatios: []float64{0.25, 0.75},
		Rows: [][]slidekit.Cell{
			{
				{Text: "Region", Style: slidekit.CellStyle{Bold: true, Fill: "#003366", FontSizePt: 12}},
				{Text: "Revenue", Style: slidekit.CellStyle{Bold: true, Fill: "#003366", FontSizePt: 12}},
			},
			{
				{Text: "EMEA", Style: slidekit.CellStyle{FontSizePt: 10}},
				{Text: "1.2M", Style: slidekit.CellStyle{FontSizePt: 10}},
			},
		},
	}))

	sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")

	cols := sld.FindElements("//a:gridCol")
	require.Len(t, cols, 2)
	assert.Equal(t, "914400", cols[0].SelectAttrValue("w", ""))
	assert.Equal(t, "2743200", cols[1].SelectAttrValue("w", ""))

	rows := sld.FindElements("//a:tr")
	require.Len(t, rows, 2)
	assert.Equal(t, "914400", rows[0].SelectAttrValue("h", ""))

	cells := sld.FindElements("//a:tc")
	require.Len(t, cells, 4)
	headFill := cells[0].FindElement(".//a:tcPr/a:solidFill/a:srgbClr")
	require.NotNil(t, headFill)
	assert.Equal(t, "003366", headFill.SelectAttrValue("val", ""))

	headRPr := cells[0].FindElement(".//a:rPr")
	require.NotNil(t, headRPr)
	assert.Equal(t, "1", headRPr.SelectAttrValue("b", ""))
	assert.Equal(t, "1200", headRPr.SelectAttrValue("sz", ""))
}

func TestDeckTableValidation(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	err := d.AddTable(slidekit.TableBlock{
		Position:          slidekit.Position{X: 1, Y: 1, W: 4, H: 2},
		ColumnWidthRatios: []float64{0.5, 0.5},
		Rows:              [][]slidekit.Cell{{{Text: "only one"}}},
	})
	require.Error(t, err)
	assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
}

func TestDeckImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\nfakepixels")
	a := writeImage(t, dir, "a.png", png)
	b := writeImage(t, dir, "b.png", png) // same bytes, different path
	c := writeImage(t, dir, "c.png", []byte("\x89PNG\r\n\x1a\nother"))

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddImage(slidekit.ImageBlock{Position: slidekit.Position{X: 0, Y: 0, W: 1, H: 1}, SourcePath: a}))
	require.NoError(t, d.AddImage(slidekit.ImageBlock{Position: slidekit.Position{X: 2, Y: 0, W: 1, H: 1}, SourcePath: b}))
	require.NoError(t, d.AddImage(slidekit.ImageBlock{Position: slidekit.Position{X: 4, Y: 0, W: 1, H: 1}, SourcePath: c}))

	zr := saveDeck(t, d)

	// Identical bytes are stored once.
	var media []string
	for _, f := range zr.File {
		if len(f.Name) > 10 && f.Name[:10] == "ppt/media/" {
			media = append(media, f.Name)
		}
	}
	assert.Len(t, media, 2)

	sld := parsePart(t, zr, "ppt/slides/slide1.xml")
	assert.Len(t, sld.FindElements("//p:pic"), 3)

	rels := parsePart(t, zr, "ppt/slides/_rels/slide1.xml.rels")
	targets := map[string]int{}
	for _, rel := range rels.FindElements("//Relationship") {
		targets[rel.SelectAttrValue("Target", "")]++
	}
	assert.Equal(t, 2, targets["../media/image1.png"])
	assert.Equal(t, 1, targets["../media/image2.png"])
}

func TestDeckImageMissing(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	err := d.AddImage(slidekit.ImageBlock{
		Position:   slidekit.Position{X: 0, Y: 0, W: 1, H: 1},
		SourcePath: filepath.Join(t.TempDir(), "missing.png"),
	})
	require.Error(t, err)
	assert.Equal(t, slidekit.ENOTFOUND, slidekit.ErrorCode(err))
}

func TestDeckBackground(t *testing.T) {
	t.Parallel()

	t.Run("solid color", func(t *testing.T) {
		t.Parallel()

		d := pptx.NewDeck(slidekit.DefaultPageSize)
		d.AddSlide()
		require.NoError(t, d.SetBackground(slidekit.Background{Color: "#112233"}))
		require.NoError(t, d.AddText(slidekit.TextBlock{
			Position: slidekit.Position{X: 1, Y: 1, W: 1, H: 1}, Text: "x",
		}))

		sld := parsePart(t, saveDeck(t, d), "ppt/slides/slide1.xml")
		bg := sld.FindElement("//p:bg//a:srgbClr")
		require.NotNil(t, bg)
		assert.Equal(t, "112233", bg.SelectAttrValue("val", ""))
	})

	t.Run("image", func(t *testing.T) {
		t.Parallel()

		path := writeImage(t, t.TempDir(), "bg.png", []byte("\x89PNG\r\n\x1a\nbg"))
		d := pptx.NewDeck(slidekit.DefaultPageSize)
		d.AddSlide()
		require.NoError(t, d.SetBackground(slidekit.Background{ImagePath: path}))
		require.NoError(t, d.AddText(slidekit.TextBlock{
			Position: slidekit.Position{X: 1, Y: 1, W: 1, H: 1}, Text: "x",
		}))

		zr := saveDeck(t, d)
		sld := parsePart(t, zr, "ppt/slides/slide1.xml")
		blip := sld.FindElement("//p:bg//a:blip")
		require.NotNil(t, blip)
		assert.NotEmpty(t, blip.SelectAttrValue("r:embed", ""))
	})

	t.Run("both color and image is invalid", func(t *testing.T) {
		t.Parallel()

		d := pptx.NewDeck(slidekit.DefaultPageSize)
		d.AddSlide()
		err := d.SetBackground(slidekit.Background{Color: "#FFFFFF", ImagePath: "x.png"})
		require.Error(t, err)
		assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
	})
}

func TestDeckDiscardSlide(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.AddSlide()
	require.NoError(t, d.AddText(slidekit.TextBlock{
		Position: slidekit.Position{X: 1, Y: 1, W: 4, H: 1}, Text: "kept",
	}))
	d.AddSlide()
	require.NoError(t, d.AddText(slidekit.TextBlock{
		Position: slidekit.Position{X: 1, Y: 1, W: 4, H: 1}, Text: "dropped",
	}))
	d.DiscardSlide()

	zr := saveDeck(t, d)
	sld := parsePart(t, zr, "ppt/slides/slide1.xml")
	texts := sld.FindElements("//a:t")
	require.Len(t, texts, 1)
	assert.Equal(t, "kept", texts[0].Text())

	_, err := zr.Open("ppt/slides/slide2.xml")
	require.Error(t, err)
}

func TestDeckDiscardAllSlides(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	d.DiscardSlide() // nothing to remove
	d.AddSlide()
	d.DiscardSlide()

	var buf bytes.Buffer
	err := d.SaveTo(&buf)
	require.Error(t, err)
	assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
}

func TestDeckRequiresSlide(t *testing.T) {
	t.Parallel()

	d := pptx.NewDeck(slidekit.DefaultPageSize)
	err := d.AddText(slidekit.TextBlock{Position: slidekit.Position{X: 0, Y: 0, W: 1, H: 1}, Text: "x"})
	require.Error(t, err)
	assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
	assert.Contains(t, slidekit.ErrorMessage(err), "AddSlide")
}

func TestDeckSaveEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := pptx.NewDeck(slidekit.DefaultPageSize).SaveTo(&buf)
	require.Error(t, err)
	assert.Equal(t, slidekit.EINVALID, slidekit.ErrorCode(err))
}
