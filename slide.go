package slidekit

import (
	"fmt"
	"strings"
)

// MinFontSizePt is the smallest font size the deck model accepts. Style
// conversion floors anything smaller to this value.
const MinFontSizePt = 6.0

// Position is an element's bounding box in inches, relative to the slide's
// top-left corner.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Validate returns an error if the box has a non-positive area.
func (p Position) Validate() error {
	if p.W <= 0 || p.H <= 0 {
		return Errorf(EINVALID, "element box must have positive dimensions, got %.2fx%.2f", p.W, p.H)
	}
	return nil
}

// Element is one visual item on a slide. The variant set is closed:
// TextBlock, ListBlock, TableBlock, ShapeBlock, ImageBlock and LineBlock.
// Slice order is z-order; later elements sit above earlier ones.
type Element interface {
	// Bounds returns the element's bounding box in inches.
	Bounds() Position

	element()
}

// TextBlock is a heading, paragraph or code block. Either Text or Runs is
// set, never both.
type TextBlock struct {
	Position
	Text  string
	Runs  []Run
	Style TextStyle
}

// ListBlock is an ordered or unordered list flattened into one run
// sequence, one item per line.
type ListBlock struct {
	Position
	Items []Run
	Style TextStyle
}

// TableBlock is a reconstructed table. Every row has exactly
// len(ColumnWidthRatios) cells and the ratios sum to approximately 1.0.
type TableBlock struct {
	Position
	Rows              [][]Cell
	ColumnWidthRatios []float64
}

// Cell is one table cell. Runs is set instead of Text only when the cell
// carries inline styling beyond font metrics.
type Cell struct {
	Text  string
	Runs  []Run
	Style CellStyle
}

// CellStyle is the resolved per-cell presentation.
type CellStyle struct {
	FontSizePt float64
	FontFace   string
	Bold       bool
	Color      string
	Fill       string
	Align      string
}

// ShapeBlock is a styled container. It never carries text; text children
// are separate TextBlocks overlaid on top of it.
type ShapeBlock struct {
	Position
	Fill         string // "#RRGGBB", empty for no fill
	Transparency int    // 0-100
	Border       *Border
	CornerRadius float64 // inches; 1.0 means as round as geometry allows
	Shadow       *Shadow
	RotationDeg  float64
}

// Border is a uniform stroke around a shape. Non-uniform borders are
// decomposed into LineBlocks instead.
type Border struct {
	Color   string
	WidthPt float64
}

// Shadow describes an outer box shadow.
type Shadow struct {
	Color        string
	BlurPt       float64
	OffsetPt     float64
	AngleDeg     int
	Transparency int
}

// ImageBlock places a raster image.
type ImageBlock struct {
	Position
	SourcePath string
}

// LineBlock is a single straight line, emitted to represent one edge of a
// non-uniform container border. Coordinates are inches.
type LineBlock struct {
	X1, Y1, X2, Y2 float64
	Color          string
	WidthPt        float64
}

func (TextBlock) element()  {}
func (ListBlock) element()  {}
func (TableBlock) element() {}
func (ShapeBlock) element() {}
func (ImageBlock) element() {}
func (LineBlock) element()  {}

// Bounds implements Element.
func (b TextBlock) Bounds() Position  { return b.Position }
func (b ListBlock) Bounds() Position  { return b.Position }
func (b TableBlock) Bounds() Position { return b.Position }
func (b ShapeBlock) Bounds() Position { return b.Position }
func (b ImageBlock) Bounds() Position { return b.Position }

// Bounds implements Element. A line's box is the bounding rectangle of its
// endpoints; width or height may be zero for axis-aligned lines.
func (b LineBlock) Bounds() Position {
	x, y := min(b.X1, b.X2), min(b.Y1, b.Y2)
	return Position{X: x, Y: y, W: max(b.X1, b.X2) - x, H: max(b.Y1, b.Y2) - y}
}

// Run is a maximal span of text sharing one style-options object within a
// single text-bearing element.
type Run struct {
	Text    string
	Options RunOptions
}

// RunOptions holds the per-run style overrides. Zero values mean
// "inherit from the enclosing block style".
type RunOptions struct {
	Bold         bool
	Italic       bool
	Underline    bool
	Color        string
	FontSizePt   float64
	Transparency int
	BreakLine    bool
	BulletIndent float64 // points
}

// sameStyle reports whether two option sets are identical apart from
// BreakLine, which terminates a run rather than styling it.
func (o RunOptions) sameStyle(other RunOptions) bool {
	o.BreakLine, other.BreakLine = false, false
	return o == other
}

// MergeRuns collapses adjacent runs with identical style options and
// strips the first run's leading whitespace and the last run's trailing
// whitespace. Interior whitespace is preserved. Runs ending in a line
// break are never merged with their successor.
func MergeRuns(runs []Run) []Run {
	if len(runs) == 0 {
		return nil
	}

	merged := make([]Run, 0, len(runs))
	for _, r := range runs {
		if n := len(merged); n > 0 {
			prev := &merged[n-1]
			if !prev.Options.BreakLine && prev.Options.sameStyle(r.Options) {
				prev.Text += r.Text
				prev.Options.BreakLine = r.Options.BreakLine
				continue
			}
		}
		merged = append(merged, r)
	}

	merged[0].Text = strings.TrimLeft(merged[0].Text, " \t\n")
	last := len(merged) - 1
	merged[last].Text = strings.TrimRight(merged[last].Text, " \t\n")

	// Dropping edge whitespace can empty out a run entirely.
	out := merged[:0]
	for _, r := range merged {
		if r.Text == "" && !r.Options.BreakLine {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Text alignment values understood by the deck model.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// TextStyle is the resolved block-level text presentation.
type TextStyle struct {
	FontSizePt        float64
	FontFace          string
	Color             string
	Align             string
	LineSpacingPt     float64 // 0 = renderer default
	ParaSpaceBeforePt float64
	ParaSpaceAfterPt  float64
	MarginPt          [4]float64 // top, right, bottom, left
	RotationDeg       float64    // 0 = no rotation
	Transparency      int
	BulletIndentPt    float64 // list bullet position; lists only
	MarginLeftPt      float64 // lists only
}

// Placeholder is a named rectangular reservation for externally-inserted
// content such as a chart. Coordinates are inches.
type Placeholder struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

// Background is a slide background: a solid color or an image, never both.
type Background struct {
	Color     string // "#RRGGBB"
	ImagePath string
}

// Validate returns an error unless exactly one of Color and ImagePath is set.
func (b Background) Validate() error {
	if (b.Color == "") == (b.ImagePath == "") {
		return Errorf(EINVALID, "background requires exactly one of color or image")
	}
	return nil
}

// SlideDocument is the complete extraction result for one input document.
// It is constructed in a single extraction pass and immutable afterwards.
// A document with a non-empty Errors list is invalid and must not be
// emitted.
type SlideDocument struct {
	Background   *Background
	Elements     []Element
	Placeholders []Placeholder
	Errors       []string
}

// Valid reports whether the document passed validation.
func (d *SlideDocument) Valid() bool { return len(d.Errors) == 0 }

// Err returns nil for a valid document, or a single composite EINVALID
// error listing every finding in order.
func (d *SlideDocument) Err() error {
	if d.Valid() {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "validation failed with %d finding(s):", len(d.Errors))
	for i, msg := range d.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, msg)
	}
	return Errorf(EINVALID, "%s", sb.String())
}
