// Package extract turns a rendered-DOM snapshot into a slide object model.
// It is pure: all browser interaction happens in the renderer, and every
// validation finding is accumulated as a string rather than raised, so one
// pass reports everything wrong with a document at once.
package extract

import (
	"strconv"
	"strings"

	"github.com/slidekit/slidekit"
)

// Calibration holds the empirically tuned conversion constants. The two
// pixel-to-point ratios disagree on purpose: table cells and the overflow
// check were calibrated against a different rendering-engine rounding
// behavior than generic text. Treat the defaults as a known source of
// visual drift, not as derived values.
type Calibration struct {
	// PxToPt converts generic pixel lengths to points.
	PxToPt float64

	// CellPxToPt converts pixel lengths inside table cells and in the
	// overflow check.
	CellPxToPt float64

	// TableFontScale shrinks table text relative to generic text to
	// compensate for denser rendering inside constrained cells.
	TableFontScale float64

	// OverflowTolerancePt is the vertical overflow allowed before a
	// finding is reported.
	OverflowTolerancePt float64

	// SizeToleranceIn is the per-axis tolerance for the layout-size
	// mismatch check.
	SizeToleranceIn float64

	// BottomMarginIn and BottomMarginMinFontPt parameterize the
	// bottom-crowding check: text larger than the font threshold must end
	// at least the margin above the page bottom.
	BottomMarginIn        float64
	BottomMarginMinFontPt float64
}

// DefaultCalibration returns the reference constants.
func DefaultCalibration() Calibration {
	return Calibration{
		PxToPt:                0.75,
		CellPxToPt:            0.8,
		TableFontScale:        0.85,
		OverflowTolerancePt:   100,
		SizeToleranceIn:       1.0,
		BottomMarginIn:        0.5,
		BottomMarginMinFontPt: 12,
	}
}

// Points converts a generic pixel length to points.
func (c Calibration) Points(px float64) float64 { return px * c.PxToPt }

// CellPoints converts a table-cell or overflow pixel length to points.
func (c Calibration) CellPoints(px float64) float64 { return px * c.CellPxToPt }

// Inches converts a pixel length to inches at the CSS reference density.
func Inches(px float64) float64 { return px / slidekit.PixelsPerInch }

// BoxToPosition converts a snapshot box to an element position in inches.
func BoxToPosition(b slidekit.Box) slidekit.Position {
	return slidekit.Position{
		X: Inches(b.X),
		Y: Inches(b.Y),
		W: Inches(b.W),
		H: Inches(b.H),
	}
}

// Length parses a computed CSS pixel length such as "12.5px". Bare
// numbers are accepted. Returns 0 for anything unparseable ("auto",
// "normal", "").
func Length(v string) float64 {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// FontSizePt converts a computed font-size to points, flooring at the
// deck model's minimum.
func (c Calibration) FontSizePt(v string) float64 {
	pt := c.Points(Length(v))
	if pt < slidekit.MinFontSizePt {
		return slidekit.MinFontSizePt
	}
	return pt
}

// FullRound is the corner radius sentinel meaning "as round as the
// geometry allows".
const FullRound = 1.0

// CornerRadius converts a computed border-radius to an absolute corner
// radius in inches for the given box. Percentages of 50 or more mean
// full-round; smaller percentages resolve against the shorter box
// dimension.
func (c Calibration) CornerRadius(v string, box slidekit.Box) float64 {
	v = strings.TrimSpace(v)
	if v == "" || v == "0px" {
		return 0
	}
	// Computed multi-value radii keep only the first corner.
	if i := strings.IndexByte(v, ' '); i > 0 {
		v = v[:i]
	}
	if strings.HasSuffix(v, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil || pct <= 0 {
			return 0
		}
		if pct >= 50 {
			return FullRound
		}
		shorter := min(box.W, box.H)
		return Inches(shorter) * pct / 100
	}
	return Inches(Length(v))
}

// Align maps a computed text-align keyword to the deck model's alignment
// enum. Unknown keywords (including "start") map to left.
func Align(v string) string {
	switch strings.TrimSpace(v) {
	case "center":
		return slidekit.AlignCenter
	case "right", "end":
		return slidekit.AlignRight
	case "justify":
		return slidekit.AlignJustify
	default:
		return slidekit.AlignLeft
	}
}

// Bold reports whether a computed font-weight is bold. Computed weights
// are numeric in modern engines; keywords are accepted for snapshots
// built from static HTML.
func Bold(v string) bool {
	v = strings.TrimSpace(v)
	if v == "bold" || v == "bolder" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 600
}

// FontFace returns the first family of a computed font-family list,
// unquoted.
func FontFace(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.Trim(strings.TrimSpace(v), `"'`)
}
