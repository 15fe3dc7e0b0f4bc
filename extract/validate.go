package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/slidekit/slidekit"
)

// CheckDimensions compares the rendered content box against the target
// page size. Both the body box and the detected container box are
// candidates; the one numerically closer to the target wins, which
// tolerates outer padding around a framed slide area.
func CheckDimensions(res *slidekit.RenderResult, page slidekit.PageSize, cal Calibration) []string {
	boxes := []slidekit.Box{res.BodyBox}
	if res.ContainerBox != nil {
		boxes = append(boxes, *res.ContainerBox)
	}

	best := boxes[0]
	bestDist := math.Inf(1)
	for _, b := range boxes {
		d := math.Abs(Inches(b.W)-page.Width) + math.Abs(Inches(b.H)-page.Height)
		if d < bestDist {
			best, bestDist = b, d
		}
	}

	w, h := Inches(best.W), Inches(best.H)
	var findings []string
	if math.Abs(w-page.Width) > cal.SizeToleranceIn || math.Abs(h-page.Height) > cal.SizeToleranceIn {
		findings = append(findings, fmt.Sprintf(
			"rendered layout is %.1fx%.1fin but the target page is %.4gx%.4gin; adjust the document dimensions",
			w, h, page.Width, page.Height))
	}
	return findings
}

// CheckOverflow reports content scrolling past the effective box. Only
// vertical overflow counts: body padding makes horizontal scroll width a
// chronic false positive.
func CheckOverflow(res *slidekit.RenderResult, cal Calibration) []string {
	overflowPx := res.ScrollHeight - res.ContentBox.H
	overflowPt := cal.CellPoints(overflowPx)
	if overflowPt <= cal.OverflowTolerancePt {
		return nil
	}
	return []string{fmt.Sprintf(
		"content overflows the slide bottom by %.0fpt beyond the %.0fpt tolerance",
		overflowPt-cal.OverflowTolerancePt, cal.OverflowTolerancePt)}
}

// CheckBottomMargin flags prominent text crowding the page bottom. Small
// print is exempt; anything larger than the font threshold must keep the
// margin clear.
func CheckBottomMargin(doc *slidekit.SlideDocument, page slidekit.PageSize, cal Calibration) []string {
	var findings []string
	for _, el := range doc.Elements {
		var fontPt float64
		var text string
		switch b := el.(type) {
		case slidekit.TextBlock:
			fontPt, text = b.Style.FontSizePt, blockText(b.Text, b.Runs)
		case slidekit.ListBlock:
			fontPt, text = b.Style.FontSizePt, blockText("", b.Items)
		default:
			continue
		}
		if fontPt <= cal.BottomMarginMinFontPt {
			continue
		}
		pos := el.Bounds()
		if page.Height-(pos.Y+pos.H) >= cal.BottomMarginIn {
			continue
		}
		findings = append(findings, fmt.Sprintf(
			"text %q (%.0fpt) ends within %.2gin of the page bottom",
			prefix(strings.TrimSpace(text), 50), fontPt, cal.BottomMarginIn))
	}
	return findings
}

func blockText(text string, runs []slidekit.Run) string {
	if text != "" {
		return text
	}
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}
