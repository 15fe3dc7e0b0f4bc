package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/slidekit/slidekit"
)

var (
	rotateRe = regexp.MustCompile(`rotate\(\s*(-?[\d.]+)deg\s*\)`)
	matrixRe = regexp.MustCompile(`matrix\(\s*(-?[\d.e+-]+)\s*,\s*(-?[\d.e+-]+)`)
)

// Rotation derives the clockwise rotation angle in degrees from a node's
// writing-mode and transform. Vertical writing modes contribute their
// base angle before any explicit transform, matching the deck format's
// clockwise convention for vertical text. The result is normalized into
// [0, 360); 0 means "no rotation".
func Rotation(style map[string]string) float64 {
	var deg float64

	switch strings.TrimSpace(style["writing-mode"]) {
	case "vertical-rl", "tb-rl":
		deg = 90
	case "vertical-lr", "tb-lr":
		deg = 270
	}

	transform := strings.TrimSpace(style["transform"])
	switch {
	case transform == "" || transform == "none":
	case strings.Contains(transform, "rotate("):
		if m := rotateRe.FindStringSubmatch(transform); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				deg += v
			}
		}
	case strings.Contains(transform, "matrix("):
		// Computed transforms arrive as matrix(a, b, c, d, tx, ty); the
		// rotation angle is atan2(b, a).
		if m := matrixRe.FindStringSubmatch(transform); m != nil {
			a, errA := strconv.ParseFloat(m[1], 64)
			b, errB := strconv.ParseFloat(m[2], 64)
			if errA == nil && errB == nil {
				deg += math.Atan2(b, a) * 180 / math.Pi
			}
		}
	}

	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// Rounding keeps matrix-derived angles stable for the exact-quarter
	// swap below.
	return math.Round(deg*100) / 100
}

// OrientBox re-derives the pre-rotation bounding box. The renderer
// reports the post-rotation box, but the deck format rotates around the
// pre-rotation box, so for quarter turns the width and height swap around
// the same center point.
func OrientBox(box slidekit.Box, deg float64) slidekit.Box {
	if deg != 90 && deg != 270 {
		return box
	}
	cx, cy := box.X+box.W/2, box.Y+box.H/2
	return slidekit.Box{
		X: cx - box.H/2,
		Y: cy - box.W/2,
		W: box.H,
		H: box.W,
	}
}
