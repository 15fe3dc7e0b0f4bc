package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Color is a normalized 24-bit color plus the deck model's 0-100
// transparency convention ((1-alpha)*100).
type Color struct {
	Hex          string // "#RRGGBB"
	Transparency int
}

// namedColors covers the keywords that survive into snapshots built from
// static HTML. Browser-computed styles resolve keywords to rgb() before
// capture, so live snapshots never rely on this table; the browser is the
// authoritative resolver for exotic color spaces.
var namedColors = map[string]string{
	"black":   "#000000",
	"silver":  "#C0C0C0",
	"gray":    "#808080",
	"grey":    "#808080",
	"white":   "#FFFFFF",
	"maroon":  "#800000",
	"red":     "#FF0000",
	"purple":  "#800080",
	"fuchsia": "#FF00FF",
	"green":   "#008000",
	"lime":    "#00FF00",
	"olive":   "#808000",
	"yellow":  "#FFFF00",
	"navy":    "#000080",
	"blue":    "#0000FF",
	"teal":    "#008080",
	"aqua":    "#00FFFF",
	"orange":  "#FFA500",
}

// ParseColor normalizes a computed CSS color to hex plus transparency.
// ok is false for an absent, invalid or fully transparent color.
func ParseColor(v string) (c Color, ok bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "none", "transparent", "rgba(0, 0, 0, 0)":
		return Color{}, false
	}

	if hex, found := namedColors[v]; found {
		return Color{Hex: hex}, true
	}

	if strings.HasPrefix(v, "#") {
		return parseHex(v)
	}

	if strings.HasPrefix(v, "rgb") {
		return parseRGB(v)
	}

	return Color{}, false
}

func parseHex(v string) (Color, bool) {
	digits := v[1:]
	switch len(digits) {
	case 3:
		var sb strings.Builder
		for _, d := range digits {
			sb.WriteRune(d)
			sb.WriteRune(d)
		}
		digits = sb.String()
	case 6:
	case 8:
		alpha, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return Color{}, false
		}
		c, ok := parseHex("#" + digits[:6])
		if !ok || alpha == 0 {
			return Color{}, false
		}
		c.Transparency = alphaToTransparency(float64(alpha) / 255)
		return c, true
	default:
		return Color{}, false
	}
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return Color{}, false
	}
	return Color{Hex: "#" + strings.ToUpper(digits)}, true
}

// parseRGB handles both the legacy comma syntax rgb(r, g, b) /
// rgba(r, g, b, a) and the modern space syntax rgb(r g b / a).
func parseRGB(v string) (Color, bool) {
	open := strings.IndexByte(v, '(')
	end := strings.LastIndexByte(v, ')')
	if open < 0 || end <= open {
		return Color{}, false
	}
	inner := v[open+1 : end]
	inner = strings.ReplaceAll(inner, "/", " ")
	inner = strings.ReplaceAll(inner, ",", " ")
	parts := strings.Fields(inner)
	if len(parts) < 3 {
		return Color{}, false
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(parts[i], 64)
		if err != nil || f < 0 || f > 255 {
			return Color{}, false
		}
		rgb[i] = uint8(math.Round(f))
	}

	alpha := 1.0
	if len(parts) >= 4 {
		f, err := strconv.ParseFloat(strings.TrimSuffix(parts[3], "%"), 64)
		if err != nil {
			return Color{}, false
		}
		if strings.HasSuffix(parts[3], "%") {
			f /= 100
		}
		alpha = f
	}
	if alpha <= 0 {
		return Color{}, false
	}

	c := Color{
		Hex:          fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]),
		Transparency: alphaToTransparency(alpha),
	}
	return c, true
}

func alphaToTransparency(alpha float64) int {
	return int(math.Round((1 - alpha) * 100))
}
