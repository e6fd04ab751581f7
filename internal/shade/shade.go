// Package shade derives visually distinct colour variations from a single
// base colour. All functions are pure and deterministic.
package shade

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Lightness window the generated shades stay within.
const (
	minLightness = 0.20
	maxLightness = 0.85
)

// halfWindow is how far lightness may drift either side of the base.
const halfWindow = 0.25

// FallbackColor is used when a base colour cannot be parsed.
const FallbackColor = "#4a90d9"

// Shades returns n hex colours varying linearly in lightness around the
// base, hue and saturation held fixed. Lightness is non-decreasing across
// the output so callers can map topic ordinal to shade ordinal predictably.
// n <= 1 returns the base colour unchanged.
func Shades(baseHex string, n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{baseHex}
	}
	base, err := colorful.Hex(normalizeHex(baseHex))
	if err != nil {
		base, _ = colorful.Hex(FallbackColor)
	}
	h, s, l := base.Hsl()

	lo := clamp(l-halfWindow, minLightness, maxLightness)
	hi := clamp(l+halfWindow, minLightness, maxLightness)
	step := (hi - lo) / float64(n-1)

	out := make([]string, n)
	for i := range out {
		out[i] = colorful.Hsl(h, s, lo+float64(i)*step).Clamped().Hex()
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeHex expands the #rgb shorthand and guarantees a leading '#'.
func normalizeHex(hex string) string {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return FallbackColor
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) == 4 {
		r, g, b := hex[1], hex[2], hex[3]
		hex = string([]byte{'#', r, r, g, g, b, b})
	}
	return hex
}
