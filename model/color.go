package model

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB display color. The zero value is black, which the
// scenario loader treats as "unset" when assigning palette defaults.
type Color struct {
	R, G, B uint8
}

// ParseColor parses "#rrggbb" (or the short "#rgb" form).
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// goldenAngleDeg spaces palette hues so that neighbouring entries stay
// visually distinct for any palette size.
const goldenAngleDeg = 137.50776405003785

// Palette returns n distinct colors. The sequence is deterministic:
// the same n always produces the same colors, so scenario defaults are
// stable across runs.
func Palette(n int) []Color {
	if n <= 0 {
		return nil
	}
	out := make([]Color, 0, n)
	hue := 0.0
	for i := 0; i < n; i++ {
		r, g, b := colorful.Hsv(hue, 0.62, 0.92).RGB255()
		out = append(out, Color{R: r, G: g, B: b})
		hue = math.Mod(hue+goldenAngleDeg, 360)
	}
	return out
}
