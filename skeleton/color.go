package skeleton

import (
	"fmt"
	"strconv"
)

// Color is a straight (non-premultiplied) RGBA tint with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// White is the identity tint.
var White = Color{1, 1, 1, 1}

// Mul returns the component-wise product of c and o.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

func (c Color) clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ParseHexColor parses "rrggbb" or "rrggbbaa" as written in skeleton JSON.
// Alpha defaults to 1 when omitted.
func ParseHexColor(s string) (Color, error) {
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("skeleton: bad color %q", s)
	}
	var ch [4]float64
	ch[3] = 1
	for i := 0; i < len(s)/2; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("skeleton: bad color %q: %w", s, err)
		}
		ch[i] = float64(v) / 255
	}
	return Color{ch[0], ch[1], ch[2], ch[3]}, nil
}
