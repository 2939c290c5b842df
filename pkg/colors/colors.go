// Package colors holds the small sRGB helpers used by the carousel's
// ambient background derivation.
package colors

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is an 8-bit-per-channel color.
type RGB struct {
	R int
	G int
	B int
}

// ParseHex parses "#abc" or "#aabbcc" (leading hash optional). The second
// return value reports whether the input was a well-formed hex color.
func ParseHex(hex string) (RGB, bool) {
	normalized := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	switch len(normalized) {
	case 3:
		r, okR := parseHexByte(string(normalized[0]) + string(normalized[0]))
		g, okG := parseHexByte(string(normalized[1]) + string(normalized[1]))
		b, okB := parseHexByte(string(normalized[2]) + string(normalized[2]))
		if !okR || !okG || !okB {
			return RGB{}, false
		}
		return RGB{R: r, G: g, B: b}, true
	case 6:
		r, okR := parseHexByte(normalized[0:2])
		g, okG := parseHexByte(normalized[2:4])
		b, okB := parseHexByte(normalized[4:6])
		if !okR || !okG || !okB {
			return RGB{}, false
		}
		return RGB{R: r, G: g, B: b}, true
	default:
		return RGB{}, false
	}
}

func parseHexByte(s string) (int, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// Mix blends a toward b by t (clamped to [0,1]).
func Mix(a, b RGB, t float64) RGB {
	clamped := clamp(t, 0, 1)
	return RGB{
		R: roundChannel(float64(a.R) + (float64(b.R)-float64(a.R))*clamped),
		G: roundChannel(float64(a.G) + (float64(b.G)-float64(a.G))*clamped),
		B: roundChannel(float64(a.B) + (float64(b.B)-float64(a.B))*clamped),
	}
}

// Shade multiplies every channel by factor, clamping to the valid range.
func Shade(c RGB, factor float64) RGB {
	return RGB{
		R: roundChannel(clamp(float64(c.R)*factor, 0, 255)),
		G: roundChannel(clamp(float64(c.G)*factor, 0, 255)),
		B: roundChannel(clamp(float64(c.B)*factor, 0, 255)),
	}
}

// Lighten mixes the color toward white by amount.
func Lighten(c RGB, amount float64) RGB {
	return Mix(c, RGB{R: 255, G: 255, B: 255}, amount)
}

// CSS renders the color in modern space-separated rgb() syntax.
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d %d %d)", c.R, c.G, c.B)
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func roundChannel(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return int(v - 0.5)
}
