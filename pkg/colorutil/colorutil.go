// Package colorutil provides shared color utilities for the wall gallery application.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// Default wall and border colors.
	WallDefault  = color.RGBA{R: 0xF5, G: 0xF0, B: 0xE8, A: 255} // warm off-white
	FrameDefault = color.RGBA{R: 0x3A, G: 0x2E, B: 0x1F, A: 255} // dark walnut
	MatteDefault = White
)

// ParseHex parses a "#rrggbb" or "#rgb" hex color string.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	var digits int
	switch len(s) {
	case 6:
		digits = 2
	case 3:
		digits = 1
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}

	var channels [3]uint8
	for i := range channels {
		v, err := strconv.ParseUint(s[i*digits:(i+1)*digits], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
		}
		if digits == 1 {
			v *= 17
		}
		channels[i] = uint8(v)
	}
	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: 255}, nil
}

// ToHex formats a color as "#rrggbb", discarding alpha.
func ToHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ParseHexOr parses a hex color, falling back to the given color on error.
func ParseHexOr(s string, fallback color.RGBA) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}
