// Package raster splits decoded images into monochrome layers,
// one per opaque color, ready to be packed into glyphs.
package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque RGB color, identifying a layer.
type Color struct {
	R, G, B uint8
}

// Key returns the "#rrggbb" form of the color.
func (c Color) Key() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Key() }

// RGBA implements color.Color, as an opaque color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// ParseColor accepts "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#"), "0x")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: expected 6 hexadecimal digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %s", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
