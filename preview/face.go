// Package preview renders text with packed bitmap fonts,
// through the golang.org/x/image/font interface.
package preview

import (
	"image"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/benoitkugler/bitmapfont/fonts/simpleencodings"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var _ font.Face = (*Face)(nil)

// Face implements font.Face for a bitmap.Font.
// It is not safe for concurrent use.
type Face struct {
	font  *bitmap.Font
	runes map[rune]byte // nil means identity
	named map[rune]*bitmap.Glyph
	masks map[int]*image.Alpha
}

// NewFace maps runes to glyphs using `enc`: glyphs named after a
// character of `enc` are found by name, the others by character code.
// If `enc` is nil, the rune value is used as character code.
func NewFace(f *bitmap.Font, enc *simpleencodings.Encoding) *Face {
	out := &Face{font: f, masks: make(map[int]*image.Alpha)}
	if enc != nil {
		out.runes = enc.RuneToByte()
		out.named = make(map[rune]*bitmap.Glyph)
		names := enc.NameToRune()
		for _, g := range f.Glyphs {
			if r, ok := names[g.Name]; ok && g.Name != "" {
				out.named[r] = g
			}
		}
	}
	return out
}

func (fa *Face) lookup(r rune) (*bitmap.Glyph, bool) {
	if g, ok := fa.named[r]; ok {
		return g, true
	}
	code := int(r)
	if fa.runes != nil {
		b, ok := fa.runes[r]
		if !ok {
			return nil, false
		}
		code = int(b)
	}
	g := fa.font.Glyph(code)
	return g, g != nil
}

// mask returns the glyph bitmap, with its ink box as bounds
func (fa *Face) mask(g *bitmap.Glyph) *image.Alpha {
	if m, ok := fa.masks[g.Index]; ok {
		return m
	}
	m := image.NewAlpha(image.Rect(0, 0, max(g.Width, 0), max(g.Height, 0)))
	for y, row := range g.Rows {
		for x := 0; x < g.Width; x++ {
			if row&(1<<uint(g.Size*8-1-x)) != 0 {
				m.Pix[y*m.Stride+x] = 0xFF
			}
		}
	}
	fa.masks[g.Index] = m
	return m
}

func (fa *Face) Close() error { return nil }

func (fa *Face) Glyph(dot fixed.Point26_6, r rune) (
	dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {
	g, ok := fa.lookup(r)
	if !ok {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	m := fa.mask(g)
	x0 := dot.X.Round() + g.MinX
	y0 := dot.Y.Round() - (g.MinY + g.Height)
	dr = image.Rect(x0, y0, x0+m.Rect.Dx(), y0+m.Rect.Dy())
	return dr, m, image.Point{}, fixed.I(g.DWidth), true
}

func (fa *Face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	g, ok := fa.lookup(r)
	if !ok {
		return bounds, 0, false
	}
	if !g.IsEmpty() {
		bounds = fixed.R(g.MinX, -(g.MinY + g.Height), g.MinX+g.Width, -g.MinY)
	}
	return bounds, fixed.I(g.DWidth), true
}

func (fa *Face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	g, ok := fa.lookup(r)
	if !ok {
		return 0, false
	}
	return fixed.I(g.DWidth), true
}

// Kern always returns 0: bitmap fonts have no kerning.
func (fa *Face) Kern(r0, r1 rune) fixed.Int26_6 { return 0 }

// inkTop returns the top of the ink of `r`, or 0
func (fa *Face) inkTop(r rune) int {
	if g, ok := fa.lookup(r); ok && !g.IsEmpty() {
		return g.MaxY() + 1
	}
	return 0
}

func (fa *Face) Metrics() font.Metrics {
	f := fa.font
	return font.Metrics{
		Height:     fixed.I(max(f.Height, f.Ascent+f.Descent)),
		Ascent:     fixed.I(f.Ascent),
		Descent:    fixed.I(f.Descent),
		XHeight:    fixed.I(fa.inkTop('x')),
		CapHeight:  fixed.I(fa.inkTop('H')),
		CaretSlope: image.Point{X: 0, Y: 1},
	}
}
