// Package u8g serializes bitmap fonts as flat byte arrays, following
// the u8glib font format 0, meant to be embedded as constant tables
// by firmwares.
//
// The array starts with a 17 bytes header:
//
//	0     format (0)
//	1, 2  cell width and height
//	3, 4  x and y offsets of the font bounding box
//	5     ascent
//	6, 7  offset of the glyph 'A' (big endian), 0 if absent
//	8, 9  offset of the glyph 'a' (big endian), 0 if absent
//	10    first encoded character
//	11    last encoded character
//	12    descent (negated)
//	13-16 ascent, descent, ascent, descent (descents negated)
//
// followed, for each glyph, by a 6 bytes header (width, height,
// bytes of bitmap data, device width, x offset, y offset) and the bitmap,
// row by row, most significant byte first. Signed values are stored
// in two's complement.
package u8g

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
)

const (
	HeaderSize      = 17
	GlyphHeaderSize = 6

	format = 0

	// glyphs whose offsets are stored in the header
	upperA = 'A'
	lowerA = 'a'

	offsetUpperA = 6
	offsetLowerA = 8
)

// ErrOverflow is returned when a value does not fit in its field.
var ErrOverflow = errors.New("value out of range")

type encoder struct {
	out []byte
	err error
}

func (e *encoder) u8(field string, v int) byte {
	if (v < 0 || v > 0xFF) && e.err == nil {
		e.err = fmt.Errorf("%w: %s = %d (expected 0..255)", ErrOverflow, field, v)
	}
	return byte(v)
}

func (e *encoder) i8(field string, v int) byte {
	if (v < -128 || v > 127) && e.err == nil {
		e.err = fmt.Errorf("%w: %s = %d (expected -128..127)", ErrOverflow, field, v)
	}
	return byte(int8(v))
}

// offset stores the current length at `pos` in the header
func (e *encoder) offset(pos int) {
	n := len(e.out)
	if n > 0xFFFF && e.err == nil {
		e.err = fmt.Errorf("%w: glyph offset %d", ErrOverflow, n)
	}
	e.out[pos] = byte(n >> 8)
	e.out[pos+1] = byte(n)
}

// Encode returns the byte array representation of the font.
// The bounding box and metrics of the font are expected to be
// up to date (see `bitmap.Font.ComputeBounds`).
func Encode(f *bitmap.Font) ([]byte, error) {
	end := f.End()
	if len(f.Glyphs) == 0 {
		end = f.Start
	}
	e := encoder{out: make([]byte, HeaderSize, HeaderSize+len(f.Glyphs)*(GlyphHeaderSize+f.Height))}
	ascent, descent := e.u8("ascent", f.Ascent), e.i8("descent", -f.Descent)
	copy(e.out, []byte{
		format,
		e.u8("width", f.Width),
		e.u8("height", f.Height),
		e.i8("bbox x offset", f.BBox.MinX),
		e.i8("bbox y offset", f.BBox.MinY),
		ascent,
		0, 0, // 'A'
		0, 0, // 'a'
		e.u8("start", f.Start),
		e.u8("end", end),
		descent,
		ascent, descent, ascent, descent,
	})

	for _, g := range f.Glyphs {
		switch g.Index {
		case upperA:
			e.offset(offsetUpperA)
		case lowerA:
			e.offset(offsetLowerA)
		}
		e.out = append(e.out,
			e.u8("glyph width", g.Width),
			e.u8("glyph height", g.Height),
			e.u8("glyph data length", g.Size*g.Height),
			e.u8("glyph device width", g.DWidth),
			e.i8("glyph x offset", g.MinX),
			e.i8("glyph y offset", g.MinY),
		)
		for i := range g.Rows {
			e.out = append(e.out, g.RowBytes(i)...)
		}
		if e.err != nil {
			return nil, fmt.Errorf("glyph %d: %w", g.Index, e.err)
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.out, nil
}
