package u8g

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
)

var errCorrupted = errors.New("corrupted font data")

type parser struct {
	data []byte
	pos  int
}

func (p *parser) u8() (int, error) {
	if len(p.data) < p.pos+1 {
		return 0, errCorrupted
	}
	out := p.data[p.pos]
	p.pos++
	return int(out), nil
}

func (p *parser) i8() (int, error) {
	v, err := p.u8()
	return int(int8(v)), err
}

func (p *parser) u16() (int, error) {
	if len(p.data) < p.pos+2 {
		return 0, errCorrupted
	}
	out := int(p.data[p.pos])<<8 | int(p.data[p.pos+1])
	p.pos += 2
	return out, nil
}

// bytes reads n bytes
func (p *parser) bytes(n int) ([]byte, error) {
	if len(p.data) < p.pos+n {
		return nil, errCorrupted
	}
	out := p.data[p.pos : p.pos+n]
	p.pos += n
	return out, nil
}

// read fills `fields`, in order, stopping at the first error
func (p *parser) read(fields ...*int) error {
	for _, f := range fields {
		v, err := p.u8()
		if err != nil {
			return err
		}
		*f = v
	}
	return nil
}

func (p *parser) glyph(width, height int) (*bitmap.Glyph, error) {
	var dataLen, dwidth int
	g := &bitmap.Glyph{NominalWidth: width, NominalHeight: height}
	if err := p.read(&g.Width, &g.Height, &dataLen, &dwidth); err != nil {
		return nil, err
	}
	g.DWidth = dwidth
	var err error
	if g.MinX, err = p.i8(); err != nil {
		return nil, err
	}
	if g.MinY, err = p.i8(); err != nil {
		return nil, err
	}
	data, err := p.bytes(dataLen)
	if err != nil {
		return nil, err
	}
	if g.Height == 0 || g.Width == 0 {
		g.BBox = bitmap.BBox{}
		return g, nil
	}
	g.Size = dataLen / g.Height
	if g.Size*g.Height != dataLen || g.Size*8 < g.Width || g.Size > bitmap.MaxWidth/8 {
		return nil, fmt.Errorf("invalid glyph data length %d for a %dx%d glyph", dataLen, g.Width, g.Height)
	}
	g.Pad = g.Size*8 - g.Width
	g.Rows = make([]bitmap.Row, g.Height)
	for i := range g.Rows {
		for _, b := range data[i*g.Size : (i+1)*g.Size] {
			g.Rows[i] = g.Rows[i]<<8 | bitmap.Row(b)
		}
	}
	return g, nil
}

// Decode parses a font encoded with `Encode`.
// The glyph offsets stored in the header are checked.
func Decode(data []byte) (*bitmap.Font, error) {
	p := parser{data: data}
	var (
		format, width, height, ascent int
		start, end                    int
	)
	if err := p.read(&format, &width, &height); err != nil {
		return nil, err
	}
	if format != 0 {
		return nil, fmt.Errorf("unsupported font format %d", format)
	}
	// bounding box is recomputed from the glyphs
	p.pos += 2
	if err := p.read(&ascent); err != nil {
		return nil, err
	}
	offUpper, err := p.u16()
	if err != nil {
		return nil, err
	}
	offLower, err := p.u16()
	if err != nil {
		return nil, err
	}
	if err := p.read(&start, &end); err != nil {
		return nil, err
	}
	if len(data) < HeaderSize {
		return nil, errCorrupted
	}
	p.pos = HeaderSize

	f := bitmap.NewFont("", start, width, height, nil)
	for code := start; p.pos < len(data); code++ {
		if code > end {
			return nil, fmt.Errorf("%w: data after the last glyph", errCorrupted)
		}
		switch {
		case code == upperA && p.pos != offUpper, code == lowerA && p.pos != offLower:
			return nil, fmt.Errorf("%w: invalid offset for glyph %d", errCorrupted, code)
		}
		g, err := p.glyph(width, height)
		if err != nil {
			return nil, fmt.Errorf("glyph %d: %w", code, err)
		}
		if err := f.AddGlyph(g); err != nil {
			return nil, err
		}
	}
	f.ComputeBounds()
	return f, nil
}
