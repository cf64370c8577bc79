package bitmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRows is returned when packing a layer without any row.
	ErrNoRows = errors.New("glyph layer has no rows")
	// ErrTooWide is returned for glyphs wider than MaxWidth pixels.
	ErrTooWide = errors.New("glyph too wide")
	// ErrTooTall is returned when a layer has more rows than the glyph height.
	ErrTooTall = errors.New("glyph layer taller than the glyph")
	// ErrRepackDiverged signals that shrinking the byte width
	// of a glyph did not converge after one retry.
	ErrRepackDiverged = errors.New("glyph re-pack did not converge")
)

// maxPasses bounds the packing loop: the first pass
// and at most one shrinking retry.
const maxPasses = 2

// BBox is a bounding box in a glyph cell, whose origin
// is the bottom-left corner, with y increasing upward.
type BBox struct {
	Width, Height int
	MinX, MinY    int
}

func (b BBox) MaxX() int { return b.MinX + b.Width - 1 }

func (b BBox) MaxY() int { return b.MinY + b.Height - 1 }

// Empty returns true if the box has no area.
func (b BBox) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// union returns the smallest box containing b and o.
func (b BBox) union(o BBox) BBox {
	minX, minY := min(b.MinX, o.MinX), min(b.MinY, o.MinY)
	maxX, maxY := max(b.MaxX(), o.MaxX()), max(b.MaxY(), o.MaxY())
	return BBox{Width: maxX - minX + 1, Height: maxY - minY + 1, MinX: minX, MinY: minY}
}

// Glyph is a trimmed, byte aligned monochrome bitmap.
type Glyph struct {
	// Index is the character code, assigned when
	// the glyph is added to a Font.
	Index int
	// Name is optional
	Name string
	// Comment is optional, and only used in .bdf output.
	Comment string

	// NominalWidth and NominalHeight give the cell
	// the glyph has been drawn in.
	NominalWidth, NominalHeight int

	// Size is the number of bytes per row.
	Size int
	// Pad is the shift (to the left, or to the right when negative)
	// applied to the source rows by the last packing pass.
	Pad int

	// BBox is the ink bounding box, relative to the nominal cell.
	BBox

	// Rows contains Height rows, from top to bottom. Each row has Size*8
	// significant bits, the first pixel of the box being the most significant.
	Rows []Row

	// DWidth is the device width (advance), in pixels.
	DWidth int
}

// IsEmpty returns true for glyphs without any pixel set.
func (g *Glyph) IsEmpty() bool { return len(g.Rows) == 0 }

// RowBytes returns the row `i`, as Size bytes, most significant first.
func (g *Glyph) RowBytes(i int) []byte {
	out := make([]byte, g.Size)
	r := g.Rows[i]
	for b := range out {
		out[b] = byte(r >> uint(8*(g.Size-1-b)))
	}
	return out
}

// Unpack reverses the packing, returning NominalHeight rows
// of NominalWidth bits, using the same convention as the
// input of `Pack`.
func (g *Glyph) Unpack() []Row {
	out := make([]Row, g.NominalHeight)
	mask := lowMask(g.NominalWidth)
	n := g.NominalWidth - g.MinX - g.Size*8
	for j, r := range g.Rows {
		y := g.MaxY() - j
		i := g.NominalHeight - 1 - y
		if i < 0 || i >= len(out) {
			continue
		}
		out[i] = shift(r, n) & mask
	}
	return out
}

// packing stores the accumulators of one pass
type packing struct {
	rows       []Row
	minx, maxx int
	miny, maxy int
	signal     bool
}

func byteSize(width int) int { return (width + 7) / 8 }

// packRows processes `masks` from top to bottom, shifting each
// row by `pad` and keeping `size`*8 bits.
func packRows(masks []Row, width, height, size, pad int) packing {
	var (
		p      packing
		bitLen = size * 8
		inMask = lowMask(width)
		last   int
	)
	for i, m := range masks {
		r := shift(m&inMask, pad) & lowMask(bitLen)
		if r == 0 {
			// leading empty rows are skipped
			if p.signal {
				p.rows = append(p.rows, 0)
			}
			continue
		}
		left, right, _ := BitBounds(r, bitLen)
		y := height - 1 - i // distance from the bottom
		if !p.signal {
			p.signal = true
			p.maxy = y
			p.minx, p.maxx = left, right
		}
		p.minx = min(p.minx, left)
		p.maxx = max(p.maxx, right)
		p.miny = y
		p.rows = append(p.rows, r)
		last = len(p.rows)
	}
	// trailing empty rows
	p.rows = p.rows[:last]
	return p
}

// Pack builds a glyph from one layer. `masks` has one row per source line,
// from top to bottom, each with `width` significant bits (see `Row`).
// The layer is aligned with the top of the width x height nominal cell.
//
// The rows are first aligned on ceil(width/8) bytes. When the ink turns out
// to fit in fewer bytes, the layer is packed a second time with a pad computed
// from the left edge found by the first pass.
// A layer without any pixel set gives an empty glyph (no rows, zero size).
func Pack(width, height int, masks []Row, name string) (*Glyph, error) {
	if len(masks) == 0 {
		return nil, ErrNoRows
	}
	if width <= 0 || width > MaxWidth {
		return nil, fmt.Errorf("%w: %d pixels (max %d)", ErrTooWide, width, MaxWidth)
	}
	if len(masks) > height {
		return nil, fmt.Errorf("%w: %d rows for a height of %d", ErrTooTall, len(masks), height)
	}

	size := byteSize(width)
	pad := size*8 - width
	origin := 0 // column of the cell at offset 0 of the packed rows

	var p packing
	for pass := 0; ; pass++ {
		if pass == maxPasses {
			return nil, fmt.Errorf("%w (width %d, size %d)", ErrRepackDiverged, width, size)
		}
		p = packRows(masks, width, height, size, pad)
		if !p.signal {
			break
		}
		newSize := byteSize(p.maxx - p.minx + 1)
		if newSize >= size {
			break
		}
		// shrink and keep the discovered left edge at offset 0
		origin += p.minx
		size = newSize
		pad = size*8 - width + origin
	}

	g := &Glyph{
		Name:          name,
		NominalWidth:  width,
		NominalHeight: height,
		DWidth:        width,
	}
	if !p.signal {
		return g, nil
	}

	// move the left edge of the box to the first bit
	bitMask := lowMask(size * 8)
	for i, r := range p.rows {
		p.rows[i] = (r << uint(p.minx)) & bitMask
	}

	g.Size = size
	g.Pad = pad
	g.BBox = BBox{
		Width:  p.maxx - p.minx + 1,
		Height: p.maxy - p.miny + 1,
		MinX:   origin + p.minx,
		MinY:   p.miny,
	}
	g.Rows = p.rows
	return g, nil
}
