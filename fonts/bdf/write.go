// Package bdf writes and reads bitmap fonts in the
// Glyph Bitmap Distribution Format, version 2.1.
//
// See https://www.adobe.com/content/dam/acom/en/devnet/font/pdfs/5005.BDF_Spec.pdf
package bdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
)

const (
	version     = "2.1"
	defaultName = "Untitled"

	// properties storing the nominal cell
	propPixelSize = "PIXEL_SIZE"
	propQuadWidth = "QUAD_WIDTH"
)

// Write serializes the font. The bounding box and metrics
// of the font are expected to be up to date (see `bitmap.Font.ComputeBounds`).
func Write(w io.Writer, f *bitmap.Font) error {
	out := bufio.NewWriter(w)

	name := f.Name
	if name == "" {
		name = defaultName
	}
	fmt.Fprintf(out, "STARTFONT %s\n", version)
	fmt.Fprintf(out, "FONT %s\n", name)
	fmt.Fprintf(out, "SIZE %d %d %d\n", f.Size.Points.Round(), f.Size.XRes, f.Size.YRes)
	fmt.Fprintf(out, "FONTBOUNDINGBOX %d %d %d %d\n", f.BBox.Width, f.BBox.Height, f.BBox.MinX, f.BBox.MinY)

	props := append(f.AllProperties(),
		bitmap.Prop{Name: propPixelSize, Value: bitmap.Int(f.Height)},
		bitmap.Prop{Name: propQuadWidth, Value: bitmap.Int(f.Width)},
	)
	fmt.Fprintf(out, "STARTPROPERTIES %d\n", len(props))
	for _, prop := range props {
		fmt.Fprintf(out, "%s %s\n", prop.Name, formatProperty(prop.Value))
	}
	fmt.Fprintln(out, "ENDPROPERTIES")

	fmt.Fprintf(out, "CHARS %d\n", len(f.Glyphs))
	for _, g := range f.Glyphs {
		writeGlyph(out, g, f.Size)
	}
	fmt.Fprintln(out, "ENDFONT")
	return out.Flush()
}

func formatProperty(p bitmap.Property) string {
	switch p := p.(type) {
	case bitmap.Atom:
		return strconv.Quote(string(p))
	case bitmap.Int:
		return strconv.Itoa(int(p))
	case bitmap.Cardinal:
		return strconv.FormatUint(uint64(p), 10)
	default:
		return `""`
	}
}

// glyphName returns the name of the glyph, or its
// zero padded code if it has none.
func glyphName(g *bitmap.Glyph) string {
	if name := strings.TrimSpace(g.Name); name != "" {
		return strings.ReplaceAll(name, " ", "_")
	}
	return fmt.Sprintf("%03d", g.Index)
}

func writeGlyph(out *bufio.Writer, g *bitmap.Glyph, size bitmap.Size) {
	if g.Comment != "" {
		fmt.Fprintf(out, "COMMENT %s\n", g.Comment)
	}
	fmt.Fprintf(out, "STARTCHAR %s\n", glyphName(g))
	fmt.Fprintf(out, "ENCODING %d\n", g.Index)
	fmt.Fprintf(out, "SWIDTH %d 0\n", size.ScalableWidth(g.DWidth))
	fmt.Fprintf(out, "DWIDTH %d 0\n", g.DWidth)
	if g.IsEmpty() {
		fmt.Fprintln(out, "BBX 0 0 0 0")
	} else {
		fmt.Fprintf(out, "BBX %d %d %d %d\n", g.Width, g.Height, g.MinX, g.MinY)
	}
	fmt.Fprintln(out, "BITMAP")
	for _, row := range g.Rows {
		fmt.Fprintf(out, "%0*x\n", 2*g.Size, uint64(row))
	}
	fmt.Fprintln(out, "ENDCHAR")
}
