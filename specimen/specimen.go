// Package specimen draws every glyph of a bitmap font in a labelled
// grid, as a PDF document.
package specimen

import (
	"fmt"
	"io"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/phpdave11/gofpdf"
)

// A4 portrait, in mm
const (
	pageWidth, pageHeight = 210., 297.
	margin                = 10.
	titleHeight           = 14.
	labelHeight           = 6.

	columns = 16
	// largest pixel drawn, for tiny fonts
	maxPixel = 1.5
)

type layout struct {
	bbox      bitmap.BBox
	pixel     float64
	cellWidth float64
	rowHeight float64
}

func newLayout(f *bitmap.Font) layout {
	l := layout{bbox: f.BBox, cellWidth: (pageWidth - 2*margin) / columns}
	l.pixel = maxPixel
	if w := l.bbox.Width + 2; float64(w)*l.pixel > l.cellWidth {
		l.pixel = l.cellWidth / float64(w)
	}
	l.rowHeight = float64(l.bbox.Height+2)*l.pixel + labelHeight
	return l
}

// drawGlyph fills the glyph pixels, merging horizontal runs,
// in the cell whose top-left corner is (x, y)
func (l layout) drawGlyph(pdf *gofpdf.Fpdf, g *bitmap.Glyph, x, y float64) {
	for j, row := range g.Rows {
		top := y + float64(l.bbox.MaxY()-(g.MaxY()-j))*l.pixel
		run := -1
		for i := 0; i <= g.Width; i++ {
			on := i < g.Width && row&(1<<uint(g.Size*8-1-i)) != 0
			switch {
			case on && run < 0:
				run = i
			case !on && run >= 0:
				left := x + float64(g.MinX+run-l.bbox.MinX)*l.pixel
				pdf.Rect(left, top, float64(i-run)*l.pixel, l.pixel, "F")
				run = -1
			}
		}
	}
}

func title(f *bitmap.Font) string {
	name := f.Name
	if name == "" {
		name = "Untitled"
	}
	return fmt.Sprintf("%s - %dx%d, %d glyphs (%d-%d)", name, f.Width, f.Height, len(f.Glyphs), f.Start, f.End())
}

// Write renders the font, which must have up to date bounds
// (see `bitmap.Font.ComputeBounds`).
func Write(w io.Writer, f *bitmap.Font) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(f.Name, true)
	pdf.SetCreator("fontalize", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(margin, margin+6, title(f))

	l := newLayout(f)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.SetFont("Helvetica", "", 6)
	y := margin + titleHeight
	for i, g := range f.Glyphs {
		col := i % columns
		if i > 0 && col == 0 {
			y += l.rowHeight
			if y+l.rowHeight > pageHeight-margin {
				pdf.AddPage()
				y = margin
			}
		}
		x := margin + float64(col)*l.cellWidth
		pdf.Rect(x, y, l.cellWidth, l.rowHeight, "D")
		l.drawGlyph(pdf, g, x+l.pixel, y+l.pixel)
		label := fmt.Sprintf("%d", g.Index)
		if g.Name != "" {
			label += " " + g.Name
		}
		pdf.Text(x+0.5, y+l.rowHeight-1.5, label)
	}
	return pdf.Output(w)
}
