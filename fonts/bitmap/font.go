package bitmap

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/math/fixed"
)

// MaxGlyphs is the number of character codes available.
const MaxGlyphs = 256

var (
	// ErrFontFull is returned when adding a glyph past the last
	// character code. The glyph is dropped, but the font is still valid.
	ErrFontFull = errors.New("font has no character code left")
	// ErrGlyphTooLarge is returned when a glyph cell exceeds the font cell.
	ErrGlyphTooLarge = errors.New("glyph larger than the font cell")
)

// Font is an ordered set of glyphs sharing a nominal cell.
// Glyph i is encoded as Start + i.
type Font struct {
	Name  string
	Start int

	// Width and Height define the nominal cell.
	Width, Height int
	Size          Size

	// BBox, Ascent and Descent are updated by ComputeBounds.
	BBox            BBox
	Ascent, Descent int

	// Properties are written after the ascent and descent
	// in the .bdf output.
	Properties []Prop

	Glyphs []*Glyph

	log logrus.FieldLogger
}

// NewFont returns an empty font, with a `width` x `height` cell,
// whose first glyph will have code `start`.
// If `log` is nil, nothing is logged.
func NewFont(name string, start, width, height int, log logrus.FieldLogger) *Font {
	if log == nil {
		log = discardLogger()
	}
	f := &Font{
		Name:   name,
		Start:  start,
		Width:  width,
		Height: height,
		Size:   Size{Points: fixed.I(height), XRes: DefaultResolution, YRes: DefaultResolution},
		log:    log,
	}
	f.ComputeBounds()
	return f
}

// End returns the code of the last glyph, or Start - 1
// for an empty font.
func (f *Font) End() int { return f.Start + len(f.Glyphs) - 1 }

// Glyph returns the glyph with code `index`, or nil.
func (f *Font) Glyph(index int) *Glyph {
	i := index - f.Start
	if i < 0 || i >= len(f.Glyphs) {
		return nil
	}
	return f.Glyphs[i]
}

// AddGlyph assigns the next character code to `g` and appends it.
// When all the codes are used, `g` is dropped and ErrFontFull is returned:
// callers may carry on with the glyphs already added.
// A glyph whose cell exceeds the font cell is an error.
func (f *Font) AddGlyph(g *Glyph) error {
	index := f.Start + len(f.Glyphs)
	if index > MaxGlyphs-1 {
		f.log.WithFields(logrus.Fields{"glyph": g.Name, "index": index}).Warn("no character code left, glyph dropped")
		return ErrFontFull
	}
	if g.NominalWidth > f.Width || g.NominalHeight > f.Height {
		return fmt.Errorf("%w: %dx%d glyph for a %dx%d cell", ErrGlyphTooLarge,
			g.NominalWidth, g.NominalHeight, f.Width, f.Height)
	}
	g.Index = index
	f.Glyphs = append(f.Glyphs, g)
	f.log.WithFields(logrus.Fields{"glyph": g.Name, "index": index}).Debug("glyph added")
	return nil
}

// ComputeBounds updates the global bounding box, as the union of the
// glyph boxes, and the ascent and descent of the font.
// A font without ink keeps its nominal cell as bounding box.
func (f *Font) ComputeBounds() {
	bbox := BBox{Width: f.Width, Height: f.Height}
	found := false
	for _, g := range f.Glyphs {
		if g.BBox.Empty() {
			continue
		}
		if !found {
			bbox, found = g.BBox, true
			continue
		}
		bbox = bbox.union(g.BBox)
	}
	f.BBox = bbox
	f.Ascent = bbox.MaxY() + 1
	f.Descent = 0
	if bbox.MinY < 0 {
		f.Descent = -bbox.MinY
	}
}

// AllProperties returns the font ascent and descent,
// followed by the additional properties.
func (f *Font) AllProperties() []Prop {
	out := []Prop{
		{Name: "FONT_ASCENT", Value: Int(f.Ascent)},
		{Name: "FONT_DESCENT", Value: Int(f.Descent)},
	}
	return append(out, f.Properties...)
}
