// Package bitmap packs monochrome pixel layers into byte aligned
// glyph bitmaps and aggregates them into a font, ready to be
// serialized as .bdf text or as a flat byte array.
package bitmap

import (
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/math/fixed"
)

// Property is either an `Atom`, an `Int` or a `Cardinal`
type Property interface {
	isProperty()
}

func (Atom) isProperty()     {}
func (Int) isProperty()      {}
func (Cardinal) isProperty() {}

type Atom string

type Int int32

type Cardinal uint32

// Prop is a named property, as found in the
// STARTPROPERTIES section of a .bdf file.
type Prop struct {
	Name  string
	Value Property
}

// Size is the nominal size of a font: its point size
// and the resolution (in dots per inch) of the target device.
type Size struct {
	Points     fixed.Int26_6
	XRes, YRes int
}

// DefaultResolution is used when no resolution is given.
const DefaultResolution = 96

// ScalableWidth returns the width, in 1/1000th of the point size,
// corresponding to the device width `dwidth`, in pixels.
// It returns 0 for an invalid size.
func (s Size) ScalableWidth(dwidth int) int {
	den := int64(s.Points) * int64(s.XRes)
	if den <= 0 {
		return 0
	}
	// dwidth * 1000 * 72 / (points * xres), with points in 26.6
	num := int64(dwidth) * 72000 * 64
	return int((num + den/2) / den)
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
