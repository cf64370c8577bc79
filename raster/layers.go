package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// ErrTooWide is returned for images wider than bitmap.MaxWidth pixels.
var ErrTooWide = fmt.Errorf("image %w", bitmap.ErrTooWide)

// Options controls which colors become layers.
type Options struct {
	// AlphaMin is the minimum alpha of a pixel to be
	// taken into account. Other colors are dropped.
	AlphaMin uint8
	// Background is an optional color ignored when building layers.
	Background *Color
	// Binarize flattens the image over white and forces
	// every pixel to pure black or white before extraction.
	Binarize bool
	// Threshold is the gray level below which a pixel
	// becomes black when binarizing.
	Threshold uint8
}

// DefaultOptions only keeps fully opaque colors.
func DefaultOptions() Options {
	return Options{AlphaMin: 0xFF, Threshold: 0x80}
}

// Layer stores the pixels of one color: one row mask per image line,
// from top to bottom, with column x at bit Width-1-x.
type Layer struct {
	Color Color
	Rows  []bitmap.Row
}

// Layers is the immutable result of an extraction.
// Layers are sorted by order of first appearance in the image,
// scanned row by row.
type Layers struct {
	width, height int
	layers        []Layer
	index         map[Color]int
}

func (ls Layers) Width() int  { return ls.width }
func (ls Layers) Height() int { return ls.height }
func (ls Layers) Len() int    { return len(ls.layers) }

// At returns a copy of the i-th layer.
func (ls Layers) At(i int) Layer {
	l := ls.layers[i]
	return Layer{Color: l.Color, Rows: append([]bitmap.Row(nil), l.Rows...)}
}

// Lookup returns the layer for color `c`, if any.
func (ls Layers) Lookup(c Color) (Layer, bool) {
	i, ok := ls.index[c]
	if !ok {
		return Layer{}, false
	}
	return ls.At(i), true
}

// Colors returns the layer colors, in order.
func (ls Layers) Colors() []Color {
	out := make([]Color, len(ls.layers))
	for i, l := range ls.layers {
		out[i] = l.Color
	}
	return out
}

// toNRGBA expands `img` (paletted, gray, premultiplied...)
// to non premultiplied RGBA, with bounds starting at (0, 0).
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if out, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return out
	}
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// Extract splits `img` into one layer per color.
// Colors whose alpha is below opts.AlphaMin are dropped (and logged),
// as is opts.Background. The image is not modified.
// If `log` is nil, nothing is logged.
func Extract(img image.Image, opts Options, log logrus.FieldLogger) (Layers, error) {
	if log == nil {
		log = discardLogger()
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width > bitmap.MaxWidth {
		return Layers{}, fmt.Errorf("%w: %d pixels (max %d)", ErrTooWide, width, bitmap.MaxWidth)
	}

	var src *image.NRGBA
	if opts.Binarize {
		src = binarize(img, opts.Threshold)
	} else {
		src = toNRGBA(img)
	}

	out := Layers{width: width, height: height, index: make(map[Color]int)}
	dropped := make(map[color.NRGBA]bool)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := src.NRGBAAt(x, y)
			if c.A < opts.AlphaMin {
				if !dropped[c] {
					dropped[c] = true
					log.WithFields(logrus.Fields{"color": Color{c.R, c.G, c.B}.Key(), "alpha": c.A}).
						Warn("color below alpha threshold, dropped")
				}
				continue
			}
			key := Color{R: c.R, G: c.G, B: c.B}
			if opts.Background != nil && key == *opts.Background {
				continue
			}
			i, ok := out.index[key]
			if !ok {
				i = len(out.layers)
				out.index[key] = i
				out.layers = append(out.layers, Layer{Color: key, Rows: make([]bitmap.Row, height)})
			}
			out.layers[i].Rows[y] |= 1 << uint(width-1-x)
		}
	}
	log.WithFields(logrus.Fields{"layers": len(out.layers), "size": fmt.Sprintf("%dx%d", width, height)}).
		Debug("layers extracted")
	return out, nil
}
