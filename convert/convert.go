// Package convert builds bitmap fonts out of images: each image is split
// into color layers, each layer becoming one glyph.
package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"runtime"
	"sort"

	"github.com/benoitkugler/bitmapfont/config"
	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/benoitkugler/bitmapfont/fonts/simpleencodings"
	"github.com/benoitkugler/bitmapfont/raster"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"
)

// Source is a decoded image, and the name used in glyph comments.
type Source struct {
	Name  string
	Image image.Image
}

// Converter runs conversions with a fixed configuration.
type Converter struct {
	cfg  config.Config
	enc  *simpleencodings.Encoding
	opts raster.Options
	log  logrus.FieldLogger
}

// New validates `cfg`. If `log` is nil, nothing is logged.
func New(cfg config.Config, log logrus.FieldLogger) (*Converter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := simpleencodings.ByName(cfg.Encoding)
	if err != nil {
		return nil, err
	}
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Converter{cfg: cfg, enc: enc, opts: cfg.RasterOptions(), log: log}, nil
}

// extraction is the result of one image
type extraction struct {
	source string
	layers raster.Layers
}

func (c *Converter) workers() int {
	if c.cfg.Workers > 0 {
		return c.cfg.Workers
	}
	return runtime.NumCPU()
}

// extract processes the images concurrently; `load` returns the i-th image.
// The results are in the input order.
func (c *Converter) extract(ctx context.Context, n int, load func(i int) (Source, error)) ([]extraction, error) {
	out := make([]extraction, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := load(i)
			if err != nil {
				return err
			}
			img := src.Image
			if c.cfg.Scale {
				if c.cfg.Width == 0 && c.cfg.Height == 0 {
					c.log.WithField("file", src.Name).Warn("no cell size given, image not scaled")
				} else {
					img = raster.Fit(img, c.cfg.Width, c.cfg.Height)
				}
			}
			layers, err := raster.Extract(img, c.opts, c.log.WithField("file", src.Name))
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name, err)
			}
			c.log.WithFields(logrus.Fields{"file": src.Name, "layers": layers.Len()}).Info("image processed")
			out[i] = extraction{source: src.Name, layers: layers}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Images converts already decoded images. See Files.
func (c *Converter) Images(ctx context.Context, sources []Source, base *bitmap.Font) (*bitmap.Font, error) {
	ex, err := c.extract(ctx, len(sources), func(i int) (Source, error) { return sources[i], nil })
	if err != nil {
		return nil, err
	}
	return c.build(ex, base)
}

// Files decodes and converts the image files at `paths`, concurrently.
// Glyphs are added in the order of `paths`, then in the order of the
// layers of each image, so that the result does not depend on scheduling.
// If `base` is not nil, the glyphs are appended to a copy of it: the
// base font start is kept (a configured start is ignored), as are its
// properties and its name, unless a name is configured. Its glyphs must
// fit the cell, as the new ones.
//
// Running out of character codes is not an error: the extra glyphs
// are dropped and logged.
func (c *Converter) Files(ctx context.Context, paths []string, base *bitmap.Font) (*bitmap.Font, error) {
	ex, err := c.extract(ctx, len(paths), func(i int) (Source, error) {
		img, err := raster.Open(paths[i])
		return Source{Name: paths[i], Image: img}, err
	})
	if err != nil {
		return nil, err
	}
	return c.build(ex, base)
}

// cell returns the font cell: the configured one, or the one of
// the base font, or the largest image
func (c *Converter) cell(ex []extraction, base *bitmap.Font) (width, height int) {
	width, height = c.cfg.Width, c.cfg.Height
	if base != nil {
		if width == 0 {
			width = base.Width
		}
		if height == 0 {
			height = base.Height
		}
	}
	if width == 0 {
		for _, e := range ex {
			width = max(width, e.layers.Width())
		}
	}
	if height == 0 {
		for _, e := range ex {
			height = max(height, e.layers.Height())
		}
	}
	return width, height
}

// newFont returns the font receiving the glyphs. The glyphs of `base`
// are added first, checked against the cell like the new ones.
func (c *Converter) newFont(width, height int, base *bitmap.Font) (*bitmap.Font, error) {
	if base != nil {
		name := base.Name
		if c.cfg.Name != "" && c.cfg.Name != config.Default().Name {
			name = c.cfg.Name
		}
		if c.cfg.Start != 0 && c.cfg.Start != base.Start {
			c.log.WithFields(logrus.Fields{"start": c.cfg.Start, "base": base.Start}).Warn("start ignored, the base font start is used")
		}
		f := bitmap.NewFont(name, base.Start, width, height, c.log)
		f.Properties = base.Properties
		f.Size = base.Size
		for _, g := range base.Glyphs {
			cp := *g
			if err := f.AddGlyph(&cp); err != nil {
				return nil, fmt.Errorf("base font, glyph %d: %w", g.Index, err)
			}
		}
		return f, nil
	}

	f := bitmap.NewFont(c.cfg.Name, c.cfg.Start, width, height, c.log)
	points := c.cfg.PointSize
	if points == 0 {
		points = height
	}
	f.Size = bitmap.Size{Points: fixed.I(points), XRes: c.cfg.Resolution, YRes: c.cfg.Resolution}
	if c.enc.Registry != "" {
		f.Properties = append(f.Properties,
			bitmap.Prop{Name: "CHARSET_REGISTRY", Value: bitmap.Atom(c.enc.Registry)},
			bitmap.Prop{Name: "CHARSET_ENCODING", Value: bitmap.Atom(c.enc.Code)},
		)
	}
	names := make([]string, 0, len(c.cfg.Properties))
	for name := range c.cfg.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.Properties = append(f.Properties, bitmap.Prop{Name: name, Value: bitmap.Atom(c.cfg.Properties[name])})
	}
	return f, nil
}

// layerGlyph packs one layer in the font cell. Layers smaller than
// the cell are aligned on its top left corner.
func layerGlyph(l raster.Layer, imgWidth, cellWidth, cellHeight int, name string) (*bitmap.Glyph, error) {
	width, height := max(cellWidth, imgWidth), max(cellHeight, len(l.Rows))
	masks := l.Rows
	if width > imgWidth {
		masks = make([]bitmap.Row, len(l.Rows))
		for i, r := range l.Rows {
			masks[i] = r << uint(width-imgWidth)
		}
	}
	return bitmap.Pack(width, height, masks, name)
}

// build adds the glyphs in order; only ErrFontFull is recovered.
func (c *Converter) build(ex []extraction, base *bitmap.Font) (*bitmap.Font, error) {
	width, height := c.cell(ex, base)
	f, err := c.newFont(width, height, base)
	if err != nil {
		return nil, err
	}
	dropped := 0
	for _, e := range ex {
		log := c.log.WithField("file", e.source)
		if e.layers.Len() == 0 {
			log.Warn("no layer found, image ignored")
			continue
		}
		for i := 0; i < e.layers.Len(); i++ {
			l := e.layers.At(i)
			var name string
			if next := f.Start + len(f.Glyphs); next < bitmap.MaxGlyphs {
				name = c.enc.Names[next]
			}
			g, err := layerGlyph(l, e.layers.Width(), width, height, name)
			if err != nil {
				return nil, fmt.Errorf("%s, color %s: %w", e.source, l.Color, err)
			}
			if g.IsEmpty() {
				log.WithField("color", l.Color.Key()).Warn("empty layer")
			}
			g.Comment = fmt.Sprintf("Conversion of file %s, color %s", e.source, l.Color.Key())
			err = f.AddGlyph(g)
			if errors.Is(err, bitmap.ErrFontFull) {
				dropped++
				continue
			} else if err != nil {
				return nil, fmt.Errorf("%s, color %s: %w", e.source, l.Color, err)
			}
		}
	}
	if dropped != 0 {
		c.log.WithField("dropped", dropped).Warn("font full, some glyphs were dropped")
	}
	f.ComputeBounds()
	c.log.WithFields(logrus.Fields{"glyphs": len(f.Glyphs), "start": f.Start, "end": f.End()}).Info("font built")
	return f, nil
}
