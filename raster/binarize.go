package raster

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/gift"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

var (
	black = color.NRGBA{A: 0xFF}
	white = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// binarize flattens `img` over a white background, using its
// alpha channel as mask, and thresholds the gray levels.
// The result only contains opaque black and white pixels.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	flat := image.NewRGBA(rect)
	draw.Draw(flat, rect, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, rect, img, b.Min, draw.Over)

	gray := image.NewGray(rect)
	gift.New(gift.Grayscale()).Draw(gray, flat)

	out := image.NewNRGBA(rect)
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			if gray.GrayAt(x, y).Y < threshold {
				out.SetNRGBA(x, y, black)
			} else {
				out.SetNRGBA(x, y, white)
			}
		}
	}
	return out
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
