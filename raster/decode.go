package raster

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"

	// supported input formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"
)

// Decode reads an image in one of the supported formats
// (PNG, GIF, JPEG, BMP, TIFF, WebP), and returns the format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// Open decodes the image file at `path`.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Fit scales `img`, preserving its aspect ratio, so that it fills a
// `width` x `height` cell. A zero dimension is not constrained.
// Nearest neighbour sampling is used: upscaling introduces no new color,
// but downscaling averages the pixels covered by each output pixel.
func Fit(img image.Image, width, height int) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 || (width <= 0 && height <= 0) {
		return img
	}
	factor := math.Inf(1)
	if width > 0 {
		factor = float64(width) / float64(w)
	}
	if height > 0 {
		factor = math.Min(factor, float64(height)/float64(h))
	}
	nw, nh := max(1, int(float64(w)*factor)), max(1, int(float64(h)*factor))
	if nw == w && nh == h {
		return img
	}
	return resize.Resize(uint(nw), uint(nh), img, resize.NearestNeighbor)
}
