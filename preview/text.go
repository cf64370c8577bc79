package preview

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Render draws `s` on a new alpha image, one line high,
// with the baseline at the ascent of the face.
func Render(face font.Face, s string) *image.Alpha {
	m := face.Metrics()
	width := font.MeasureString(face, s).Ceil()
	height := (m.Ascent + m.Descent).Ceil()
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(s)
	return dst
}

// Text returns an ASCII art rendering of `s`, using 'X' for
// the pixels set, with trailing blanks removed.
func Text(face font.Face, s string) string {
	img := Render(face, s)
	var out strings.Builder
	line := make([]byte, img.Rect.Dx())
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := range line {
			line[x] = ' '
			if img.AlphaAt(x, y).A != 0 {
				line[x] = 'X'
			}
		}
		out.WriteString(strings.TrimRight(string(line), " "))
		out.WriteByte('\n')
	}
	return out.String()
}
