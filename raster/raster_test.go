package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	red  = color.NRGBA{R: 0xFF, A: 0xFF}
	blue = color.NRGBA{B: 0xFF, A: 0xFF}
)

func newImage(w, h int, pixels map[image.Point]color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for p, c := range pixels {
		img.Set(p.X, p.Y, c)
	}
	return img
}

func TestExtractTwoColors(t *testing.T) {
	img := newImage(4, 3, map[image.Point]color.Color{
		{0, 0}: red, {1, 0}: red,
		{3, 2}: blue,
	})
	log, hook := test.NewNullLogger()
	layers, err := Extract(img, DefaultOptions(), log)
	if err != nil {
		t.Fatal(err)
	}
	if layers.Width() != 4 || layers.Height() != 3 {
		t.Errorf("unexpected size %dx%d", layers.Width(), layers.Height())
	}
	if layers.Len() != 2 {
		t.Fatalf("expected 2 layers, got %d", layers.Len())
	}
	expected := []Layer{
		{Color: Color{R: 0xFF}, Rows: []bitmap.Row{0b1100, 0, 0}},
		{Color: Color{B: 0xFF}, Rows: []bitmap.Row{0, 0, 0b0001}},
	}
	for i, exp := range expected {
		if got := layers.At(i); !reflect.DeepEqual(got, exp) {
			t.Errorf("layer %d: expected %v, got %v", i, exp, got)
		}
	}

	// the transparent background is reported once
	var warnings int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
			if entry.Data["color"] != "#000000" {
				t.Errorf("unexpected dropped color %v", entry.Data["color"])
			}
		}
	}
	if warnings != 1 {
		t.Errorf("expected 1 warning, got %d", warnings)
	}
}

func TestExtractBackground(t *testing.T) {
	img := newImage(2, 1, map[image.Point]color.Color{
		{0, 0}: color.White, {1, 0}: color.Black,
	})
	bg := Color{0xFF, 0xFF, 0xFF}
	layers, err := Extract(img, Options{AlphaMin: 0xFF, Background: &bg}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if layers.Len() != 1 {
		t.Fatalf("expected 1 layer, got %d", layers.Len())
	}
	if _, ok := layers.Lookup(bg); ok {
		t.Error("background should be masked")
	}
	l, ok := layers.Lookup(Color{})
	if !ok || l.Rows[0] != 0b01 {
		t.Errorf("unexpected layer %v", l)
	}
}

func TestExtractAlpha(t *testing.T) {
	img := newImage(3, 1, map[image.Point]color.Color{
		{0, 0}: color.NRGBA{R: 0xFF, A: 0x80},
		{1, 0}: red,
	})
	for _, test := range []struct {
		alphaMin uint8
		layers   int
	}{
		{0xFF, 1},
		{0x80, 1}, // same RGB key for both pixels
		{0, 2},    // transparent black is kept
	} {
		layers, err := Extract(img, Options{AlphaMin: test.alphaMin}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if layers.Len() != test.layers {
			t.Errorf("alpha %d: expected %d layers, got %d", test.alphaMin, test.layers, layers.Len())
		}
	}

	layers, _ := Extract(img, Options{AlphaMin: 0x80}, nil)
	if l, _ := layers.Lookup(Color{R: 0xFF}); l.Rows[0] != 0b110 {
		t.Errorf("expected both pixels, got %03b", l.Rows[0])
	}
}

func TestExtractPaletted(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Transparent, red})
	img.SetColorIndex(1, 0, 1)
	layers, err := Extract(img, DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if layers.Len() != 1 {
		t.Fatalf("expected 1 layer, got %d", layers.Len())
	}
	if l := layers.At(0); !reflect.DeepEqual(l.Rows, []bitmap.Row{1, 0}) {
		t.Errorf("unexpected rows %v", l.Rows)
	}
}

func TestExtractBinarize(t *testing.T) {
	img := newImage(3, 1, map[image.Point]color.Color{
		{0, 0}: color.NRGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xFF},
		{1, 0}: color.NRGBA{R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF},
	})
	opts := DefaultOptions()
	opts.Binarize = true
	layers, err := Extract(img, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(layers.Colors(), []Color{{}, {0xFF, 0xFF, 0xFF}}) {
		t.Fatalf("expected black and white layers, got %v", layers.Colors())
	}
	if l := layers.At(0); l.Rows[0] != 0b100 {
		t.Errorf("expected %03b, got %03b", 0b100, l.Rows[0])
	}
	if l := layers.At(1); l.Rows[0] != 0b011 {
		t.Errorf("expected %03b, got %03b", 0b011, l.Rows[0])
	}
}

func TestExtractTooWide(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, bitmap.MaxWidth+1, 1))
	_, err := Extract(img, DefaultOptions(), nil)
	if !errors.Is(err, ErrTooWide) || !errors.Is(err, bitmap.ErrTooWide) {
		t.Errorf("expected ErrTooWide, got %v", err)
	}
}

func TestExtractOffsetBounds(t *testing.T) {
	full := newImage(4, 4, map[image.Point]color.Color{{2, 2}: red})
	sub := full.SubImage(image.Rect(2, 2, 4, 4))
	layers, err := Extract(sub, DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if l := layers.At(0); !reflect.DeepEqual(l.Rows, []bitmap.Row{0b10, 0}) {
		t.Errorf("unexpected rows %v", l.Rows)
	}
}

func TestLayersImmutable(t *testing.T) {
	layers, err := Extract(newImage(1, 1, map[image.Point]color.Color{{0, 0}: red}), DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	l := layers.At(0)
	l.Rows[0] = 0
	if layers.At(0).Rows[0] != 1 {
		t.Error("layers should not be modified through At")
	}
}

func TestParseColor(t *testing.T) {
	for input, exp := range map[string]Color{
		"#ff0000":  {R: 0xFF},
		"0x00FF00": {G: 0xFF},
		"0000ff":   {B: 0xFF},
		" #102030": {0x10, 0x20, 0x30},
	} {
		got, err := ParseColor(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != exp {
			t.Errorf("%q: expected %v, got %v", input, exp, got)
		}
		if back, _ := ParseColor(got.Key()); back != got {
			t.Errorf("%q: key does not round trip", input)
		}
	}
	for _, input := range []string{"", "#fff", "#gg0000", "#1234567"} {
		if _, err := ParseColor(input); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestDecodePNG(t *testing.T) {
	img := newImage(3, 2, map[image.Point]color.Color{{0, 0}: red, {2, 1}: blue})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	decoded, format, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" {
		t.Errorf("expected png, got %s", format)
	}
	layers, err := Extract(decoded, DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if layers.Len() != 2 {
		t.Errorf("expected 2 layers, got %d", layers.Len())
	}

	if _, _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for invalid data")
	}
	if _, err := Open("testdata/missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFit(t *testing.T) {
	img := newImage(8, 4, map[image.Point]color.Color{
		{0, 0}: red, {1, 0}: red, {0, 1}: red, {1, 1}: red,
		{6, 2}: blue, {7, 2}: blue, {6, 3}: blue, {7, 3}: blue,
	})
	out := Fit(img, 4, 4)
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("expected 4x2, got %dx%d", b.Dx(), b.Dy())
	}
	layers, err := Extract(out, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range layers.Colors() {
		switch c {
		case Color{}, Color{R: 0xFF}, Color{B: 0xFF}:
		default:
			t.Errorf("unexpected color %s introduced by scaling", c)
		}
	}

	if out := Fit(img, 0, 0); out.Bounds().Dx() != 8 {
		t.Errorf("expected unchanged image, got %v", out.Bounds())
	}

	small := newImage(2, 1, map[image.Point]color.Color{{0, 0}: red, {1, 0}: blue})
	out = Fit(small, 4, 0)
	if b := out.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("expected 4x2, got %dx%d", b.Dx(), b.Dy())
	}
	layers, err = Extract(out, DefaultOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if l, _ := layers.Lookup(Color{R: 0xFF}); !reflect.DeepEqual(l.Rows, []bitmap.Row{0b1100, 0b1100}) {
		t.Errorf("unexpected upscaled rows %v", l.Rows)
	}
}
