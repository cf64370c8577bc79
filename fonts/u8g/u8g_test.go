package u8g

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
)

func testFont(t *testing.T, start int, layers ...[]bitmap.Row) *bitmap.Font {
	f := bitmap.NewFont("test", start, 8, 8, nil)
	for _, masks := range layers {
		g, err := bitmap.Pack(8, 8, masks, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := f.AddGlyph(g); err != nil {
			t.Fatal(err)
		}
	}
	f.ComputeBounds()
	return f
}

var (
	layerA = []bitmap.Row{
		0,
		0b00011000,
		0b00100100,
		0b01000010,
		0b01111110,
		0b01000010,
		0,
		0,
	}
	layerEmpty = make([]bitmap.Row, 8)
)

func TestEncode(t *testing.T) {
	f := testFont(t, 65, layerA, layerEmpty)
	got, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{
		0, 8, 8, 1, 2, 7, 0, 17, 0, 0, 65, 66, 0, 7, 0, 7, 0,
		6, 5, 5, 8, 1, 2, 0x30, 0x48, 0x84, 0xFC, 0x84,
		0, 0, 0, 8, 0, 0,
	}
	if !bytes.Equal(got, expected) {
		t.Errorf("expected\n%v\ngot\n%v", expected, got)
	}
}

func TestEncodeLowerA(t *testing.T) {
	f := testFont(t, 96, layerEmpty, layerA)
	got, err := Encode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got[6] != 0 || got[7] != 0 {
		t.Errorf("expected no offset for 'A', got %v", got[6:8])
	}
	if off := int(got[8])<<8 | int(got[9]); off != HeaderSize+GlyphHeaderSize {
		t.Errorf("expected offset %d for 'a', got %d", HeaderSize+GlyphHeaderSize, off)
	}
	if got[10] != 96 || got[11] != 97 {
		t.Errorf("unexpected range %d-%d", got[10], got[11])
	}
}

func TestEncodeEmptyFont(t *testing.T) {
	got, err := Encode(bitmap.NewFont("", 32, 5, 7, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != HeaderSize {
		t.Fatalf("expected header only, got %d bytes", len(got))
	}
	if got[10] != 32 || got[11] != 32 {
		t.Errorf("unexpected range %d-%d", got[10], got[11])
	}
}

func TestEncodeOverflow(t *testing.T) {
	if _, err := Encode(bitmap.NewFont("", 0, 300, 8, nil)); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}

	f := testFont(t, 65, layerA)
	f.Glyphs[0].DWidth = 256
	if _, err := Encode(f); !errors.Is(err, ErrOverflow) {
		t.Errorf("expected overflow, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	for _, f := range []*bitmap.Font{
		testFont(t, 65, layerA, layerEmpty),
		testFont(t, 96, layerEmpty, layerA, layerA),
	} {
		data, err := Encode(f)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Decode(data)
		if err != nil {
			t.Fatal(err)
		}
		if got.Start != f.Start || got.Width != f.Width || got.Height != f.Height {
			t.Errorf("unexpected header %d %dx%d", got.Start, got.Width, got.Height)
		}
		if got.BBox != f.BBox || got.Ascent != f.Ascent || got.Descent != f.Descent {
			t.Errorf("expected bbox %v, got %v", f.BBox, got.BBox)
		}
		if len(got.Glyphs) != len(f.Glyphs) {
			t.Fatalf("expected %d glyphs, got %d", len(f.Glyphs), len(got.Glyphs))
		}
		for i, g := range got.Glyphs {
			exp := f.Glyphs[i]
			if g.BBox != exp.BBox || g.Size != exp.Size || g.DWidth != exp.DWidth {
				t.Errorf("glyph %d: expected %+v, got %+v", i, exp, g)
			}
			if !reflect.DeepEqual(g.Unpack(), exp.Unpack()) {
				t.Errorf("glyph %d: bitmaps differ", i)
			}
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := Encode(testFont(t, 65, layerA, layerEmpty))
	if err != nil {
		t.Fatal(err)
	}
	badFormat := append([]byte(nil), valid...)
	badFormat[0] = 1
	badOffset := append([]byte(nil), valid...)
	badOffset[7] = 18
	for _, data := range [][]byte{
		nil,
		valid[:10],
		valid[:len(valid)-1],
		badFormat,
		badOffset,
		append(append([]byte(nil), valid...), 0, 0, 0, 8, 0, 0),
	} {
		if _, err := Decode(data); err == nil {
			t.Errorf("expected error for %v", data)
		}
	}
}

func TestWriteSource(t *testing.T) {
	data := make([]byte, 18)
	for i := range data {
		data[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := WriteSource(&buf, "my-font", data); err != nil {
		t.Fatal(err)
	}
	expected := "const uint8_t my_font[18] = {\n" +
		"  0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,\n" +
		"  16,17\n" +
		"};\n"
	if got := buf.String(); got != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, got)
	}
}

func TestIdentifier(t *testing.T) {
	for name, exp := range map[string]string{
		"font":     "font",
		"my font!": "my_font_",
		"8x8":      "_8x8",
		"":         "_",
		"café":     "caf_",
	} {
		if got := Identifier(name); got != exp {
			t.Errorf("Identifier(%q): expected %q, got %q", name, exp, got)
		}
	}
}
