package bdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benoitkugler/bitmapfont/fonts/bitmap"
	tk "github.com/benoitkugler/pstokenizer"
	"golang.org/x/image/math/fixed"
)

var errEOF = errors.New("unexpected end of file")

// lexer reads a .bdf file line by line
type lexer struct {
	sc   *bufio.Scanner
	line int
}

// next returns the keyword and the raw arguments of the
// next meaningful line, skipping comments and blank lines.
func (l *lexer) next() (keyword, args string, err error) {
	for l.sc.Scan() {
		l.line++
		text := strings.TrimSpace(l.sc.Text())
		if text == "" {
			continue
		}
		keyword, args = text, ""
		if i := strings.IndexAny(text, " \t"); i != -1 {
			keyword, args = text[:i], strings.TrimSpace(text[i+1:])
		}
		if keyword == "COMMENT" {
			continue
		}
		return keyword, args, nil
	}
	if err := l.sc.Err(); err != nil {
		return "", "", err
	}
	return "", "", errEOF
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("bdf: line %d: %s", l.line, fmt.Sprintf(format, args...))
}

// ints tokenizes `args` and returns its integers
func (l *lexer) ints(args string, n int) ([]int, error) {
	tokens, err := tk.Tokenize([]byte(args))
	if err != nil {
		return nil, l.errorf("%s", err)
	}
	if len(tokens) < n {
		return nil, l.errorf("expected %d integers, got %q", n, args)
	}
	out := make([]int, n)
	for i := range out {
		if tokens[i].Kind != tk.Integer {
			return nil, l.errorf("expected integer, got %q", tokens[i].Value)
		}
		out[i], err = tokens[i].Int()
		if err != nil {
			return nil, l.errorf("%s", err)
		}
	}
	return out, nil
}

func parseProperty(args string) bitmap.Property {
	if strings.HasPrefix(args, `"`) {
		if s, err := strconv.Unquote(args); err == nil {
			return bitmap.Atom(s)
		}
		return bitmap.Atom(strings.Trim(args, `"`))
	}
	tokens, err := tk.Tokenize([]byte(args))
	if err == nil && len(tokens) == 1 && tokens[0].Kind == tk.Integer {
		if v, err := tokens[0].Int(); err == nil {
			return bitmap.Int(v)
		}
	}
	return bitmap.Atom(args)
}

type header struct {
	name        string
	size        bitmap.Size
	bbox        bitmap.BBox
	props       []bitmap.Prop
	cellW, cellH int
	chars       int
}

func (l *lexer) header() (h header, err error) {
	keyword, args, err := l.next()
	if err != nil {
		return h, err
	}
	if keyword != "STARTFONT" {
		return h, l.errorf("not a BDF file (missing STARTFONT)")
	}
	h.size = bitmap.Size{XRes: bitmap.DefaultResolution, YRes: bitmap.DefaultResolution}
	for {
		keyword, args, err = l.next()
		if err != nil {
			return h, err
		}
		switch keyword {
		case "FONT":
			h.name = args
		case "SIZE":
			v, err := l.ints(args, 3)
			if err != nil {
				return h, err
			}
			h.size = bitmap.Size{Points: fixed.I(v[0]), XRes: v[1], YRes: v[2]}
		case "FONTBOUNDINGBOX":
			v, err := l.ints(args, 4)
			if err != nil {
				return h, err
			}
			h.bbox = bitmap.BBox{Width: v[0], Height: v[1], MinX: v[2], MinY: v[3]}
		case "STARTPROPERTIES":
			if err := l.properties(&h); err != nil {
				return h, err
			}
		case "CHARS":
			v, err := l.ints(args, 1)
			if err != nil {
				return h, err
			}
			h.chars = v[0]
			return h, nil
		}
	}
}

func (l *lexer) properties(h *header) error {
	for {
		keyword, args, err := l.next()
		if err != nil {
			return err
		}
		switch keyword {
		case "ENDPROPERTIES":
			return nil
		case "FONT_ASCENT", "FONT_DESCENT":
			// computed from the glyphs
		case propPixelSize, propQuadWidth:
			v, err := l.ints(args, 1)
			if err != nil {
				return err
			}
			if keyword == propPixelSize {
				h.cellH = v[0]
			} else {
				h.cellW = v[0]
			}
		default:
			h.props = append(h.props, bitmap.Prop{Name: keyword, Value: parseProperty(args)})
		}
	}
}

// glyph reads a glyph, after its STARTCHAR line.
// `encoding` is -1 for unencoded glyphs.
func (l *lexer) glyph(name string) (g *bitmap.Glyph, encoding int, err error) {
	g = &bitmap.Glyph{Name: name}
	encoding = -1
	for {
		keyword, args, err := l.next()
		if err != nil {
			return nil, 0, err
		}
		switch keyword {
		case "ENCODING":
			v, err := l.ints(args, 1)
			if err != nil {
				return nil, 0, err
			}
			encoding = v[0]
		case "DWIDTH":
			v, err := l.ints(args, 1)
			if err != nil {
				return nil, 0, err
			}
			g.DWidth = v[0]
		case "BBX":
			v, err := l.ints(args, 4)
			if err != nil {
				return nil, 0, err
			}
			g.BBox = bitmap.BBox{Width: v[0], Height: v[1], MinX: v[2], MinY: v[3]}
		case "BITMAP":
			if err := l.rows(g); err != nil {
				return nil, 0, err
			}
			return g, encoding, nil
		}
	}
}

// rows reads the hexadecimal rows, up to ENDCHAR
func (l *lexer) rows(g *bitmap.Glyph) error {
	for {
		keyword, _, err := l.next()
		if err != nil {
			return err
		}
		if keyword == "ENDCHAR" {
			break
		}
		if len(keyword) > 16 {
			return l.errorf("row too wide: %s", keyword)
		}
		v, err := strconv.ParseUint(keyword, 16, 64)
		if err != nil {
			return l.errorf("invalid row %q", keyword)
		}
		g.Size = (len(keyword) + 1) / 2
		g.Rows = append(g.Rows, bitmap.Row(v))
	}
	if g.BBox.Empty() {
		g.BBox, g.Size, g.Rows = bitmap.BBox{}, 0, nil
		return nil
	}
	if len(g.Rows) != g.Height {
		return l.errorf("expected %d rows, got %d", g.Height, len(g.Rows))
	}
	g.Pad = g.Size*8 - g.Width
	return nil
}

// Read parses a .bdf font. Glyphs must be sorted by encoding;
// missing codes between two glyphs are filled with empty glyphs,
// and unencoded glyphs are ignored.
func Read(r io.Reader) (*bitmap.Font, error) {
	l := lexer{sc: bufio.NewScanner(r)}
	h, err := l.header()
	if err != nil {
		return nil, err
	}
	if h.cellW == 0 {
		h.cellW = h.bbox.MaxX() + 1
	}
	if h.cellH == 0 {
		h.cellH = h.bbox.MaxY() + 1
	}

	var (
		f    *bitmap.Font
		next int
	)
	for {
		keyword, args, err := l.next()
		if err != nil {
			return nil, err
		}
		if keyword == "ENDFONT" {
			break
		}
		if keyword != "STARTCHAR" {
			return nil, l.errorf("unexpected %s", keyword)
		}
		g, encoding, err := l.glyph(args)
		if err != nil {
			return nil, err
		}
		if encoding < 0 {
			continue
		}
		if f == nil {
			f = bitmap.NewFont(h.name, encoding, h.cellW, h.cellH, nil)
			next = encoding
		}
		if encoding < next {
			return nil, l.errorf("glyph %d is not sorted", encoding)
		}
		for ; next < encoding; next++ {
			if err := f.AddGlyph(&bitmap.Glyph{NominalWidth: h.cellW, NominalHeight: h.cellH}); err != nil {
				return nil, err
			}
		}
		g.NominalWidth, g.NominalHeight = h.cellW, h.cellH
		if err := f.AddGlyph(g); err != nil {
			return nil, fmt.Errorf("bdf: glyph %d: %w", encoding, err)
		}
		next++
	}
	if f == nil {
		f = bitmap.NewFont(h.name, 0, h.cellW, h.cellH, nil)
	}
	f.Size = h.size
	f.Properties = h.props
	f.ComputeBounds()
	return f, nil
}
