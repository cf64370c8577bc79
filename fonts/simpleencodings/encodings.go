// Simple encodings map a subset of the unicode characters (at most 256)
// to a set of single bytes. The characters are referenced in .bdf fonts by their
// name, not their Unicode value, so both mappings are provided.
// The predefined encodings of this package are built from the
// character maps of golang.org/x/text.
package simpleencodings

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

type Encoding struct {
	// Registry and Code identify the charset, as
	// in the X11 CHARSET_REGISTRY and CHARSET_ENCODING properties.
	Registry, Code string

	Names [256]string
	Runes map[rune]byte
}

// RuneToByte returns a copy of the rune to byte map
func (e Encoding) RuneToByte() map[rune]byte {
	out := make(map[rune]byte, len(e.Runes))
	for r, b := range e.Runes {
		out[r] = b
	}
	return out
}

// NameToRune returns the character of each named code
func (e Encoding) NameToRune() map[string]rune {
	out := make(map[string]rune, len(e.Runes))
	for r, b := range e.Runes {
		out[e.Names[b]] = r
	}
	return out
}

type charset struct {
	cm             *charmap.Charmap
	registry, code string
}

var predefined = map[string]charset{
	"iso-8859-1":   {charmap.ISO8859_1, "ISO8859", "1"},
	"iso-8859-2":   {charmap.ISO8859_2, "ISO8859", "2"},
	"iso-8859-5":   {charmap.ISO8859_5, "ISO8859", "5"},
	"iso-8859-7":   {charmap.ISO8859_7, "ISO8859", "7"},
	"iso-8859-15":  {charmap.ISO8859_15, "ISO8859", "15"},
	"windows-1250": {charmap.Windows1250, "MICROSOFT", "CP1250"},
	"windows-1251": {charmap.Windows1251, "MICROSOFT", "CP1251"},
	"windows-1252": {charmap.Windows1252, "MICROSOFT", "CP1252"},
	"cp437":        {charmap.CodePage437, "IBM", "CP437"},
	"cp850":        {charmap.CodePage850, "IBM", "CP850"},
	"koi8-r":       {charmap.KOI8R, "KOI8", "R"},
	"koi8-u":       {charmap.KOI8U, "KOI8", "U"},
	"macintosh":    {charmap.Macintosh, "APPLE", "ROMAN"},
}

// Predefined returns the sorted names accepted by `ByName`.
func Predefined() []string {
	out := make([]string, 0, len(predefined))
	for name := range predefined {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ByName returns the predefined encoding `name` (case insensitive).
func ByName(name string) (*Encoding, error) {
	cs, ok := predefined[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q (expected one of %s)", name, strings.Join(Predefined(), ", "))
	}
	enc := FromCharmap(cs.cm)
	enc.Registry, enc.Code = cs.registry, cs.code
	return &enc, nil
}

// FromCharmap builds the encoding of a single byte character map.
// Control characters and unmapped bytes have no name.
func FromCharmap(cm *charmap.Charmap) Encoding {
	out := Encoding{Runes: make(map[rune]byte, 256)}
	for b := 0; b < 256; b++ {
		r := cm.DecodeByte(byte(b))
		if r == utf8.RuneError || isControl(r) {
			continue
		}
		out.Names[b] = GlyphName(r)
		out.Runes[r] = byte(b)
	}
	return out
}

func isControl(r rune) bool { return r < 0x20 || (0x7f <= r && r < 0xa0) }

// GlyphName returns the standard name of ASCII characters,
// and the uniXXXX form for the others.
func GlyphName(r rune) string {
	if 0x20 <= r && r < 0x7f {
		return asciiNames[r-0x20]
	}
	if r > 0xFFFF {
		return fmt.Sprintf("u%X", r)
	}
	return fmt.Sprintf("uni%04X", r)
}

var asciiNames = [...]string{
	"space", "exclam", "quotedbl", "numbersign", "dollar", "percent", "ampersand", "quotesingle",
	"parenleft", "parenright", "asterisk", "plus", "comma", "hyphen", "period", "slash",
	"zero", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "colon", "semicolon", "less", "equal", "greater", "question",
	"at", "A", "B", "C", "D", "E", "F", "G",
	"H", "I", "J", "K", "L", "M", "N", "O",
	"P", "Q", "R", "S", "T", "U", "V", "W",
	"X", "Y", "Z", "bracketleft", "backslash", "bracketright", "asciicircum", "underscore",
	"grave", "a", "b", "c", "d", "e", "f", "g",
	"h", "i", "j", "k", "l", "m", "n", "o",
	"p", "q", "r", "s", "t", "u", "v", "w",
	"x", "y", "z", "braceleft", "bar", "braceright", "asciitilde",
}
