package u8g

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

const valuesPerLine = 16

// Identifier turns `name` into a valid C identifier.
func Identifier(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// WriteSource writes `data` as a C constant array named `name`:
//
//	const uint8_t name[n] = {
//	  0,8,8,...,
//	  ...
//	};
func WriteSource(w io.Writer, name string, data []byte) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "const uint8_t %s[%d] = {\n", Identifier(name), len(data))
	for start := 0; start < len(data); start += valuesPerLine {
		end := min(start+valuesPerLine, len(data))
		values := make([]string, 0, valuesPerLine)
		for _, b := range data[start:end] {
			values = append(values, fmt.Sprint(b))
		}
		line := "  " + strings.Join(values, ",")
		if end < len(data) {
			line += ","
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, "};")
	return out.Flush()
}
