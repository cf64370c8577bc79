package bitmap

import "math/bits"

// Row is one line of pixels, one bit per column.
// For a row of width w, the pixel at column x is stored in
// bit w-1-x: the leftmost pixel is the most significant bit.
type Row uint64

// MaxWidth is the widest row supported, in pixels.
const MaxWidth = 64

// lowMask returns a mask of the `length` least significant bits.
func lowMask(length int) Row {
	if length >= MaxWidth {
		return ^Row(0)
	}
	if length <= 0 {
		return 0
	}
	return 1<<uint(length) - 1
}

// shift moves the bits of r to the left by n, or to the right
// if n is negative.
func shift(r Row, n int) Row {
	if n >= 0 {
		return r << uint(n)
	}
	return r >> uint(-n)
}

// BitBounds considers the `length` least significant bits of `value` and returns
// the offsets of its leftmost and rightmost set bits, counted from the left:
// bit length-1 has offset 0 and bit 0 has offset length-1.
// `ok` is false if no bit is set, in which case the offsets are meaningless.
func BitBounds(value Row, length int) (left, right int, ok bool) {
	v := uint64(value & lowMask(length))
	if v == 0 {
		return 0, 0, false
	}
	left = bits.LeadingZeros64(v) - (64 - length)
	right = length - 1 - bits.TrailingZeros64(v)
	return left, right, true
}
