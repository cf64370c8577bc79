package bitmap

import "testing"

func TestBitBounds(t *testing.T) {
	for _, test := range []struct {
		value       Row
		length      int
		left, right int
		ok          bool
	}{
		{0b1000, 4, 0, 0, true},
		{0b0110, 4, 1, 2, true},
		{0b0001, 4, 3, 3, true},
		{0b1001, 4, 0, 3, true},
		{0b10001, 4, 3, 3, true}, // bit 4 is outside the row
		{0, 8, 0, 0, false},
		{0xF0, 8, 0, 3, true},
		{1 << 63, 64, 0, 0, true},
		{1, 64, 63, 63, true},
		{^Row(0), 64, 0, 63, true},
	} {
		left, right, ok := BitBounds(test.value, test.length)
		if ok != test.ok {
			t.Errorf("%b (%d bits): expected ok=%v, got %v", test.value, test.length, test.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if left != test.left || right != test.right {
			t.Errorf("%b (%d bits): expected (%d, %d), got (%d, %d)",
				test.value, test.length, test.left, test.right, left, right)
		}
	}
}

func TestShift(t *testing.T) {
	if s := shift(0b1, 3); s != 0b1000 {
		t.Errorf("expected 0b1000, got %b", s)
	}
	if s := shift(0b1000, -3); s != 0b1 {
		t.Errorf("expected 0b1, got %b", s)
	}
	if m := lowMask(64); m != ^Row(0) {
		t.Errorf("unexpected mask %b", m)
	}
	if m := lowMask(0); m != 0 {
		t.Errorf("unexpected mask %b", m)
	}
}

func BenchmarkBitBounds(b *testing.B) {
	for i := 0; i < b.N; i++ {
		BitBounds(Row(i)<<7, 64)
	}
}
