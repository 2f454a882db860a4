package bits_test

import (
	"testing"

	"github.com/samboyer/flpx/internal/bits"
)

func TestReadWriteUintLERoundTrip(t *testing.T) {
	cases := []struct {
		n int
		x uint64
	}{
		{1, 0},
		{1, 0xFF},
		{2, 300},
		{2, bits.MaxUint2},
		{4, 0},
		{4, bits.MaxUint4},
	}
	for _, c := range cases {
		buf, err := bits.WriteUintLE(nil, c.x, c.n)
		if err != nil {
			t.Fatalf("WriteUintLE(%d, %d): %v", c.x, c.n, err)
		}
		if len(buf) != c.n {
			t.Fatalf("WriteUintLE(%d, %d): got %d bytes, want %d", c.x, c.n, len(buf), c.n)
		}
		got := bits.ReadUintLE(buf)
		if got != c.x {
			t.Fatalf("round-trip mismatch: got %d, want %d", got, c.x)
		}
	}
}

func TestWriteUintLEOutOfRange(t *testing.T) {
	if _, err := bits.WriteUintLE(nil, 256, 1); err == nil {
		t.Fatal("expected error for 256 in 1 byte")
	}
	if _, err := bits.WriteUintLE(nil, 1<<16, 2); err == nil {
		t.Fatal("expected error for 65536 in 2 bytes")
	}
}
