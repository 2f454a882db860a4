package event_test

import (
	"bytes"
	"testing"

	"github.com/icza/bitio"

	"github.com/samboyer/flpx/event"
)

func TestVarintBoundaryExamples(t *testing.T) {
	var buf bytes.Buffer
	bw := bitio.NewWriter(&buf)
	if err := event.EncodeVarint(bw, 0); err != nil {
		t.Fatal(err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, []byte{0x00}) {
		t.Fatalf("encode(0) = %v, want [0x00]", got)
	}

	buf.Reset()
	bw = bitio.NewWriter(&buf)
	if err := event.EncodeVarint(bw, 300); err != nil {
		t.Fatal(err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, []byte{0xAC, 0x02}) {
		t.Fatalf("encode(300) = %v, want [0xAC, 0x02]", got)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16384, 1 << 20, 1 << 40, ^uint64(0)}
	for _, v := range values {
		var buf bytes.Buffer
		bw := bitio.NewWriter(&buf)
		if err := event.EncodeVarint(bw, v); err != nil {
			t.Fatalf("encode(%d): %v", v, err)
		}
		if err := bw.Close(); err != nil {
			t.Fatalf("close after encode(%d): %v", v, err)
		}
		got, err := event.DecodeVarint(&buf)
		if err != nil {
			t.Fatalf("decode after encode(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round-trip(%d) = %d", v, got)
		}
	}
}
