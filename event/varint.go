package event

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
	"github.com/mewkiz/pkg/readerutil"
)

// The TEXT payload size precedes the payload itself and is encoded as a
// little-endian base-128 varint: each byte carries 7 value bits in its low
// bits, with the high bit set on every byte except the last.
const (
	continuationBit = 0x80
	valueBits       = 0x7F
	groupWidth      = 7
)

// EncodeVarint encodes x as a TEXT-size varint and writes it to bw.
//
// Examples of x on the left and the encoded bytes on the right:
//
//	0   => [0x00]
//	300 => [0xAC, 0x02]
func EncodeVarint(bw *bitio.Writer, x uint64) error {
	for {
		b := byte(x & valueBits)
		x >>= groupWidth
		if x != 0 {
			b |= continuationBit
		}
		if err := bw.WriteByte(b); err != nil {
			return errutil.Err(err)
		}
		if x == 0 {
			return nil
		}
	}
}

// DecodeVarint reads a TEXT-size varint from r and returns the decoded
// value.
func DecodeVarint(r io.Reader) (uint64, error) {
	var x uint64
	var shift uint
	for {
		b, err := readerutil.ReadByte(r)
		if err != nil {
			return 0, errutil.Err(err)
		}
		x |= uint64(b&valueBits) << shift
		if b&continuationBit == 0 {
			return x, nil
		}
		shift += groupWidth
	}
}
