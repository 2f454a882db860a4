package event

import (
	"fmt"
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"

	"github.com/samboyer/flpx/internal/bits"
)

// Writer is the inverse of Reader: it emits events with the payload width
// determined by the ID's size class. All output goes through bw, the single
// bit-level sink, so byte order is never at the mercy of two writers racing
// over the same underlying stream.
type Writer struct {
	bw *bitio.Writer
}

// NewWriter returns a Writer that emits events to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bitio.NewWriter(w)}
}

// WriteInt emits a non-TEXT event: the id byte followed by x encoded as a
// little-endian integer of the width implied by id's size class. It returns
// an error if x does not fit in that width (or if id is a TEXT id).
func (wr *Writer) WriteInt(id ID, x uint64) error {
	width := id.Width()
	if width < 0 {
		return fmt.Errorf("event.Writer.WriteInt: id %d (%s) is a TEXT event", id, Name(id))
	}
	if err := wr.bw.WriteByte(byte(id)); err != nil {
		return errutil.Err(err)
	}
	buf, err := bits.WriteUintLE(nil, x, width)
	if err != nil {
		return errutil.Err(err)
	}
	if _, err := wr.bw.Write(buf); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// WriteText emits a TEXT event: the id byte, the varint-encoded length of
// data, then data itself.
func (wr *Writer) WriteText(id ID, data []byte) error {
	if !id.IsText() {
		return fmt.Errorf("event.Writer.WriteText: id %d (%s) is not a TEXT event", id, Name(id))
	}
	if err := wr.bw.WriteByte(byte(id)); err != nil {
		return errutil.Err(err)
	}
	if err := EncodeVarint(wr.bw, uint64(len(data))); err != nil {
		return err
	}
	if _, err := wr.bw.Write(data); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// WritePayload emits p under id, dispatching to WriteInt or WriteText based
// on p's variant.
func (wr *Writer) WritePayload(id ID, p Payload) error {
	if p.IsText() {
		return wr.WriteText(id, p.Bytes())
	}
	return wr.WriteInt(id, p.Int())
}

// Close flushes any partial byte pending in the underlying bit writer. Every
// write made through Writer is byte-aligned, so this is a formality rather
// than a requirement, but callers should call it once they're done writing.
func (wr *Writer) Close() error {
	return wr.bw.Close()
}
