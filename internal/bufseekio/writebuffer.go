package bufseekio

import (
	"bytes"
	"errors"
	"io"
)

// WriteBuffer accumulates written bytes in memory and exposes io.WriteSeeker,
// letting a caller reserve space for a length prefix and patch it in later
// without requiring the final destination to support seeking.
//
// The serializer (encodeProject) builds the data chunk in a WriteBuffer,
// reads its size with Len, writes the header carrying that length to the
// real sink, and then copies the buffer there with Flush; it does not Seek.
type WriteBuffer struct {
	buf []byte
	pos int
}

// NewWriteBuffer returns an empty WriteBuffer.
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{}
}

// Write appends p at the current position, overwriting any existing bytes
// there and growing the buffer as needed, then advances the position.
func (w *WriteBuffer) Write(p []byte) (n int, err error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		grown := make([]byte, end)
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

// Seek repositions the write cursor. Only io.SeekStart and io.SeekCurrent
// are supported, which is all the serializer's length-patching needs.
func (w *WriteBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		w.pos = int(offset)
	case io.SeekCurrent:
		w.pos += int(offset)
	default:
		return 0, errUnsupportedWhence
	}
	return int64(w.pos), nil
}

var errUnsupportedWhence = errors.New("bufseekio: WriteBuffer supports only SeekStart and SeekCurrent")

// Len returns the number of bytes written so far (the high-water mark, not
// the current cursor position).
func (w *WriteBuffer) Len() int { return len(w.buf) }

// Flush copies the accumulated bytes to dst in a single write.
func (w *WriteBuffer) Flush(dst io.Writer) error {
	_, err := io.Copy(dst, bytes.NewReader(w.buf))
	return err
}
