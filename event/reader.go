package event

import (
	"io"

	"github.com/mewkiz/pkg/errutil"
	"github.com/mewkiz/pkg/readerutil"

	"github.com/samboyer/flpx/internal/bits"
)

// Event is a single (id, payload) pair framed from the data chunk.
type Event struct {
	ID      ID
	Payload Payload
}

// Reader frames the event stream: given a cursor into the data chunk, it
// classifies each event by ID range, consumes the correctly-sized payload,
// and yields (id, payload) pairs. It does not interpret payload bytes.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader that frames events from r until r is
// exhausted.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next reads and returns the next event. It returns io.EOF (unwrapped) when
// the stream is exhausted cleanly, between events. A short read in the
// middle of an event's payload is a structural error, wrapped with
// errutil.Err.
func (rd *Reader) Next() (Event, error) {
	idByte, err := readerutil.ReadByte(rd.r)
	if err != nil {
		if err == io.EOF {
			return Event{}, io.EOF
		}
		return Event{}, errutil.Err(err)
	}
	id := ID(idByte)

	if id.IsText() {
		size, err := DecodeVarint(rd.r)
		if err != nil {
			return Event{}, errutil.Err(err)
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(rd.r, buf); err != nil {
			return Event{}, errutil.Err(err)
		}
		return Event{ID: id, Payload: BytesPayload(buf)}, nil
	}

	width := id.Width()
	buf := make([]byte, width)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return Event{}, errutil.Err(err)
	}
	return Event{ID: id, Payload: IntPayload(bits.ReadUintLE(buf))}, nil
}
