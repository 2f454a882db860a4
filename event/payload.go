package event

// Payload is the tagged union carried by a single event: every non-TEXT
// event (id < 192) carries an integer, every TEXT event (id >= 192) carries
// raw bytes. Exactly one of the two accessors is meaningful for a given
// Payload; which one is determined by the ID it was read for.
type Payload struct {
	isText bool
	i      uint64
	b      []byte
}

// IntPayload wraps an integer payload (for non-TEXT events).
func IntPayload(x uint64) Payload {
	return Payload{i: x}
}

// BytesPayload wraps a raw byte payload (for TEXT events).
func BytesPayload(b []byte) Payload {
	return Payload{isText: true, b: b}
}

// IsText reports whether this payload holds raw bytes rather than an
// integer.
func (p Payload) IsText() bool { return p.isText }

// Int returns the integer value of a non-TEXT payload. It returns 0 if the
// payload is a TEXT payload.
func (p Payload) Int() uint64 { return p.i }

// Bytes returns the raw bytes of a TEXT payload. It returns nil if the
// payload is a non-TEXT payload.
func (p Payload) Bytes() []byte { return p.b }
