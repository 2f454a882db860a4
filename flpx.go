// Package flpx provides round-trip access to FL Studio project files (FLP):
// a chunk-framed, event-stream binary format describing musical
// arrangements, patterns, channels, a mixer and miscellaneous project state.
//
// Package flpx only decodes structure; it does not interpret per-plugin
// parameter blobs, decode automation curves, or process audio.
package flpx

import (
	"io"
	"os"

	"github.com/mewkiz/pkg/errutil"
)

// HeaderMagic and DataMagic are the two chunk signatures present at the
// start of every FLP file.
const (
	HeaderMagic = "FLhd"
	DataMagic   = "FLdt"
)

// HeaderLength is the fixed size, in bytes, of the header chunk body that
// follows HeaderMagic and the header-length field itself.
const HeaderLength = 6

// DefaultBeatDiv is the reference pulses-per-quarter-note value used when
// writing new projects and when a project's beat division is otherwise
// unknown.
const DefaultBeatDiv = 96

// WarnFunc receives human-readable diagnostics for recoverable conditions:
// events with no handler, an unexpected header format, and channel events
// that arrive before any channel exists. It is
// the caller's responsibility to log, collect or discard these; the core
// packages never write to stderr or a logger directly.
type WarnFunc func(format string, args ...any)

// DecodeOptions configures Decode/Open. The zero value is the permissive
// default: an unexpected header format is reported through Warn rather than
// treated as fatal.
type DecodeOptions struct {
	// Warn receives non-fatal diagnostics. If nil, warnings are discarded.
	Warn WarnFunc
	// StrictHeader makes an unexpected header format field
	// (Header.Format != 0) a fatal error instead of a warning.
	StrictHeader bool
}

func (o DecodeOptions) warn(format string, args ...any) {
	if o.Warn != nil {
		o.Warn(format, args...)
	}
}

// Header describes the fixed-layout FLP header chunk.
type Header struct {
	// Format is the file format tag; 0 is the only value this codec expects.
	Format uint16
	// ChannelCount is the on-disk channel-count field. It is carried through
	// verbatim; the interpreter derives the live channel list from FLP_NewChan
	// events instead of trusting this count.
	ChannelCount uint16
	// BeatDiv is the number of ticks per quarter note (pulses per quarter).
	BeatDiv uint16
}

// Open opens the FLP file at path and decodes it with the default options.
func Open(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errutil.Err(err)
	}
	defer f.Close()
	return Decode(f, DecodeOptions{})
}

// Decode reads a complete FLP bitstream from r: the header chunk, the data
// chunk length, and the data chunk's event stream, which it lifts into a
// Project via the interpreter (see decode.go). r must be seekable so the
// declared data length can be checked against the actual remaining bytes.
func Decode(r io.ReadSeeker, opts DecodeOptions) (*Project, error) {
	hdr, body, err := readChunks(r, opts)
	if err != nil {
		return nil, err
	}
	return decodeEvents(body, hdr, opts)
}

// EncodeTo serializes p to w in the canonical event order described by
// §4.7: header chunk, then the data chunk with its length prefix patched in
// after the fact (see encode.go).
func EncodeTo(w io.Writer, p *Project) error {
	return encodeProject(w, p)
}
