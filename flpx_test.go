package flpx

import (
	"bytes"
	"testing"

	"github.com/samboyer/flpx/internal/bits"
)

// buildMinimalProject returns a project with one pattern, one channel, one
// arrangement (one playlist item, one track row) and one mixer track with no
// effects, enough to drive the serializer through those sections of its
// event schedule.
func buildMinimalProject() *Project {
	p := NewProject()
	p.Header.ChannelCount = 1
	p.ProjectInfo.Set("FLP_Version", Payload{IsText: true, Bytes: []byte("20.9.1")})
	p.ProjectInfo.Set("Tempo", Payload{Int: 140})

	patName := "Pat 1"
	p.Patterns = append(p.Patterns, &Pattern{Name: &patName, Misc: Misc{}})

	ch := &Channel{Name: "Kick", Type: ChannelSampler, Misc: Misc{}}
	ch.Misc.Set("FLP_Text_SampleFileName", Payload{IsText: true, Bytes: []byte("kick.wav")})
	p.Channels = append(p.Channels, ch)

	arrName := "Arrangement 1"
	arr := &Arrangement{
		Name: &arrName,
		Misc: Misc{},
		Items: []*PlaylistItem{
			{Start: 0, Length: 192, Track: 0, ItemType: ItemPattern, ClipIndex: 0},
		},
		Tracks: []*ArrangementTrack{
			{Misc: Misc{"TrackInfo": MiscValue{List: []Payload{{IsText: true, Bytes: []byte{0, 0, 0, 0}}}}}},
		},
	}
	p.Arrangements = append(p.Arrangements, arr)

	mt := &MixerTrack{Effects: map[int]*MixerEffect{}, Misc: Misc{"MixerTrackInfo": MiscValue{List: []Payload{{IsText: true, Bytes: []byte{0, 0, 0, 0}}}}}}
	p.MixerTracks = append(p.MixerTracks, mt)

	return p
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := buildMinimalProject()

	var buf bytes.Buffer
	if err := EncodeTo(&buf, p); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()), DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got.Patterns) != 1 || got.Patterns[0].Name == nil || *got.Patterns[0].Name != "Pat 1" {
		t.Fatalf("patterns mismatch: %+v", got.Patterns)
	}
	if len(got.Channels) != 1 || got.Channels[0].Name != "Kick" {
		t.Fatalf("channels mismatch: %+v", got.Channels)
	}
	if len(got.Arrangements) != 1 || got.Arrangements[0].Name == nil || *got.Arrangements[0].Name != "Arrangement 1" {
		t.Fatalf("arrangements mismatch: %+v", got.Arrangements)
	}
	if len(got.Arrangements[0].Items) != 1 || got.Arrangements[0].Items[0].Length != 192 {
		t.Fatalf("playlist items mismatch: %+v", got.Arrangements[0].Items)
	}
	if len(got.MixerTracks) != 1 {
		t.Fatalf("mixer tracks mismatch: %+v", got.MixerTracks)
	}
	if v, ok := got.ProjectInfo.Get("Tempo"); !ok || v.Int != 140 {
		t.Fatalf("tempo mismatch: %+v", v)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	buf := bytes.NewReader([]byte("XXXX\x06\x00\x00\x00\x00\x00\x04\x00\x60\x00"))
	if _, err := Decode(buf, DecodeOptions{}); err == nil {
		t.Fatal("expected error for bad header magic")
	}
}

func TestDecodeRejectsTruncatedDataChunk(t *testing.T) {
	p := buildMinimalProject()
	var buf bytes.Buffer
	if err := EncodeTo(&buf, p); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}
	truncated := buf.Bytes()[:len(buf.Bytes())-4]
	if _, err := Decode(bytes.NewReader(truncated), DecodeOptions{}); err == nil {
		t.Fatal("expected error for truncated data chunk")
	}
}

func TestDecodeWarnsOnUnknownEvent(t *testing.T) {
	p := buildMinimalProject()
	var buf bytes.Buffer
	if err := EncodeTo(&buf, p); err != nil {
		t.Fatalf("EncodeTo: %v", err)
	}

	// Append an event with the unregistered BYTE-class id 8 (UNKNOWN_8),
	// which the interpreter has no handler for, and grow the data length.
	data := append(buf.Bytes(), 8, 0)
	dataLenOff := 4 + 4 + HeaderLength + 4
	dataLen := bits.ReadUintLE(data[dataLenOff : dataLenOff+4])
	lenBuf, err := bits.WriteUintLE(nil, dataLen+2, 4)
	if err != nil {
		t.Fatal(err)
	}
	copy(data[dataLenOff:], lenBuf)

	var warned []string
	opts := DecodeOptions{Warn: func(format string, args ...any) {
		warned = append(warned, format)
	}}
	if _, err := Decode(bytes.NewReader(data), opts); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warned) == 0 {
		t.Fatal("expected a warning for the unhandled UNKNOWN_8 event")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/path/project.flp"); err == nil {
		t.Fatal("expected error opening a missing file")
	}
}
