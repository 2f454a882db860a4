package flpx

// Misc carries event payloads this codec doesn't give first-class
// structure to, keyed by symbolic event name. Each value is a MiscValue
// holding one payload, or several payloads from repeated events (such as a
// channel's per-ADSR-target envelope parameters).
type Misc map[string]MiscValue

// MiscValue holds the payloads stored under one event name; each is either
// an integer (events with ID < 192) or raw bytes (TEXT events).
type MiscValue struct {
	// List holds every payload recorded under this event name, in arrival
	// order. A non-repeating event has exactly one element.
	List []Payload
}

// Payload is the in-memory counterpart of event.Payload: an integer or a
// byte sequence, never both.
type Payload struct {
	IsText bool
	Int    uint64
	Bytes  []byte
}

// Set overwrites any existing value for name with a single payload
// (non-repeating event semantics).
func (m Misc) Set(name string, p Payload) {
	m[name] = MiscValue{List: []Payload{p}}
}

// Append adds p to the list stored under name, for events that legitimately
// repeat for the same entity.
func (m Misc) Append(name string, p Payload) {
	v := m[name]
	v.List = append(v.List, p)
	m[name] = v
}

// Get returns the first payload stored under name. ok is false if name has
// no entry.
func (m Misc) Get(name string) (Payload, bool) {
	v, ok := m[name]
	if !ok || len(v.List) == 0 {
		return Payload{}, false
	}
	return v.List[0], true
}

// ChannelType identifies what kind of generator a Channel represents.
type ChannelType uint32

// Channel type tags, as carried by the FLP_ChanType event.
const (
	ChannelSampler        ChannelType = 0
	ChannelGenerator      ChannelType = 2
	ChannelAudioClip      ChannelType = 4
	ChannelAutomationClip ChannelType = 5
)

// ItemType distinguishes what a PlaylistItem places on the timeline.
type ItemType int

// Playlist item kinds.
const (
	ItemPattern ItemType = iota
	ItemChannel
)

// Project is the root of the in-memory model lifted from an FLP event
// stream by the interpreter (decode.go) and lowered back to events by the
// serializer (encode.go).
type Project struct {
	// Header carries the fixed-layout file header fields.
	Header Header

	// ProjectInfo maps project-level event names (version, tempo, window
	// layout, loop flags, ...) to their payload. Keys and value kinds are
	// dictated by the fixed write schedule in encode.go.
	ProjectInfo Misc

	Arrangements        []*Arrangement
	Channels            []*Channel
	Patterns            []*Pattern
	ChannelFilterGroups []*ChannelFilterGroup
	MixerTracks         []*MixerTrack
}

// NewProject returns an empty Project with sane header defaults (format 0,
// DefaultBeatDiv ticks per quarter note).
func NewProject() *Project {
	return &Project{
		Header:      Header{Format: 0, BeatDiv: DefaultBeatDiv},
		ProjectInfo: Misc{},
	}
}

// Arrangement is one playlist: an ordered timeline of placed clips plus the
// track rows they sit on.
type Arrangement struct {
	// Name is nil if the arrangement has never been named; callers should
	// then display "Arrangement <i>".
	Name  *string
	Items []*PlaylistItem
	Tracks []*ArrangementTrack
	Misc  Misc
}

// PlaylistItem is one placed clip in an arrangement's playlist, decoded from
// a fixed 32-byte on-disk record (see playlistitem.go).
type PlaylistItem struct {
	Start     uint32
	Length    uint32
	Track     uint32
	ClipStart uint32
	ClipEnd   uint32
	Muted     bool
	Selected  bool
	ItemType  ItemType
	ClipIndex uint32

	// Misc4_6 preserves raw bytes 4-5 of the on-disk record verbatim.
	Misc4_6 [2]byte
	// Misc preserves raw bytes 16-23 of the on-disk record verbatim
	// (including the muted/selected bits, which Muted/Selected mirror).
	Misc [8]byte
}

// ArrangementTrack is one track row (a "y coordinate") in an arrangement's
// playlist.
type ArrangementTrack struct {
	Name *string
	Misc Misc
}

// Pattern is a reusable clip of notes placeable on the playlist. Identity is
// the pattern's insertion index (0-based in memory; 1-based on disk).
type Pattern struct {
	Name *string
	Misc Misc
}

// Channel is a generator: an instrument, audio clip, or automation clip.
type Channel struct {
	Name string
	Type ChannelType
	// Data holds the raw automation-clip body for ChannelAutomationClip
	// channels; nil for every other channel type. Its contents are opaque
	// (see spec.md §9: AutomationClipData is never decoded).
	Data []byte
	Misc Misc
}

// MixerTrack is a signal-processing lane (an "insert") with up to
// MixerSlotCount effect slots.
type MixerTrack struct {
	Name *string
	// Effects is keyed by 0-based slot index.
	Effects map[int]*MixerEffect
	Misc    Misc
}

// MixerSlotCount is the fixed number of effect slots on every mixer track.
const MixerSlotCount = 10

// MixerEffect is one loaded plugin in a mixer track's effect chain.
type MixerEffect struct {
	Name string
	Misc Misc
}

// ChannelFilterGroup is a named bucket channels can be grouped under in the
// channel rack.
type ChannelFilterGroup struct {
	Name string
}
