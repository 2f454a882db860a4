package flpx

import (
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/mewkiz/pkg/errutil"

	"github.com/samboyer/flpx/event"
	"github.com/samboyer/flpx/internal/bits"
	"github.com/samboyer/flpx/internal/bufseekio"
)

// readChunks verifies the header and data chunk framing and returns the
// parsed Header plus a reader limited to exactly the data chunk's declared
// length.
func readChunks(r io.ReadSeeker, opts DecodeOptions) (Header, io.Reader, error) {
	rs := bufseekio.NewReadSeeker(r)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(rs, magic); err != nil {
		return Header{}, nil, errutil.Err(err)
	}
	if string(magic) != HeaderMagic {
		return Header{}, nil, fmt.Errorf("flpx.Decode: invalid header magic %q, want %q", magic, HeaderMagic)
	}

	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(rs, lenBuf); err != nil {
		return Header{}, nil, errutil.Err(err)
	}
	if headerLen := bits.ReadUintLE(lenBuf); headerLen != HeaderLength {
		return Header{}, nil, fmt.Errorf("flpx.Decode: invalid header length %d, want %d", headerLen, HeaderLength)
	}

	rest := make([]byte, HeaderLength)
	if _, err := io.ReadFull(rs, rest); err != nil {
		return Header{}, nil, errutil.Err(err)
	}
	hdr := Header{
		Format:       uint16(bits.ReadUintLE(rest[0:2])),
		ChannelCount: uint16(bits.ReadUintLE(rest[2:4])),
		BeatDiv:      uint16(bits.ReadUintLE(rest[4:6])),
	}
	if hdr.Format != 0 {
		if opts.StrictHeader {
			return Header{}, nil, fmt.Errorf("flpx.Decode: header format %d, want 0", hdr.Format)
		}
		opts.warn("header format %d, want 0", hdr.Format)
	}

	dataMagic := make([]byte, 4)
	if _, err := io.ReadFull(rs, dataMagic); err != nil {
		return Header{}, nil, errutil.Err(err)
	}
	if string(dataMagic) != DataMagic {
		return Header{}, nil, fmt.Errorf("flpx.Decode: invalid data chunk magic %q, want %q", dataMagic, DataMagic)
	}

	dataLenBuf := make([]byte, 4)
	if _, err := io.ReadFull(rs, dataLenBuf); err != nil {
		return Header{}, nil, errutil.Err(err)
	}
	dataLength := bits.ReadUintLE(dataLenBuf)

	if remaining, err := remainingBytes(rs); err == nil && remaining != int64(dataLength) {
		return Header{}, nil, fmt.Errorf("flpx.Decode: file truncated: data length field says %d bytes remain, actually %d", dataLength, remaining)
	}

	return hdr, io.LimitReader(rs, int64(dataLength)), nil
}

// remainingBytes returns the number of bytes left to read in rs, using Seek
// to measure distance to the end without disturbing the current position.
func remainingBytes(rs io.Seeker) (int64, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end - cur, nil
}

// ctx is the interpreter's mutable state: which entity each event currently
// targets. All indices are -1 until the corresponding constructor event has
// fired.
type ctx struct {
	project *Project

	currentArrangement          int
	currentArrangementTrack     int
	currentPattern              int
	currentChannel              int
	currentMixerTrack           int
	currentMixerTrackEffectSlot int
	isMixerEffect               bool

	// pendingAutomationClipData holds AutomationClipData payloads seen
	// before their owning channel was constructed, in arrival order.
	pendingAutomationClipData [][]byte
}

func newCtx() *ctx {
	return &ctx{
		project:                  NewProject(),
		currentArrangement:       -1,
		currentArrangementTrack:  -1,
		currentPattern:           -1,
		currentChannel:           -1,
		currentMixerTrack:        -1,
		currentMixerTrackEffectSlot: -1,
	}
}

// decodeEvents runs the event-driven state machine over body, building the
// project model. It is the parse-side counterpart of encodeProject.
func decodeEvents(body io.Reader, hdr Header, opts DecodeOptions) (*Project, error) {
	c := newCtx()
	c.project.Header = hdr

	r := event.NewReader(body)
	// body is the LimitedReader from readChunks; its remaining count gives
	// each event's byte offset within the data chunk.
	lr, _ := body.(*io.LimitedReader)
	var total int64
	if lr != nil {
		total = lr.N
	}
	for {
		var off int64
		if lr != nil {
			off = total - lr.N
		}
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errutil.Err(err)
		}
		if err := dispatch(c, ev, opts); err != nil {
			return nil, fmt.Errorf("flpx: event %s (id %d) at data offset %d: %w", event.Name(ev.ID), ev.ID, off, err)
		}
	}
	return c.project, nil
}

// toModelPayload converts an event.Payload (the wire-level tagged union)
// into the model-level Payload stored in Misc maps.
func toModelPayload(p event.Payload) Payload {
	if p.IsText() {
		return Payload{IsText: true, Bytes: p.Bytes()}
	}
	return Payload{Int: p.Int()}
}

// decodeUTF16LE decodes a little-endian UTF-16 byte string as stored in TEXT
// events, dropping a trailing NUL terminator if present.
func decodeUTF16LE(b []byte) string {
	if len(b) >= 2 && b[len(b)-2] == 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-2]
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return string(utf16.Decode(units))
}

// dispatch routes one event to its handler, following the category rules in
// spec.md §4.6. Event names absent from the switch are schema-unknown:
// warned about and otherwise ignored.
func dispatch(c *ctx, ev event.Event, opts DecodeOptions) error {
	name := event.Name(ev.ID)
	p := c.project

	switch name {
	// --- constructors ---
	case "FLP_NewChan":
		c.currentChannel = int(ev.Payload.Int())
		c.isMixerEffect = false
		for c.currentChannel >= len(p.Channels) {
			p.Channels = append(p.Channels, &Channel{Misc: Misc{}})
		}
		return nil
	case "FLP_NewPat":
		c.currentPattern = int(ev.Payload.Int()) - 1
		for c.currentPattern >= len(p.Patterns) {
			p.Patterns = append(p.Patterns, &Pattern{Misc: Misc{}})
		}
		return nil
	case "ArrangementIndex":
		c.currentArrangement = len(p.Arrangements)
		p.Arrangements = append(p.Arrangements, &Arrangement{Misc: Misc{}})
		return nil
	case "MixerTrackInfo":
		c.currentMixerTrack = len(p.MixerTracks)
		p.MixerTracks = append(p.MixerTracks, &MixerTrack{
			Effects: map[int]*MixerEffect{},
			Misc:    Misc{name: MiscValue{List: []Payload{toModelPayload(ev.Payload)}}},
		})
		return nil
	case "TrackInfo":
		arr := p.Arrangements[c.currentArrangement]
		c.currentArrangementTrack = len(arr.Tracks)
		arr.Tracks = append(arr.Tracks, &ArrangementTrack{
			Misc: Misc{name: MiscValue{List: []Payload{toModelPayload(ev.Payload)}}},
		})
		return nil
	case "ChannelFilterGroupName":
		p.ChannelFilterGroups = append(p.ChannelFilterGroups, &ChannelFilterGroup{
			Name: decodeUTF16LE(ev.Payload.Bytes()),
		})
		return nil
	case "SlotIndex":
		c.currentMixerTrackEffectSlot = int(ev.Payload.Int())
		c.isMixerEffect = true
		return nil

	// --- name setters ---
	case "FLP_Text_PatName":
		s := decodeUTF16LE(ev.Payload.Bytes())
		p.Patterns[c.currentPattern].Name = &s
		return nil
	case "ChannelName":
		s := decodeUTF16LE(ev.Payload.Bytes())
		if c.isMixerEffect {
			p.MixerTracks[c.currentMixerTrack].effect(c.currentMixerTrackEffectSlot).Name = s
		} else {
			p.Channels[c.currentChannel].Name = s
		}
		return nil
	case "ArrangementName":
		s := decodeUTF16LE(ev.Payload.Bytes())
		p.Arrangements[c.currentArrangement].Name = &s
		return nil
	case "TrackName":
		s := decodeUTF16LE(ev.Payload.Bytes())
		p.Arrangements[c.currentArrangement].Tracks[c.currentArrangementTrack].Name = &s
		return nil
	case "InsertName":
		s := decodeUTF16LE(ev.Payload.Bytes())
		p.MixerTracks[c.currentMixerTrack].Name = &s
		return nil

	// --- structured decoder ---
	case "PlaylistData":
		raw := ev.Payload.Bytes()
		if len(raw)%PlaylistItemSize != 0 {
			return fmt.Errorf("PlaylistData payload length %d is not a multiple of %d", len(raw), PlaylistItemSize)
		}
		arr := p.Arrangements[c.currentArrangement]
		for off := 0; off < len(raw); off += PlaylistItemSize {
			item, err := DecodePlaylistItem(raw[off : off+PlaylistItemSize])
			if err != nil {
				return err
			}
			arr.Items = append(arr.Items, item)
		}
		return nil

	// --- append-mode generics ---
	case "ChannelEnvelopeParams":
		p.Channels[c.currentChannel].Misc.Append(name, toModelPayload(ev.Payload))
		return nil

	// --- context-aware generics: channel or mixer effect ---
	case "FLP_Color", "FLP_Text_PluginName", "FLP_NewPlugin", "FLP_PluginParams", "UNKNOWN_155":
		if c.isMixerEffect {
			p.MixerTracks[c.currentMixerTrack].effect(c.currentMixerTrackEffectSlot).Misc.Set(name, toModelPayload(ev.Payload))
		} else {
			p.Channels[c.currentChannel].Misc.Set(name, toModelPayload(ev.Payload))
		}
		return nil

	// --- opaque pass-through ---
	//
	// The write schedule (§4.7 step 7) emits every automation-clip channel's
	// AutomationClipData before any channel's FLP_NewChan constructor, so
	// this can't be resolved against the current-channel context; instead
	// it is queued and claimed in order once the channel's FLP_ChanType
	// event confirms it is an automation clip (below).
	case "AutomationClipData":
		c.pendingAutomationClipData = append(c.pendingAutomationClipData, ev.Payload.Bytes())
		return nil

	// --- per-pattern generics ---
	case "PatternAutomationData", "PatternData":
		p.Patterns[c.currentPattern].Misc.Set(name, toModelPayload(ev.Payload))
		return nil

	// --- per-arrangement generics ---
	case "UNKNOWN_36":
		p.Arrangements[c.currentArrangement].Misc.Set(name, toModelPayload(ev.Payload))
		return nil

	// --- per-mixer-track generics ---
	case "InsertAudioOutputTarget", "InsertAudioInputSource", "MixerTrackRouting",
		"MixerTrackColor", "MixerTrackIcon":
		p.MixerTracks[c.currentMixerTrack].Misc.Set(name, toModelPayload(ev.Payload))
		return nil

	// --- per-project generics ---
	case "FLP_ShowInfo", "FLP_Shuffle", "FLP_PatLength", "FLP_BlockLength",
		"FLP_CurrentPatNum", "FLP_MainPitch", "FLP_WindowH", "FLP_Text_Title",
		"FLP_Text_Comment", "FLP_Text_URL", "FLP_Text_CommentRTF", "FLP_Version",
		"IsPerformanceMode", "CurrentArrangement", "CurrentChannelFilterGroup",
		"Tempo", "ProjectInfoGenre", "ProjectInfoAuthor", "FLP_Version_Minor",
		"FLP_LoopActive",
		"UNKNOWN_28", "UNKNOWN_37", "UNKNOWN_200", "UNKNOWN_35", "UNKNOWN_23",
		"UNKNOWN_30", "UNKNOWN_202", "UNKNOWN_237", "UNKNOWN_216", "UNKNOWN_29",
		"UNKNOWN_39", "UNKNOWN_40", "UNKNOWN_38", "UNKNOWN_225",
		"NBeatDiv":
		p.ProjectInfo.Set(name, toModelPayload(ev.Payload))
		return nil

	// UNKNOWN_226 repeats (observed emitted three times in a row for one
	// project), unlike its project-global neighbors above.
	case "UNKNOWN_226":
		p.ProjectInfo.Append(name, toModelPayload(ev.Payload))
		return nil

	case "FLP_ChanType":
		if c.currentChannel < 0 {
			opts.warn("event %s with no current channel", name)
			return nil
		}
		ch := p.Channels[c.currentChannel]
		ch.Type = ChannelType(ev.Payload.Int())
		if ch.Type == ChannelAutomationClip && len(c.pendingAutomationClipData) > 0 {
			ch.Data = c.pendingAutomationClipData[0]
			c.pendingAutomationClipData = c.pendingAutomationClipData[1:]
		}
		return nil

	// --- per-channel generics ---
	case "FLP_Enabled", "FLP_LoopType", "FLP_MixSliceNum",
		"FLP_FX", "FLP_Text_SampleFileName", "FLP_Fade_Stereo", "FLP_CutOff",
		"FLP_PreAmp", "FLP_Decay", "FLP_Attack", "FLP_Resonance", "FLP_StDel",
		"FLP_FX3", "FLP_ShiftDelay", "FLP_FXSine", "FLP_CutCutBy", "FLP_Reverb",
		"FLP_IntStretch", "FLP_SSNote", "FLP_Delay", "FLP_ChanParams",
		"ChannelParams", "ChannelFilterGroup",
		"UNKNOWN_32", "UNKNOWN_97", "UNKNOWN_143", "UNKNOWN_144", "UNKNOWN_221",
		"UNKNOWN_229", "UNKNOWN_234", "UNKNOWN_150", "UNKNOWN_157", "UNKNOWN_158",
		"UNKNOWN_164", "UNKNOWN_142":
		if c.currentChannel < 0 {
			opts.warn("event %s with no current channel", name)
			return nil
		}
		p.Channels[c.currentChannel].Misc.Set(name, toModelPayload(ev.Payload))
		return nil
	case "UNKNOWN_228":
		p.Channels[c.currentChannel].Misc.Append(name, toModelPayload(ev.Payload))
		return nil

	default:
		opts.warn("no handler for event %s (id %d); ignoring", name, ev.ID)
		return nil
	}
}

// effect returns the MixerEffect at slot, allocating it on first reference
// (mirrors the Python original's defaultdict-style lazy creation).
func (mt *MixerTrack) effect(slot int) *MixerEffect {
	e, ok := mt.Effects[slot]
	if !ok {
		e = &MixerEffect{Misc: Misc{}}
		mt.Effects[slot] = e
	}
	return e
}

