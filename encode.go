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

// preludeOrder is the fixed ID order of the project prelude globals, emitted
// immediately after the header (§4.7 step 2).
var preludeOrder = []event.ID{
	199, 159, 28, 37, 200, 156, 67, 9, 11, 80, 17, 18, 35, 23, 30, 10,
	194, 206, 207, 202, 195, 197, 237,
}

// midGlobalsOrder is the globals emitted between the arrangement and mixer
// sections (§4.7 step 10).
var midGlobalsOrder = []event.ID{100, 29, 39, 40, 31, 38}

// tailGlobalsOrder is the globals emitted after the mixer section (§4.7 step 12).
var tailGlobalsOrder = []event.ID{225, 133}

// channelMiscOrder fixes the emission order of a channel's miscellaneous
// events, so output is deterministic across runs. It mirrors the dispatch
// order used by the interpreter's per-channel generics (see decode.go).
var channelMiscOrder = []string{
	"FLP_Enabled", "FLP_LoopType", "FLP_MixSliceNum", "FLP_FX",
	"FLP_Text_SampleFileName", "FLP_Fade_Stereo", "FLP_CutOff", "FLP_PreAmp",
	"FLP_Decay", "FLP_Attack", "FLP_Resonance", "FLP_StDel", "FLP_FX3",
	"FLP_ShiftDelay", "FLP_FXSine", "FLP_CutCutBy", "FLP_Reverb",
	"FLP_IntStretch", "FLP_SSNote", "FLP_Delay", "FLP_ChanParams",
	"ChannelParams", "ChannelFilterGroup",
	"UNKNOWN_32", "UNKNOWN_97", "UNKNOWN_143", "UNKNOWN_144", "UNKNOWN_221",
	"UNKNOWN_229", "UNKNOWN_234", "UNKNOWN_150", "UNKNOWN_157", "UNKNOWN_158",
	"UNKNOWN_164", "UNKNOWN_142", "UNKNOWN_228",
	"ChannelEnvelopeParams",
}

// effectMiscOrder fixes the emission order of a mixer effect's miscellaneous
// events, mirroring the context-aware generics handled when isMixerEffect is
// true.
var effectMiscOrder = []string{
	"FLP_Color", "FLP_PluginParams", "UNKNOWN_155",
}

// patternMiscOrder fixes the emission order of a pattern's miscellaneous
// events.
var patternMiscOrder = []string{"PatternAutomationData", "PatternData"}

// mixerTrackPostambleOrder fixes the per-mixer-track generics emitted after
// all ten effect slots (§4.7 step 11, "track postamble").
var mixerTrackPostambleOrder = []string{
	"MixerTrackRouting", "InsertAudioInputSource", "InsertAudioOutputTarget",
	"MixerTrackColor", "MixerTrackIcon",
}

// encodeProject writes p to w in the canonical event order described by
// §4.7. The data chunk is accumulated in a WriteBuffer so its length can be
// patched into the header regardless of whether w itself is seekable.
func encodeProject(w io.Writer, p *Project) error {
	wb := bufseekio.NewWriteBuffer()
	ew := event.NewWriter(wb)
	if err := writeBody(ew, p); err != nil {
		return err
	}
	if err := ew.Close(); err != nil {
		return errutil.Err(err)
	}

	if err := writeHeader(w, p.Header, uint32(wb.Len())); err != nil {
		return err
	}
	if err := wb.Flush(w); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// EncodeToSeeker writes p to a seekable sink, computing the data length by
// seeking back to the reserved length field instead of buffering the whole
// data chunk in memory.
func EncodeToSeeker(w io.WriteSeeker, p *Project) error {
	if _, err := w.Write([]byte(HeaderMagic)); err != nil {
		return errutil.Err(err)
	}
	lenBuf, err := bits.WriteUintLE(nil, HeaderLength, 4)
	if err != nil {
		return err
	}
	if _, err := w.Write(lenBuf); err != nil {
		return errutil.Err(err)
	}
	if err := writeHeaderBody(w, p.Header); err != nil {
		return err
	}
	if _, err := w.Write([]byte(DataMagic)); err != nil {
		return errutil.Err(err)
	}

	lengthFieldPos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errutil.Err(err)
	}
	placeholder, err := bits.WriteUintLE(nil, 0, 4)
	if err != nil {
		return err
	}
	if _, err := w.Write(placeholder); err != nil {
		return errutil.Err(err)
	}

	dataStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errutil.Err(err)
	}
	ew := event.NewWriter(w)
	if err := writeBody(ew, p); err != nil {
		return err
	}
	if err := ew.Close(); err != nil {
		return errutil.Err(err)
	}
	dataEnd, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return errutil.Err(err)
	}

	actual, err := bits.WriteUintLE(nil, uint64(dataEnd-dataStart), 4)
	if err != nil {
		return err
	}
	if _, err := w.Seek(lengthFieldPos, io.SeekStart); err != nil {
		return errutil.Err(err)
	}
	if _, err := w.Write(actual); err != nil {
		return errutil.Err(err)
	}
	if _, err := w.Seek(dataEnd, io.SeekStart); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// writeHeaderBody writes the 6-byte format/channel-count/beat-div fields.
func writeHeaderBody(w io.Writer, hdr Header) error {
	body := make([]byte, 0, HeaderLength)
	for _, field := range []uint64{uint64(hdr.Format), uint64(hdr.ChannelCount), uint64(hdr.BeatDiv)} {
		b, err := bits.WriteUintLE(nil, field, 2)
		if err != nil {
			return err
		}
		body = append(body, b...)
	}
	if _, err := w.Write(body); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// writeHeader writes the full header chunk and data-chunk preamble
// (magic + known length) to w.
func writeHeader(w io.Writer, hdr Header, dataLength uint32) error {
	if _, err := w.Write([]byte(HeaderMagic)); err != nil {
		return errutil.Err(err)
	}
	lenBuf, err := bits.WriteUintLE(nil, HeaderLength, 4)
	if err != nil {
		return err
	}
	if _, err := w.Write(lenBuf); err != nil {
		return errutil.Err(err)
	}
	if err := writeHeaderBody(w, hdr); err != nil {
		return err
	}
	if _, err := w.Write([]byte(DataMagic)); err != nil {
		return errutil.Err(err)
	}
	dataLenBuf, err := bits.WriteUintLE(nil, uint64(dataLength), 4)
	if err != nil {
		return err
	}
	if _, err := w.Write(dataLenBuf); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// encodeUTF16LE encodes s as raw little-endian UTF-16 bytes, with no BOM and
// no trailing NUL (decodeUTF16LE tolerates either form on read).
func encodeUTF16LE(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 2*len(units))
	for i, u := range units {
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out
}

// writeMisc emits v's stored payloads under id in arrival order (one event
// per list element).
func writeMisc(ew *event.Writer, id event.ID, v MiscValue) error {
	for _, p := range v.List {
		if p.IsText {
			if err := ew.WriteText(id, p.Bytes); err != nil {
				return err
			}
			continue
		}
		if err := ew.WriteInt(id, p.Int); err != nil {
			return err
		}
	}
	return nil
}

// writeMiscNamed looks up name in m and writes it (if present) under its
// registered ID, used for the fixed misc-order lists above.
func writeMiscNamed(ew *event.Writer, m Misc, name string) error {
	v, ok := m[name]
	if !ok {
		return nil
	}
	id, ok := event.Lookup(name)
	if !ok {
		return fmt.Errorf("flpx.EncodeTo: misc entry %q has no registered event ID", name)
	}
	return writeMisc(ew, id, v)
}

// writeGlobals writes each ID in order from m.ProjectInfo, skipping IDs with
// no recorded value.
func writeGlobals(ew *event.Writer, m Misc, order []event.ID) error {
	for _, id := range order {
		v, ok := m[event.Name(id)]
		if !ok {
			continue
		}
		if err := writeMisc(ew, id, v); err != nil {
			return err
		}
	}
	return nil
}

// writeBody emits every event of the data chunk, in the canonical order
// fixed by §4.7.
func writeBody(ew *event.Writer, p *Project) error {
	if err := writeGlobals(ew, p.ProjectInfo, preludeOrder); err != nil {
		return err
	}

	for _, g := range p.ChannelFilterGroups {
		if err := ew.WriteText(231, encodeUTF16LE(g.Name)); err != nil {
			return err
		}
	}

	if err := writeGlobals(ew, p.ProjectInfo, []event.ID{146, 216}); err != nil {
		return err
	}

	for i, pat := range p.Patterns {
		if err := ew.WriteInt(65, uint64(i+1)); err != nil {
			return err
		}
		if pat.Name != nil {
			if err := ew.WriteText(193, encodeUTF16LE(*pat.Name)); err != nil {
				return err
			}
		}
		for _, name := range patternMiscOrder {
			if err := writeMiscNamed(ew, pat.Misc, name); err != nil {
				return err
			}
		}
	}

	if v, ok := p.ProjectInfo["UNKNOWN_226"]; ok {
		id, _ := event.Lookup("UNKNOWN_226")
		if err := writeMisc(ew, id, v); err != nil {
			return err
		}
	}

	for _, ch := range p.Channels {
		if ch.Type == ChannelAutomationClip && ch.Data != nil {
			if err := ew.WriteText(227, ch.Data); err != nil {
				return err
			}
		}
	}

	for i, ch := range p.Channels {
		if err := ew.WriteInt(64, uint64(i)); err != nil {
			return err
		}
		if err := ew.WriteInt(21, uint64(ch.Type)); err != nil {
			return err
		}
		if v, ok := ch.Misc["FLP_Text_PluginName"]; ok {
			if err := writeMisc(ew, 201, v); err != nil {
				return err
			}
		}
		if v, ok := ch.Misc["FLP_NewPlugin"]; ok {
			if err := writeMisc(ew, 212, v); err != nil {
				return err
			}
		}
		if err := ew.WriteText(203, encodeUTF16LE(ch.Name)); err != nil {
			return err
		}
		for _, name := range channelMiscOrder {
			if err := writeMiscNamed(ew, ch.Misc, name); err != nil {
				return err
			}
		}
	}

	for i, arr := range p.Arrangements {
		if err := ew.WriteInt(99, uint64(i)); err != nil {
			return err
		}
		if arr.Name != nil {
			if err := ew.WriteText(241, encodeUTF16LE(*arr.Name)); err != nil {
				return err
			}
		}
		if err := writeMiscNamed(ew, arr.Misc, "UNKNOWN_36"); err != nil {
			return err
		}

		if len(arr.Items) > 0 {
			raw := make([]byte, 0, len(arr.Items)*PlaylistItemSize)
			for _, item := range arr.Items {
				b, err := EncodePlaylistItem(item)
				if err != nil {
					return err
				}
				raw = append(raw, b...)
			}
			if err := ew.WriteText(233, raw); err != nil {
				return err
			}
		}

		for _, track := range arr.Tracks {
			v := track.Misc["TrackInfo"]
			if err := writeMisc(ew, 238, v); err != nil {
				return err
			}
			if track.Name != nil {
				if err := ew.WriteText(239, encodeUTF16LE(*track.Name)); err != nil {
					return err
				}
			}
		}
	}

	if err := writeGlobals(ew, p.ProjectInfo, midGlobalsOrder); err != nil {
		return err
	}

	for _, mt := range p.MixerTracks {
		v := mt.Misc["MixerTrackInfo"]
		if err := writeMisc(ew, 236, v); err != nil {
			return err
		}
		for slot := 0; slot < MixerSlotCount; slot++ {
			if err := ew.WriteInt(98, uint64(slot)); err != nil {
				return err
			}
			eff, ok := mt.Effects[slot]
			if !ok {
				continue
			}
			if v, ok := eff.Misc["FLP_Text_PluginName"]; ok {
				if err := writeMisc(ew, 201, v); err != nil {
					return err
				}
			}
			if v, ok := eff.Misc["FLP_NewPlugin"]; ok {
				if err := writeMisc(ew, 212, v); err != nil {
					return err
				}
			}
			if eff.Name != "" {
				if err := ew.WriteText(203, encodeUTF16LE(eff.Name)); err != nil {
					return err
				}
			}
			for _, name := range effectMiscOrder {
				if err := writeMiscNamed(ew, eff.Misc, name); err != nil {
					return err
				}
			}
		}
		for _, name := range mixerTrackPostambleOrder {
			if err := writeMiscNamed(ew, mt.Misc, name); err != nil {
				return err
			}
		}
		if mt.Name != nil {
			if err := ew.WriteText(204, encodeUTF16LE(*mt.Name)); err != nil {
				return err
			}
		}
	}

	if err := writeGlobals(ew, p.ProjectInfo, tailGlobalsOrder); err != nil {
		return err
	}

	return nil
}
