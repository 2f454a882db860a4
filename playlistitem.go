package flpx

import (
	"fmt"

	"github.com/samboyer/flpx/internal/bits"
)

// PlaylistItemSize is the fixed size, in bytes, of one on-disk playlist item
// record.
const PlaylistItemSize = 32

// patternIdentifierBase is added to a pattern's ClipIndex to form the
// on-disk identifier at offsets 6-8; identifiers at or below
// maxChannelIdentifier instead address a Channel directly by index.
const (
	patternIdentifierBase = 20481
	maxChannelIdentifier  = 20480
)

const (
	mutedBit    = 5 // bit index within byte 19 (misc[3])
	selectedBit = 7
)

// DecodePlaylistItem decodes one 32-byte playlist item record. It returns an
// error if buf is not exactly PlaylistItemSize bytes.
func DecodePlaylistItem(buf []byte) (*PlaylistItem, error) {
	if len(buf) != PlaylistItemSize {
		return nil, fmt.Errorf("flpx.DecodePlaylistItem: record is %d bytes, want %d", len(buf), PlaylistItemSize)
	}

	item := &PlaylistItem{
		Start:     uint32(bits.ReadUintLE(buf[0:4])),
		Length:    uint32(bits.ReadUintLE(buf[8:12])),
		ClipStart: uint32(bits.ReadUintLE(buf[24:28])),
		ClipEnd:   uint32(bits.ReadUintLE(buf[28:32])),
	}
	copy(item.Misc4_6[:], buf[4:6])
	copy(item.Misc[:], buf[16:24])

	rawTrack := uint32(bits.ReadUintLE(buf[12:16]))
	item.Track = 500 - rawTrack

	id := uint32(bits.ReadUintLE(buf[6:8]))
	if id > maxChannelIdentifier {
		item.ItemType = ItemPattern
		item.ClipIndex = id - patternIdentifierBase
	} else {
		item.ItemType = ItemChannel
		item.ClipIndex = id
	}

	flagByte := item.Misc[3] // byte 19 of the record, byte 3 of the 16-24 window
	item.Muted = flagByte&(1<<mutedBit) != 0
	item.Selected = flagByte&(1<<selectedBit) != 0

	return item, nil
}

// EncodePlaylistItem encodes item back to its 32-byte on-disk form.
// Misc4_6 and Misc (including the muted/selected bits) are emitted
// verbatim, so decode-then-encode reproduces the original bytes exactly.
func EncodePlaylistItem(item *PlaylistItem) ([]byte, error) {
	buf := make([]byte, PlaylistItemSize)

	startBuf, err := bits.WriteUintLE(nil, uint64(item.Start), 4)
	if err != nil {
		return nil, err
	}
	copy(buf[0:4], startBuf)

	copy(buf[4:6], item.Misc4_6[:])

	var id uint32
	switch item.ItemType {
	case ItemPattern:
		id = item.ClipIndex + patternIdentifierBase
	case ItemChannel:
		if item.ClipIndex > maxChannelIdentifier {
			return nil, fmt.Errorf("flpx.EncodePlaylistItem: channel clip index %d exceeds %d", item.ClipIndex, maxChannelIdentifier)
		}
		id = item.ClipIndex
	default:
		return nil, fmt.Errorf("flpx.EncodePlaylistItem: unknown item type %v", item.ItemType)
	}
	idBuf, err := bits.WriteUintLE(nil, uint64(id), 2)
	if err != nil {
		return nil, err
	}
	copy(buf[6:8], idBuf)

	lengthBuf, err := bits.WriteUintLE(nil, uint64(item.Length), 4)
	if err != nil {
		return nil, err
	}
	copy(buf[8:12], lengthBuf)

	if item.Track > 500 {
		return nil, fmt.Errorf("flpx.EncodePlaylistItem: track %d out of range [0,500]", item.Track)
	}
	trackBuf, err := bits.WriteUintLE(nil, uint64(500-item.Track), 4)
	if err != nil {
		return nil, err
	}
	copy(buf[12:16], trackBuf)

	copy(buf[16:24], item.Misc[:])

	clipStartBuf, err := bits.WriteUintLE(nil, uint64(item.ClipStart), 4)
	if err != nil {
		return nil, err
	}
	copy(buf[24:28], clipStartBuf)

	clipEndBuf, err := bits.WriteUintLE(nil, uint64(item.ClipEnd), 4)
	if err != nil {
		return nil, err
	}
	copy(buf[28:32], clipEndBuf)

	return buf, nil
}
