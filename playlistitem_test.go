package flpx

import "testing"

func TestPlaylistItemRoundTrip(t *testing.T) {
	item := &PlaylistItem{
		Start:     960,
		Length:    480,
		Track:     12,
		ClipStart: 3212836864, // sentinel "unshifted" value, preserved verbatim
		ClipEnd:   0,
		Muted:     true,
		Selected:  false,
		ItemType:  ItemPattern,
		ClipIndex: 3,
		Misc4_6:   [2]byte{0x01, 0x02},
	}
	item.Misc[3] = 1 << mutedBit // byte 19: muted bit set, selected clear

	buf, err := EncodePlaylistItem(item)
	if err != nil {
		t.Fatalf("EncodePlaylistItem: %v", err)
	}
	if len(buf) != PlaylistItemSize {
		t.Fatalf("encoded record is %d bytes, want %d", len(buf), PlaylistItemSize)
	}

	got, err := DecodePlaylistItem(buf)
	if err != nil {
		t.Fatalf("DecodePlaylistItem: %v", err)
	}

	if got.Start != item.Start || got.Length != item.Length || got.Track != item.Track ||
		got.ClipStart != item.ClipStart || got.ClipEnd != item.ClipEnd ||
		got.Muted != item.Muted || got.Selected != item.Selected ||
		got.ItemType != item.ItemType || got.ClipIndex != item.ClipIndex {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, item)
	}
	if got.Misc4_6 != item.Misc4_6 || got.Misc != item.Misc {
		t.Fatalf("raw bytes not preserved verbatim: got %+v, want %+v", got, item)
	}
}

func TestPlaylistItemChannelIdentifier(t *testing.T) {
	item := &PlaylistItem{ItemType: ItemChannel, ClipIndex: 20480, Track: 0}
	buf, err := EncodePlaylistItem(item)
	if err != nil {
		t.Fatalf("EncodePlaylistItem: %v", err)
	}
	id := uint32(buf[6]) | uint32(buf[7])<<8
	if id != 20480 {
		t.Fatalf("on-disk identifier = %d, want 20480", id)
	}

	over := &PlaylistItem{ItemType: ItemChannel, ClipIndex: 20481, Track: 0}
	if _, err := EncodePlaylistItem(over); err == nil {
		t.Fatal("expected error for channel clip index exceeding 20480")
	}
}

func TestPlaylistItemRejectsShortBuffer(t *testing.T) {
	if _, err := DecodePlaylistItem(make([]byte, 31)); err == nil {
		t.Fatal("expected error decoding a short record")
	}
}
