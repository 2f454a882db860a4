package merge

import (
	"testing"

	"github.com/samboyer/flpx"
)

func item(start, length, track uint32) *flpx.PlaylistItem {
	return &flpx.PlaylistItem{Start: start, Length: length, Track: track, ItemType: flpx.ItemPattern, ClipIndex: 0}
}

func arrangementOf(items ...*flpx.PlaylistItem) *flpx.Arrangement {
	return &flpx.Arrangement{Items: items}
}

func TestDiffIdenticalIsEmpty(t *testing.T) {
	a := arrangementOf(item(0, 192, 0), item(192, 192, 1))
	if got := Diff(a, a); len(got) != 0 {
		t.Fatalf("Diff(X,X) = %+v, want empty", got)
	}
}

func TestDiffDetectsMove(t *testing.T) {
	base := arrangementOf(item(0, 192, 0))
	edited := arrangementOf(item(0, 192, 3))

	got := Diff(base, edited)
	if len(got) != 1 || got[0].State != Moved || got[0].Item.Track != 3 {
		t.Fatalf("Diff = %+v, want a single Moved change to track 3", got)
	}
}

func TestDiffModifiedOutranksMoved(t *testing.T) {
	base := arrangementOf(item(0, 192, 0))
	edited := arrangementOf(item(0, 384, 3)) // both length and track differ

	got := Diff(base, edited)
	if len(got) != 1 || got[0].State != Modified {
		t.Fatalf("Diff = %+v, want a single Modified change", got)
	}
}

func TestDiffDetectsAddAndDelete(t *testing.T) {
	base := arrangementOf(item(0, 192, 0), item(192, 192, 0))
	edited := arrangementOf(item(0, 192, 0), item(576, 96, 2))

	got := Diff(base, edited)
	var added, deleted int
	for _, c := range got {
		switch c.State {
		case Added:
			added++
		case Deleted:
			deleted++
		}
	}
	if added != 1 || deleted != 1 {
		t.Fatalf("Diff = %+v, want 1 added and 1 deleted", got)
	}
}

func TestDiffClipStartSentinelNormalized(t *testing.T) {
	base := item(0, 192, 0)
	base.ClipStart = unshiftedClipStart
	edited := item(0, 192, 0)
	edited.ClipStart = 0

	got := Diff(arrangementOf(base), arrangementOf(edited))
	if len(got) != 0 {
		t.Fatalf("Diff = %+v, want no change: sentinel and 0 both mean unshifted", got)
	}
}

func TestDiffDuplicateKeysMatchByClosestTrack(t *testing.T) {
	base := arrangementOf(item(0, 192, 1), item(0, 192, 5))
	edited := arrangementOf(item(0, 192, 2), item(0, 192, 6))

	got := Diff(base, edited)
	for _, c := range got {
		if c.State != Moved {
			t.Fatalf("Diff = %+v, want every change to be a Moved pairing by nearest track", got)
		}
	}
	if len(got) != 2 {
		t.Fatalf("Diff = %+v, want 2 Moved changes", got)
	}
}
