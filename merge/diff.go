// Package merge implements a three-way merge over FLP arrangements: diffing
// a base arrangement against two edited copies, then reconciling both
// change sets against a fixed conflict-resolution policy.
package merge

import (
	"github.com/samboyer/flpx"
)

// ChangeState identifies what kind of change happened to a playlist item
// between a base arrangement and an edited one.
type ChangeState int

// Change states. Modified takes priority over Moved when an item's track,
// length, clipStart or muted flag all differ at once.
const (
	Added ChangeState = iota
	Deleted
	Modified
	Moved
)

func (s ChangeState) String() string {
	switch s {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	case Moved:
		return "moved"
	default:
		return "unknown"
	}
}

// Change describes one difference found between a base arrangement and an
// edited one, anchored to the base item's index when one exists.
type Change struct {
	State ChangeState
	// Index is the item's position in the base arrangement's Items slice.
	// It is -1 for Added changes, which have no base counterpart.
	Index int
	// Item is the post-change playlist item: the edited version for
	// Modified/Moved, the new item for Added. Unused for Deleted.
	Item *flpx.PlaylistItem
}

// unshiftedClipStart is the on-disk sentinel meaning "clip starts at the
// beginning of its source pattern/sample", normalized to 0 for comparison.
const unshiftedClipStart = 3212836864

func normalizeClipStart(clipStart uint32) uint32 {
	if clipStart == unshiftedClipStart {
		return 0
	}
	return clipStart
}

// itemKey identifies a playlist item across two arrangements. Duplicate keys
// within one arrangement are expected (the same clip placed twice on the
// same tick on different tracks) and are paired by minimum track distance.
type itemKey struct {
	itemType  flpx.ItemType
	clipIndex uint32
	start     uint32
}

func keyOf(item *flpx.PlaylistItem) itemKey {
	return itemKey{itemType: item.ItemType, clipIndex: item.ClipIndex, start: item.Start}
}

// Diff compares base against edited and returns the changes needed to turn
// base into edited: Added items present only in edited, Deleted items
// present only in base, and Modified/Moved items present in both under the
// same key but differing in length/clipStart/muted or track respectively.
//
// Diff does not look at track-row names/state or at the arrangements' time
// base; those are out of scope for this comparison.
func Diff(base, edited *flpx.Arrangement) []Change {
	remaining := make(map[itemKey][]*flpx.PlaylistItem, len(edited.Items))
	for _, item := range edited.Items {
		k := keyOf(item)
		remaining[k] = append(remaining[k], item)
	}

	var changes []Change
	for i, item := range base.Items {
		k := keyOf(item)
		candidates := remaining[k]
		if len(candidates) == 0 {
			changes = append(changes, Change{State: Deleted, Index: i})
			continue
		}

		matchIdx := closestTrackMatch(item, candidates)
		match := candidates[matchIdx]
		remaining[k] = append(candidates[:matchIdx], candidates[matchIdx+1:]...)

		isModified := item.Length != match.Length ||
			normalizeClipStart(item.ClipStart) != normalizeClipStart(match.ClipStart) ||
			item.Muted != match.Muted
		hasMoved := item.Track != match.Track

		switch {
		case isModified:
			changes = append(changes, Change{State: Modified, Index: i, Item: match})
		case hasMoved:
			changes = append(changes, Change{State: Moved, Index: i, Item: match})
		}
	}

	for _, candidates := range remaining {
		for _, item := range candidates {
			changes = append(changes, Change{State: Added, Index: -1, Item: item})
		}
	}

	return changes
}

// closestTrackMatch returns the index within candidates whose track is
// closest to item's track, breaking ties by picking the first.
func closestTrackMatch(item *flpx.PlaylistItem, candidates []*flpx.PlaylistItem) int {
	best := 0
	bestDist := trackDistance(item.Track, candidates[0].Track)
	for i := 1; i < len(candidates); i++ {
		if d := trackDistance(item.Track, candidates[i].Track); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func trackDistance(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
