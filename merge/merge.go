package merge

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/samboyer/flpx"
)

// ConflictError reports two changes to the same base item that the default
// resolution policy cannot reconcile automatically.
type ConflictError struct {
	Index int
	A, B  ChangeState
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting changes at item %d: %s vs %s", e.Index, e.A, e.B)
}

// byIndex indexes a change set's non-Added changes by their base item index.
func byIndex(changes []Change) map[int]Change {
	m := make(map[int]Change, len(changes))
	for _, c := range changes {
		if c.State != Added {
			m[c.Index] = c
		}
	}
	return m
}

// addedByKey indexes a change set's Added changes by the key their new item
// would occupy, so duplicate additions on both sides can be deduplicated.
func addedByKey(changes []Change) map[itemKey]Change {
	m := make(map[itemKey]Change, len(changes))
	for _, c := range changes {
		if c.State == Added {
			m[keyOf(c.Item)] = c
		}
	}
	return m
}

// Merge reconciles two independent change sets (each produced by Diff
// against the same base arrangement) into a single result arrangement,
// following a fixed conflict policy:
//
//   - a change present on only one side always applies
//   - two Deleted/Modified/Moved changes to the same item: Deleted wins over
//     anything; two Modified changes merge attribute-by-attribute, preferring
//     A's value wherever the two disagree and both differ from the original;
//     a Modified/Moved pair keeps the modified item and adopts the moved
//     side's track, unless the modified side moved the clip too, in which
//     case its own track is kept; two Moved changes to the same item prefer
//     A's placement
//   - two Added changes that collide on the same key produce a single item
//     if they're equal, otherwise both are kept
//   - an Added change on one side whose key matches the item of a Modified
//     or Moved change on the other side is an unresolvable conflict,
//     reported as a plain error rather than a *ConflictError; Added changes
//     are not checked against Deleted changes on the other side
//
// Tracks are carried over from base unchanged; Merge does not alter track
// rows.
func Merge(base *flpx.Arrangement, changesA, changesB []Change) (*flpx.Arrangement, error) {
	byIdxA := byIndex(changesA)
	byIdxB := byIndex(changesB)

	result := &flpx.Arrangement{Name: base.Name, Misc: base.Misc, Tracks: base.Tracks}

	for i, original := range base.Items {
		cA, okA := byIdxA[i]
		cB, okB := byIdxB[i]

		switch {
		case !okA && !okB:
			result.Items = append(result.Items, original)
		case okA && !okB:
			if cA.State != Deleted {
				result.Items = append(result.Items, cA.Item)
			}
		case !okA && okB:
			if cB.State != Deleted {
				result.Items = append(result.Items, cB.Item)
			}
		default:
			merged, keep, err := resolveConflict(i, original, cA, cB)
			if err != nil {
				return nil, err
			}
			if keep {
				result.Items = append(result.Items, merged)
			}
		}
	}

	addedA := addedByKey(changesA)
	addedB := addedByKey(changesB)
	seen := make(map[itemKey]bool, len(addedA)+len(addedB))
	for k, cA := range addedA {
		if cB, ok := addedB[k]; ok {
			if sameItem(cA.Item, cB.Item) {
				result.Items = append(result.Items, cA.Item)
			} else {
				result.Items = append(result.Items, cA.Item, cB.Item)
			}
			seen[k] = true
			continue
		}
		if conflictsWithExistingChange(k, byIdxB) {
			return nil, errors.Errorf("added item at start=%d track=%d conflicts with a modified/moved item on the other side", cA.Item.Start, cA.Item.Track)
		}
		result.Items = append(result.Items, cA.Item)
	}
	for k, cB := range addedB {
		if seen[k] {
			continue
		}
		if conflictsWithExistingChange(k, byIdxA) {
			return nil, errors.Errorf("added item at start=%d track=%d conflicts with a modified/moved item on the other side", cB.Item.Start, cB.Item.Track)
		}
		result.Items = append(result.Items, cB.Item)
	}

	return result, nil
}

func conflictsWithExistingChange(k itemKey, other map[int]Change) bool {
	for _, c := range other {
		if c.Item != nil && keyOf(c.Item) == k {
			return true
		}
	}
	return false
}

func sameItem(a, b *flpx.PlaylistItem) bool {
	return a.Start == b.Start && a.Length == b.Length && a.Track == b.Track &&
		normalizeClipStart(a.ClipStart) == normalizeClipStart(b.ClipStart) &&
		a.Muted == b.Muted && a.ItemType == b.ItemType && a.ClipIndex == b.ClipIndex
}

// resolveConflict reconciles two changes to the same base item, per Merge's
// documented policy. It returns the winning item (nil if the item should be
// dropped) and whether it should be kept in the result at all.
func resolveConflict(index int, original *flpx.PlaylistItem, a, b Change) (*flpx.PlaylistItem, bool, error) {
	switch {
	case a.State == Deleted || b.State == Deleted:
		return nil, false, nil

	case a.State == Modified && b.State == Modified:
		return twoModify(original, a.Item, b.Item), true, nil

	case a.State == Modified && b.State == Moved:
		merged := *a.Item
		if original.Track == a.Item.Track {
			// A's modifications didn't move the clip: adopt B's move.
			merged.Track = b.Item.Track
		}
		// Otherwise A moved it too: keep A's item (and its track) as-is.
		return &merged, true, nil
	case a.State == Moved && b.State == Modified:
		merged := *b.Item
		if original.Track == b.Item.Track {
			merged.Track = a.Item.Track
		}
		return &merged, true, nil

	case a.State == Moved && b.State == Moved:
		return a.Item, true, nil // prefer A's placement

	default:
		return nil, false, errors.WithStack(&ConflictError{Index: index, A: a.State, B: b.State})
	}
}

// twoModify merges two independently modified copies of original,
// attribute-by-attribute: where both sides changed an attribute from the
// original and disagree, A wins.
func twoModify(original, a, b *flpx.PlaylistItem) *flpx.PlaylistItem {
	merged := *original

	merged.Start = pickUint32(original.Start, a.Start, b.Start)
	merged.Length = pickUint32(original.Length, a.Length, b.Length)
	merged.Track = pickUint32(original.Track, a.Track, b.Track)
	merged.ClipStart = pickUint32(normalizeClipStart(original.ClipStart), normalizeClipStart(a.ClipStart), normalizeClipStart(b.ClipStart))
	merged.ClipEnd = pickUint32(original.ClipEnd, a.ClipEnd, b.ClipEnd)

	merged.Muted = pickBool(original.Muted, a.Muted, b.Muted)
	merged.Selected = pickBool(original.Selected, a.Selected, b.Selected)

	return &merged
}

func pickUint32(orig, a, b uint32) uint32 {
	switch {
	case a == orig:
		return b
	case b == orig:
		return a
	default:
		return a // both sides changed and disagree: A wins
	}
}

func pickBool(orig, a, b bool) bool {
	switch {
	case a == orig:
		return b
	case b == orig:
		return a
	default:
		return a
	}
}
