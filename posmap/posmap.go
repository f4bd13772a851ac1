// Package posmap converts between flat character indices, as a plain text
// field sees them, and structural positions inside a document snapshot.
//
// A character index counts runes of the snapshot's flattened projection,
// where every block boundary contributes one separator.
package posmap

import "unicode/utf8"

// Separator is the projection's block separator.
const Separator = "\n"

// Snapshot is the read side of an immutable document snapshot.
type Snapshot interface {
	Size() int
	TextBetween(from, to int, sep string) string
}

// Text returns the flattened projection of snap.
func Text(snap Snapshot) string {
	return snap.TextBetween(0, snap.Size(), Separator)
}

// Len returns the rune length of the flattened projection.
func Len(snap Snapshot) int {
	return utf8.RuneCountInString(Text(snap))
}

// CharIndex projects a structural position to a character index.
func CharIndex(snap Snapshot, pos int) int {
	return utf8.RuneCountInString(snap.TextBetween(0, pos, Separator))
}

// Position returns the smallest structural position whose projected length
// is at least idx, after clamping idx into [0, Len(snap)]. The projection is
// monotonic in position, so a binary search finds it.
func Position(snap Snapshot, idx int) int {
	return position(snap, clamp(idx, 0, Len(snap)))
}

func position(snap Snapshot, idx int) int {
	lo, hi := 0, snap.Size()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if CharIndex(snap, mid) < idx {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Range maps a pair of character indices and returns them in document order.
func Range(snap Snapshot, start, end int) (from, to int) {
	from, to = Position(snap, start), Position(snap, end)
	if from > to {
		from, to = to, from
	}
	return from, to
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
