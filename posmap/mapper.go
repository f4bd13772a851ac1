package posmap

import "unicode/utf8"

// Mapper caches the flattened projection of the most recent snapshot it was
// asked about. The cache is keyed by snapshot identity: it is valid only for
// the exact snapshot it was computed from and is recomputed, never patched,
// when a different snapshot arrives.
type Mapper struct {
	snap   Snapshot
	text   string
	length int
}

func (m *Mapper) load(snap Snapshot) {
	if m.snap == snap && snap != nil {
		return
	}
	m.snap = snap
	m.text = Text(snap)
	m.length = utf8.RuneCountInString(m.text)
}

// Text returns the flattened projection of snap.
func (m *Mapper) Text(snap Snapshot) string {
	m.load(snap)
	return m.text
}

// Len returns the rune length of snap's projection.
func (m *Mapper) Len(snap Snapshot) int {
	m.load(snap)
	return m.length
}

// Clamp clamps idx into [0, Len(snap)].
func (m *Mapper) Clamp(snap Snapshot, idx int) int {
	return clamp(idx, 0, m.Len(snap))
}

func (m *Mapper) CharIndex(snap Snapshot, pos int) int {
	return CharIndex(snap, pos)
}

func (m *Mapper) Position(snap Snapshot, idx int) int {
	return position(snap, m.Clamp(snap, idx))
}

func (m *Mapper) Range(snap Snapshot, start, end int) (from, to int) {
	from, to = m.Position(snap, start), m.Position(snap, end)
	if from > to {
		from, to = to, from
	}
	return from, to
}

// Slice returns the runes of the projection in [start, end) after clamping.
func (m *Mapper) Slice(snap Snapshot, start, end int) string {
	start, end = m.Clamp(snap, start), m.Clamp(snap, end)
	if start >= end {
		return ""
	}
	text := m.Text(snap)
	i, from, to := 0, len(text), len(text)
	for b := range text {
		if i == start {
			from = b
		}
		if i == end {
			to = b
			break
		}
		i++
	}
	return text[from:to]
}
