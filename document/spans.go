package document

import "unicode/utf8"

// normalizeSpans drops empty spans and merges neighbours with equal marks.
func normalizeSpans(in []Span) []Span {
	out := make([]Span, 0, len(in))
	for _, s := range in {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == s.Marks {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// sliceSpans returns the spans covering rune offsets [start, end).
func sliceSpans(spans []Span, start, end int) []Span {
	if end <= start {
		return nil
	}
	var out []Span
	off := 0
	for _, s := range spans {
		n := utf8.RuneCountInString(s.Text)
		spanStart, spanEnd := off, off+n
		off = spanEnd
		if spanEnd <= start || spanStart >= end {
			continue
		}
		a := clampInt(start-spanStart, 0, n)
		b := clampInt(end-spanStart, 0, n)
		out = append(out, Span{Text: runeSlice(s.Text, a, b), Marks: s.Marks})
	}
	return out
}

// marksAt returns the marks an insertion at rune offset off inherits: those
// of the rune before it, or of the first rune when off is 0.
func marksAt(spans []Span, off int) Mark {
	if len(spans) == 0 {
		return 0
	}
	pos := 0
	for _, s := range spans {
		n := utf8.RuneCountInString(s.Text)
		if off > pos && off <= pos+n {
			return s.Marks
		}
		pos += n
	}
	if off == 0 {
		return spans[0].Marks
	}
	return spans[len(spans)-1].Marks
}

func runeSlice(s string, start, end int) string {
	if start >= end {
		return ""
	}
	i := 0
	from, to := len(s), len(s)
	for byteIdx := range s {
		if i == start {
			from = byteIdx
		}
		if i == end {
			to = byteIdx
			break
		}
		i++
	}
	if from > to {
		return ""
	}
	return s[from:to]
}
