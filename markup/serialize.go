package markup

import (
	"strconv"
	"strings"

	"github.com/iw2rmb/textfield/document"
)

// Serialize renders doc as Markdown. Consecutive list items of the same
// kind form one tight list; other blocks are separated by a blank line.
// Token text such as "[lb-i]" is written unescaped.
func Serialize(doc *document.Doc) string {
	var sb strings.Builder
	var prev document.Block
	ordinal := 0

	for i, blk := range doc.Blocks() {
		if i > 0 {
			if blk.Kind.IsListItem() && blk.Kind == prev.Kind {
				sb.WriteByte('\n')
			} else {
				sb.WriteString("\n\n")
			}
		}
		if blk.Kind == document.OrderedItem {
			if i == 0 || prev.Kind != document.OrderedItem {
				ordinal = 0
			}
			ordinal++
		}

		switch blk.Kind {
		case document.Heading:
			sb.WriteString(strings.Repeat("#", clampLevel(blk.Level)))
			sb.WriteByte(' ')
		case document.BulletItem:
			sb.WriteString("- ")
		case document.OrderedItem:
			sb.WriteString(strconv.Itoa(ordinal))
			sb.WriteString(". ")
		}
		writeSpans(&sb, blk)
		prev = blk
	}
	return sb.String()
}

func clampLevel(l int) int {
	if l < 1 {
		return 1
	}
	if l > 6 {
		return 6
	}
	return l
}

func writeSpans(sb *strings.Builder, blk document.Block) {
	for i, sp := range blk.Spans {
		if sp.Marks.Has(document.MarkCode) {
			writeCode(sb, sp.Text)
			continue
		}
		pre, post := delimiters(sp.Marks)
		sb.WriteString(pre)
		sb.WriteString(escape(sp.Text, i == 0 && blk.Kind == document.Paragraph))
		sb.WriteString(post)
	}
}

func delimiters(m document.Mark) (string, string) {
	switch {
	case m.Has(document.MarkStrong | document.MarkEmphasis):
		return "***", "***"
	case m.Has(document.MarkStrong):
		return "**", "**"
	case m.Has(document.MarkEmphasis):
		return "*", "*"
	}
	return "", ""
}

func writeCode(sb *strings.Builder, s string) {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	sb.WriteString(fence)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		sb.WriteString(" " + s + " ")
	} else {
		sb.WriteString(s)
	}
	sb.WriteString(fence)
}

// escape backslash-escapes emphasis and code delimiters. At the start of a
// paragraph it also escapes markers that would start a heading or list.
func escape(s string, lineStart bool) string {
	var sb strings.Builder
	sb.Grow(len(s))
	if lineStart {
		s = escapeLineStart(&sb, s)
	}
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '`':
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func escapeLineStart(sb *strings.Builder, s string) string {
	switch {
	case strings.HasPrefix(s, "#"), strings.HasPrefix(s, "- "),
		strings.HasPrefix(s, "+ "), strings.HasPrefix(s, ">"):
		sb.WriteByte('\\')
		sb.WriteByte(s[0])
		return s[1:]
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		sb.WriteString(s[:digits])
		sb.WriteByte('\\')
		sb.WriteByte(s[digits])
		return s[digits+1:]
	}
	return s
}
