package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	graphemeutil "github.com/iw2rmb/textfield/internal/grapheme"
)

const tabWidth = 4

// cluster is one grapheme of a block; columns are rune offsets.
type cluster struct {
	Text     string
	StartCol int
	EndCol   int
}

func splitClusters(text string) []cluster {
	parts := graphemeutil.Split(text)
	out := make([]cluster, 0, len(parts))
	col := 0
	for _, p := range parts {
		n := utf8.RuneCountInString(p)
		out = append(out, cluster{Text: p, StartCol: col, EndCol: col + n})
		col += n
	}
	return out
}

func graphemeCellWidth(text string, visualCol int) int {
	if text == "\t" {
		return tabWidth - visualCol%tabWidth
	}
	w := runewidth.StringWidth(text)
	if w < 0 {
		w = 0
	}
	if w == 0 {
		if fallback := graphemeutil.Width(text); fallback > w {
			w = fallback
		}
	}
	return w
}

// displayText expands tabs so the terminal never sees them.
func displayText(text string, visualCol int) (string, int) {
	w := graphemeCellWidth(text, visualCol)
	if text == "\t" {
		return strings.Repeat(" ", w), w
	}
	return text, w
}
