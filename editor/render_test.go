package editor

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/textfield/field"
	"github.com/iw2rmb/textfield/markup"
)

func plainConfig(text string) Config {
	return Config{
		Text:  text,
		Field: field.Config{Parser: markup.Plain{}, Serializer: markup.Plain{}},
	}
}

func TestRender_LineNumberAlignment_1To12(t *testing.T) {
	cfg := plainConfig(strings.TrimSuffix(strings.Repeat("x\n", 12), "\n"))
	cfg.ShowLineNums = true
	m := New(cfg)
	m = m.Blur()
	m = m.SetSize(10, 12)

	lines := strings.Split(m.View(), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected 12 lines, got %d", len(lines))
	}
	for i, line := range lines {
		wantPrefix := fmt.Sprintf("%2d x", i+1)
		if !strings.HasPrefix(line, wantPrefix) {
			t.Fatalf("line %d prefix: got %q, want prefix %q", i+1, line, wantPrefix)
		}
	}
}

func TestRender_CursorWhenFocused(t *testing.T) {
	cfg := plainConfig("ab")
	cfg.Style = Style{Text: lipgloss.NewStyle(), Cursor: lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)}
	m := New(cfg)

	if got, want := m.renderContent(), " a b"; got != want {
		t.Fatalf("unexpected cursor rendering:\n got: %q\nwant: %q", got, want)
	}
	m = m.Blur()
	if got, want := m.renderContent(), "ab"; got != want {
		t.Fatalf("blurred rendering: got %q, want %q", got, want)
	}
}

func TestRender_SingleTokenBecomesGlyph(t *testing.T) {
	cfg := plainConfig("a[lb-i]b")
	cfg.Style = Style{IndentGlyph: "»"}
	m := New(cfg).Blur()

	if got, want := m.renderContent(), "a»b"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_PairedTokenBecomesBlankGlyph(t *testing.T) {
	cfg := plainConfig("x[lb-blank]yz[/lb-blank]")
	cfg.Style = Style{BlankGlyph: "_"}
	m := New(cfg).Blur()

	if got, want := m.renderContent(), "x_yz"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_CursorAroundHiddenToken(t *testing.T) {
	cfg := plainConfig("a[lb-i]")
	cfg.Style = Style{IndentGlyph: "»", Cursor: lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)}
	m := New(cfg)

	// Caret before the token: it lands on the glyph.
	m.Field().MoveCursorTo(1)
	if got, want := m.renderContent(), "a » "; got != want {
		t.Fatalf("caret before token: got %q, want %q", got, want)
	}

	// Caret after the token: past the glyph, at end of line.
	m.Field().MoveCursorTo(7)
	if got, want := m.renderContent(), "a»   "; got != want {
		t.Fatalf("caret after token: got %q, want %q", got, want)
	}
}

func TestRender_BlockPrefixes(t *testing.T) {
	m := New(Config{Text: "# T\n\n- a\n- b\n\n1. c\n2. d"}).Blur()

	want := "# T\n• a\n• b\n1. c\n2. d"
	if got := m.renderContent(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRender_StrongUsesStyle(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)

	st := Style{
		Text:   r.NewStyle(),
		Strong: r.NewStyle().Bold(true),
		Cursor: r.NewStyle().Reverse(true),
	}
	m := New(Config{Text: "**b**", Style: st}).Blur()

	got := m.renderContent()
	want := st.Strong.Inherit(st.Text).Render("b")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI sequence, got %q", got)
	}
}

func TestCaretCoordinates(t *testing.T) {
	cfg := plainConfig("a[lb-i]b")
	cfg.Style = Style{IndentGlyph: "»"}
	m := New(cfg).SetSize(20, 5)

	m.Field().MoveCursorTo(8)
	x, y, ok := m.CaretCoordinates()
	if !ok || x != 3 || y != 0 {
		t.Fatalf("got (%d,%d,%v), want (3,0,true)", x, y, ok)
	}

	wide := New(plainConfig("日本")).SetSize(20, 5)
	wide.Field().MoveCursorTo(1)
	if x, _, _ := wide.CaretCoordinates(); x != 2 {
		t.Fatalf("wide caret x: got %d, want 2", x)
	}

	if _, _, ok := m.Blur().CaretCoordinates(); ok {
		t.Fatalf("blurred editor reported a caret")
	}
}

func TestCaretCoordinates_FollowsScroll(t *testing.T) {
	cfg := plainConfig(strings.TrimSuffix(strings.Repeat("x\n", 10), "\n"))
	cfg.ShowLineNums = true
	m := New(cfg).SetSize(10, 3)

	m.Field().MoveCursorTo(m.Field().Len())
	m, _ = m.Update(nil)

	x, y, ok := m.CaretCoordinates()
	if !ok || x != 4 || y != 2 {
		t.Fatalf("got (%d,%d,%v), want (4,2,true)", x, y, ok)
	}
}
