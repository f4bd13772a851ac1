package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering.
type Style struct {
	Gutter        lipgloss.Style
	LineNum       lipgloss.Style
	LineNumActive lipgloss.Style

	Text      lipgloss.Style
	Strong    lipgloss.Style
	Emphasis  lipgloss.Style
	Code      lipgloss.Style
	Heading   lipgloss.Style
	ListMark  lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	// Indent and Blank style the glyphs drawn in place of tokens.
	Indent lipgloss.Style
	Blank  lipgloss.Style

	IndentGlyph string // default: "» "
	BlankGlyph  string // default: "___"
}

func DefaultStyle() Style {
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Gutter:        gutter,
		LineNum:       gutter,
		LineNumActive: lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Bold(true),
		Text:          lipgloss.NewStyle(),
		Strong:        lipgloss.NewStyle().Bold(true),
		Emphasis:      lipgloss.NewStyle().Italic(true),
		Code:          lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Heading:       lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		ListMark:      gutter,
		Selection:     lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Indent:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Blank:         lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("214")),
	}
}

func (s Style) indentGlyph() string {
	if s.IndentGlyph == "" {
		return "» "
	}
	return s.IndentGlyph
}

func (s Style) blankGlyph() string {
	if s.BlankGlyph == "" {
		return "___"
	}
	return s.BlankGlyph
}
