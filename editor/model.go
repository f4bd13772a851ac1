package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/textfield/document"
	"github.com/iw2rmb/textfield/field"
	"github.com/iw2rmb/textfield/markup"
)

// Model is a Bubble Tea component that renders a document and edits it
// through a field.Field.
type Model struct {
	cfg   Config
	view  *document.View
	field *field.Field

	focused bool

	viewport viewport.Model

	lastVersion    uint64
	lastSelVersion uint64
}

func New(cfg Config) Model {
	if cfg.KeyMap.isZero() {
		cfg.KeyMap = DefaultKeyMap()
	}
	parser := cfg.Field.Parser
	if parser == nil {
		parser = markup.Codec{}
	}
	doc, err := parser.Parse(cfg.Text)
	if err != nil {
		doc = document.FromText(cfg.Text)
	}

	view := document.NewView(document.NewState(doc), document.Options{
		HistoryLimit: cfg.HistoryLimit,
		Logger:       cfg.Field.Logger,
	})
	view.SetDisabled(cfg.ReadOnly)
	view.Focus()

	m := Model{
		cfg:      cfg,
		view:     view,
		field:    field.New(view, cfg.Field),
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	m.lastVersion = view.State().Version()
	m.lastSelVersion = view.State().SelectionVersion()
	m.rebuildContent()
	return m
}

// Field returns the field the editor drives. Edits made through it show up
// on the next Update.
func (m Model) Field() *field.Field { return m.field }

// Document returns the underlying document view.
func (m Model) Document() *document.View { return m.view }

// Value returns the flattened document text.
func (m Model) Value() string { return m.field.Value() }

// Destroy flushes a pending change and detaches the field.
func (m Model) Destroy() { m.field.Destroy() }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.view.Focus()
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.view.Blur()
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) View() string { return m.viewport.View() }

// syncFromDocument redraws after the document or selection moved, whether
// through a key or through the field API.
func (m *Model) syncFromDocument() (changed bool) {
	st := m.view.State()
	if st.Version() == m.lastVersion && st.SelectionVersion() == m.lastSelVersion {
		return false
	}
	m.lastVersion = st.Version()
	m.lastSelVersion = st.SelectionVersion()
	m.rebuildContent()
	return true
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	st := m.view.State()
	row, _ := st.Doc().Resolve(st.Selection().Head)
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
