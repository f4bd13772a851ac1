package editor

// CaretCoordinates returns the terminal cell of the cursor relative to the
// top-left corner of View. ok is false when the editor is blurred or the
// cursor row is scrolled out of view. Hosts use it to place an input
// method candidate window.
func (m Model) CaretCoordinates() (x, y int, ok bool) {
	if !m.focused {
		return 0, 0, false
	}
	l := m.layout()
	line := renderLine(m.cfg.Style, l.line(l.curRow, true))
	if line.CursorCell < 0 {
		return 0, 0, false
	}
	x = line.CursorCell
	if m.cfg.ShowLineNums {
		x += gutterCells(l.doc.BlockCount())
	}
	y = l.curRow - m.viewport.YOffset
	if y < 0 || (m.viewport.Height > 0 && y >= m.viewport.Height) {
		return x, y, false
	}
	return x, y, true
}
