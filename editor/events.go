package editor

import tea "github.com/charmbracelet/bubbletea"

// CompositionStartMsg and CompositionEndMsg bracket input method
// composition. Terminals do not report composition themselves; hosts that
// know about it send these.
type (
	CompositionStartMsg struct{}
	CompositionEndMsg   struct{}
)

// ChangeMsg carries the serialized document from field.Config.OnChange.
type ChangeMsg struct {
	Text string
}

// Notify returns an OnChange callback that delivers ChangeMsg through
// send, typically (*tea.Program).Send. It is safe to call from a timer
// goroutine.
func Notify(send func(tea.Msg)) func(string) {
	return func(text string) { send(ChangeMsg{Text: text}) }
}
