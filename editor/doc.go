// Package editor is a Bubble Tea component that edits a document through a
// field.Field.
//
// Keys become field operations, so token deletion, duplicate-input
// filtering and change throttling behave exactly as for any other host.
// Token delimiters are hidden on screen and replaced by glyphs.
package editor
