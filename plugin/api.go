package plugin

import lua "github.com/yuin/gopher-lua"

func (r *Runtime) registerField() {
	L := r.L
	mod := L.NewTable()
	L.SetField(mod, "value", L.NewFunction(r.value))
	L.SetField(mod, "set_value", L.NewFunction(r.setValue))
	L.SetField(mod, "len", L.NewFunction(r.length))
	L.SetField(mod, "selection", L.NewFunction(r.selection))
	L.SetField(mod, "set_selection", L.NewFunction(r.setSelection))
	L.SetField(mod, "set_range_text", L.NewFunction(r.setRangeText))
	L.SetField(mod, "insert_at_cursor", L.NewFunction(r.insertAtCursor))
	L.SetField(mod, "insert_markup", L.NewFunction(r.insertMarkup))
	L.SetField(mod, "last_chars", L.NewFunction(r.lastChars))
	L.SetField(mod, "focus", L.NewFunction(r.focus))
	L.SetGlobal("field", mod)
}

// value() -> string
func (r *Runtime) value(L *lua.LState) int {
	L.Push(lua.LString(r.target.Value()))
	return 1
}

// set_value(text)
func (r *Runtime) setValue(L *lua.LState) int {
	r.target.SetValue(L.CheckString(1))
	return 0
}

// len() -> number
func (r *Runtime) length(L *lua.LState) int {
	L.Push(lua.LNumber(r.target.Len()))
	return 1
}

// selection() -> start, end
func (r *Runtime) selection(L *lua.LState) int {
	start, end := r.target.SelectionRange()
	L.Push(lua.LNumber(start))
	L.Push(lua.LNumber(end))
	return 2
}

// set_selection(start, end)
func (r *Runtime) setSelection(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.OptInt(2, start)
	r.target.SetSelectionRange(start, end)
	return 0
}

// set_range_text(text [, start, end])
func (r *Runtime) setRangeText(L *lua.LState) int {
	text := L.CheckString(1)
	if L.GetTop() < 2 {
		r.target.SetRangeText(text)
		return 0
	}
	start := L.CheckInt(2)
	end := L.OptInt(3, start)
	if end < start {
		L.ArgError(3, "end must be >= start")
		return 0
	}
	r.target.SetRangeTextAt(text, start, end)
	return 0
}

// insert_at_cursor(text)
func (r *Runtime) insertAtCursor(L *lua.LState) int {
	r.target.InsertAtCursor(L.CheckString(1))
	return 0
}

// insert_markup(text [, start, end])
func (r *Runtime) insertMarkup(L *lua.LState) int {
	text := L.CheckString(1)
	start, end := r.target.SelectionRange()
	if L.GetTop() >= 2 {
		start = L.CheckInt(2)
		end = L.OptInt(3, start)
	}
	if end < start {
		L.ArgError(3, "end must be >= start")
		return 0
	}
	r.target.InsertMarkupBetween(start, end, text)
	return 0
}

// last_chars(n) -> string
func (r *Runtime) lastChars(L *lua.LState) int {
	L.Push(lua.LString(r.target.LastNChars(L.CheckInt(1))))
	return 1
}

// focus()
func (r *Runtime) focus(L *lua.LState) int {
	r.target.Focus()
	return 0
}
