package document

import "testing"

func TestState_InsertTextMovesCursorAfterInsertion(t *testing.T) {
	st := NewState(FromText("ac"))
	st, _ = st.Apply(st.Tr().SetSelection(2, 2))

	next, change := st.Apply(st.Tr().InsertText("b", 2, 2))
	if got := next.Doc().Text(); got != "abc" {
		t.Fatalf("text: got %q, want %q", got, "abc")
	}
	if got := next.Selection(); got != Cursor(3) {
		t.Fatalf("selection: got %+v, want cursor at 3", got)
	}
	if !change.DocChanged() || next.Version() != st.Version()+1 {
		t.Fatalf("expected content version bump")
	}
	if next.ID() != st.ID() {
		t.Fatalf("apply must keep the document ID")
	}
}

func TestState_DeleteBeforeCursorShiftsIt(t *testing.T) {
	st := NewState(FromText("abc"))
	st, _ = st.Apply(st.Tr().SetSelection(4, 4))
	next, _ := st.Apply(st.Tr().Delete(1, 3))
	if got := next.Doc().Text(); got != "c" {
		t.Fatalf("text: got %q, want %q", got, "c")
	}
	if got := next.Selection(); got != Cursor(2) {
		t.Fatalf("selection: got %+v, want cursor at 2", got)
	}
}

func TestState_SelectionOnlyKeepsContentVersion(t *testing.T) {
	st := NewState(FromText("abc"))
	next, change := st.Apply(st.Tr().SetSelection(1, 3))
	if change.DocChanged() {
		t.Fatalf("selection change reported as content change")
	}
	if next.Version() != st.Version() || next.SelectionVersion() != st.SelectionVersion()+1 {
		t.Fatalf("versions: got (%d,%d)", next.Version(), next.SelectionVersion())
	}
	if next.Doc() != st.Doc() {
		t.Fatalf("selection change must reuse the document")
	}
}

func TestState_NoOpReturnsSameState(t *testing.T) {
	st := NewState(FromText("abc"))
	next, change := st.Apply(st.Tr().InsertText("b", 2, 3))
	if next != st {
		t.Fatalf("expected identical state for no-op")
	}
	if change.SelectionAfter != st.Selection() {
		t.Fatalf("no-op change selection: got %+v", change.SelectionAfter)
	}
}

func TestState_CollapseSelectionAfterReplace(t *testing.T) {
	st := NewState(FromText("hello"))
	st, _ = st.Apply(st.Tr().SetSelection(1, 6))
	next, _ := st.Apply(st.Tr().InsertText("yo", 1, 6).CollapseSelection())
	if got := next.Doc().Text(); got != "yo" {
		t.Fatalf("text: got %q, want %q", got, "yo")
	}
	if got := next.Selection(); got != Cursor(3) {
		t.Fatalf("selection: got %+v, want cursor at 3", got)
	}
}

func TestState_ReplaceDocResetsCursor(t *testing.T) {
	st := NewState(FromText("abc"))
	st, _ = st.Apply(st.Tr().SetSelection(4, 4))
	next, change := st.Apply(st.Tr().ReplaceDoc(FromText("x\ny")))
	if got := next.Doc().Text(); got != "x\ny" {
		t.Fatalf("text: got %q", got)
	}
	if next.Selection() != Cursor(1) {
		t.Fatalf("selection: got %+v, want cursor at 1", next.Selection())
	}
	if len(change.AppliedEdits) != 1 || change.AppliedEdits[0].DeletedText != "abc" {
		t.Fatalf("edits: got %+v", change.AppliedEdits)
	}
}

func TestState_SelectionSnapsIntoContent(t *testing.T) {
	st := NewState(FromText("ab\ncd"))
	next, _ := st.Apply(st.Tr().SetSelection(0, 99))
	if got := next.Selection(); got != (Selection{Anchor: 1, Head: 7}) {
		t.Fatalf("selection: got %+v", got)
	}
}

func TestState_ApplyForeignTransactionPanics(t *testing.T) {
	a := NewState(FromText("a"))
	b := NewState(FromText("b"))
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	b.Apply(a.Tr().InsertText("x", 1, 1))
}

func TestState_CursorAfterInsert(t *testing.T) {
	st := NewState(FromText("abcd"))
	// Cursor at the document start; the insertion happens elsewhere.
	next, _ := st.Apply(st.Tr().InsertText("x\ny", 2, 4).CursorAfterInsert())
	if got := next.Doc().Text(); got != "ax\nyd" {
		t.Fatalf("text: got %q, want %q", got, "ax\nyd")
	}
	// "y" sits in the second block, which starts at 4; its content at 5.
	if got := next.Selection(); got != Cursor(6) {
		t.Fatalf("selection: got %+v, want cursor at 6", got)
	}

	same, _ := st.Apply(st.Tr().InsertText("bc", 2, 4).CursorAfterInsert())
	if same.Doc() != st.Doc() || same.Selection() != Cursor(4) {
		t.Fatalf("unchanged insert: got %+v", same.Selection())
	}
}

func TestState_InsertDocKeepsMarksInline(t *testing.T) {
	st := NewState(FromText("ad"))
	frag := NewDoc(Block{Kind: Heading, Level: 1, Spans: []Span{{Text: "b", Marks: MarkStrong}, {Text: "c"}}})

	next, change := st.Apply(st.Tr().InsertDoc(frag, 2, 2).CursorAfterInsert())
	if got := next.Doc().Text(); got != "abcd" {
		t.Fatalf("text: got %q, want %q", got, "abcd")
	}
	blk := next.Doc().Block(0)
	if blk.Kind != Paragraph {
		t.Fatalf("kind: got %v, want paragraph", blk.Kind)
	}
	want := []Span{{Text: "a"}, {Text: "b", Marks: MarkStrong}, {Text: "cd"}}
	if len(blk.Spans) != len(want) {
		t.Fatalf("spans: got %+v", blk.Spans)
	}
	for i := range want {
		if blk.Spans[i] != want[i] {
			t.Fatalf("span %d: got %+v, want %+v", i, blk.Spans[i], want[i])
		}
	}
	if got := next.Selection(); got != Cursor(4) {
		t.Fatalf("selection: got %+v, want cursor at 4", got)
	}
	if len(change.AppliedEdits) != 1 || change.AppliedEdits[0].InsertText != "bc" {
		t.Fatalf("edits: got %+v", change.AppliedEdits)
	}
}

func TestState_InsertDocSplitsBlocks(t *testing.T) {
	st := NewState(FromText("abcd"))
	frag := NewDoc(
		Block{Kind: Paragraph, Spans: []Span{{Text: "x"}}},
		Block{Kind: BulletItem, Spans: []Span{{Text: "y"}}},
	)

	next, _ := st.Apply(st.Tr().InsertDoc(frag, 2, 4).CursorAfterInsert())
	if got := next.Doc().Text(); got != "ax\nyd" {
		t.Fatalf("text: got %q, want %q", got, "ax\nyd")
	}
	if got := next.Doc().Block(1).Kind; got != BulletItem {
		t.Fatalf("second block kind: got %v, want bullet_item", got)
	}
	if got := next.Selection(); got != Cursor(6) {
		t.Fatalf("selection: got %+v, want cursor at 6", got)
	}
}

func TestState_InsertDocIntoEmptyBlockTakesFragmentKind(t *testing.T) {
	st := NewState(NewDoc())
	frag := NewDoc(Block{Kind: Heading, Level: 2, Spans: []Span{{Text: "T"}}})

	next, _ := st.Apply(st.Tr().InsertDoc(frag, 1, 1))
	if blk := next.Doc().Block(0); blk.Kind != Heading || blk.Level != 2 {
		t.Fatalf("block: got %+v", blk)
	}

	same, _ := next.Apply(next.Tr().InsertDoc(NewDoc(), 2, 2))
	if same != next {
		t.Fatalf("empty fragment must be a no-op")
	}
}
