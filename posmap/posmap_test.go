package posmap

import (
	"testing"

	"github.com/iw2rmb/textfield/document"
)

func fixtures() map[string]*document.State {
	return map[string]*document.State{
		"single":  document.NewState(document.FromText("hello")),
		"empty":   document.NewState(document.NewDoc()),
		"blocks":  document.NewState(document.FromText("ab\n\ncd\n")),
		"wide":    document.NewState(document.FromText("你好，\n世界[lb-i]")),
		"emoji":   document.NewState(document.FromText("a👍🏽b\nc")),
		"headings": document.NewState(document.NewDoc(
			document.Block{Kind: document.Heading, Level: 1, Spans: []document.Span{{Text: "Title"}}},
			document.Block{Kind: document.BulletItem, Spans: []document.Span{{Text: "one", Marks: document.MarkStrong}, {Text: " two"}}},
		)),
	}
}

func TestPosition_RoundTrip(t *testing.T) {
	for name, st := range fixtures() {
		t.Run(name, func(t *testing.T) {
			n := Len(st)
			for idx := 0; idx <= n; idx++ {
				pos := Position(st, idx)
				if got := CharIndex(st, pos); got != idx {
					t.Fatalf("CharIndex(Position(%d)) = %d (pos %d)", idx, got, pos)
				}
			}
		})
	}
}

func TestPosition_Clamps(t *testing.T) {
	st := document.NewState(document.FromText("ab\ncd"))
	if got, want := Position(st, -3), Position(st, 0); got != want {
		t.Fatalf("negative: got %d, want %d", got, want)
	}
	if got, want := Position(st, 999), Position(st, Len(st)); got != want {
		t.Fatalf("overflow: got %d, want %d", got, want)
	}
}

func TestPosition_BlockBoundaries(t *testing.T) {
	// Layout: 0 <p> 1 a 2 b 3 </p> 4 <p> 5 c 6 d 7 </p> 8
	st := document.NewState(document.FromText("ab\ncd"))
	cases := []struct{ idx, pos int }{
		{0, 0}, {1, 2}, {2, 3}, {3, 5}, {4, 6}, {5, 7},
	}
	for _, tc := range cases {
		if got := Position(st, tc.idx); got != tc.pos {
			t.Fatalf("Position(%d): got %d, want %d", tc.idx, got, tc.pos)
		}
	}
}

func TestPosition_EditsAreReachable(t *testing.T) {
	// Inserting at Position(idx) has the same effect as inserting into the
	// flat text at idx.
	st := document.NewState(document.FromText("ab\n\ncd"))
	flat := []rune(Text(st))
	for idx := 0; idx <= len(flat); idx++ {
		pos := Position(st, idx)
		next, _ := st.Apply(st.Tr().InsertText("X", pos, pos))
		want := string(flat[:idx]) + "X" + string(flat[idx:])
		if got := Text(next); got != want {
			t.Fatalf("insert at %d: got %q, want %q", idx, got, want)
		}
	}
}

func TestCharIndex_Monotonic(t *testing.T) {
	for name, st := range fixtures() {
		prev := 0
		for pos := 0; pos <= st.Size(); pos++ {
			got := CharIndex(st, pos)
			if got < prev {
				t.Fatalf("%s: CharIndex(%d)=%d < CharIndex(%d)=%d", name, pos, got, pos-1, prev)
			}
			prev = got
		}
	}
}

func TestMapper_CacheFollowsSnapshot(t *testing.T) {
	var m Mapper
	st := document.NewState(document.FromText("abc"))
	if got := m.Text(st); got != "abc" {
		t.Fatalf("text: got %q", got)
	}
	next, _ := st.Apply(st.Tr().InsertText("Z", 4, 4))
	if got := m.Text(next); got != "abcZ" {
		t.Fatalf("text after edit: got %q, want %q", got, "abcZ")
	}
	if got := m.Len(next); got != 4 {
		t.Fatalf("len: got %d, want 4", got)
	}
	if got := m.Slice(next, 1, 99); got != "bcZ" {
		t.Fatalf("slice: got %q, want %q", got, "bcZ")
	}
}

func TestMapper_RangeOrders(t *testing.T) {
	var m Mapper
	st := document.NewState(document.FromText("hello"))
	from, to := m.Range(st, 4, 1)
	if from != 2 || to != 5 {
		t.Fatalf("range: got (%d,%d), want (2,5)", from, to)
	}
}
