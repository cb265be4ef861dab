package heap

import (
	"testing"

	"github.com/xirelogy/go-lox/internal/value"
)

func TestCopyStringInterns(t *testing.T) {
	h := New()
	src := "var greeting = 1;"
	a := h.CopyString(src[4:12])
	b := h.CopyString("greeting")
	if a != b {
		t.Fatalf("equal contents must share one handle")
	}
	if h.Len() != 1 || h.Interned() != 1 {
		t.Fatalf("expected one allocation, got %d objects / %d interned", h.Len(), h.Interned())
	}
	if h.Lookup("greeting") != a || h.Lookup("missing") != nil {
		t.Fatalf("Lookup must find interned strings only")
	}
	if c := h.CopyString("other"); c == a {
		t.Fatalf("different contents must not share a handle")
	}
}

func TestTakeStringIsNotInterned(t *testing.T) {
	h := New()
	lit := h.CopyString("ab")
	cat := h.TakeString("a" + "b")
	if cat == lit {
		t.Fatalf("runtime strings must not be interned")
	}
	if !value.Equal(value.Object(cat), value.Object(lit)) {
		t.Fatalf("runtime string must still compare equal by content")
	}
	if h.Interned() != 1 || h.Len() != 2 {
		t.Fatalf("expected 2 objects and 1 interned, got %d / %d", h.Len(), h.Interned())
	}
	// a later literal with the same bytes still resolves to the interned one
	if h.CopyString("ab") != lit {
		t.Fatalf("interning table must not pick up runtime strings")
	}
}

func TestFreeReleasesEverything(t *testing.T) {
	h := New()
	for _, s := range []string{"a", "b", "c"} {
		h.CopyString(s)
		h.TakeString(s + s)
	}
	seen := 0
	h.Each(func(value.Obj) bool {
		seen++
		return true
	})
	if seen != 6 {
		t.Fatalf("expected to visit 6 objects, got %d", seen)
	}
	if n := h.Free(); n != 6 {
		t.Fatalf("expected to free 6 objects, freed %d", n)
	}
	if h.Len() != 0 || h.Interned() != 0 {
		t.Fatalf("heap not empty after Free")
	}
}
