package source

import (
	"testing"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("a.saty", []byte("let x = 1"))
	b := fs.AddVirtual("b.saty", []byte("let y = 2"))
	if a == b {
		t.Fatalf("expected distinct file IDs, got %d twice", a)
	}
	if fs.Get(a).Path != "a.saty" || fs.Get(b).Path != "b.saty" {
		t.Errorf("paths not preserved: %q %q", fs.Get(a).Path, fs.Get(b).Path)
	}
}

func TestAddVirtualNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("doc.saty", []byte("let a = 1\r\nlet b = 2\r\n"))
	f := fs.Get(id)
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
	if string(f.Content) != "let a = 1\nlet b = 2\n" {
		t.Errorf("content not normalized: %q", f.Content)
	}
}

func TestToLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("doc.saty", []byte("abc\ndef\nghi"))
	f := fs.Get(id)

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 1, 4}, // the newline itself still belongs to line 1
		{4, 2, 1},
		{8, 3, 1},
		{10, 3, 3},
	}
	for _, tc := range cases {
		lc := f.LineColAt(tc.off)
		if lc.Line != tc.line || lc.Col != tc.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", tc.off, lc.Line, lc.Col, tc.line, tc.col)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("doc.saty", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1: %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("line 3: %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("line 4 should be empty, got %q", got)
	}
}

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 8 {
		t.Errorf("cover: got %v", c)
	}
	if !a.Contains(4) || a.Contains(8) {
		t.Error("Contains must be half-open")
	}
	if !a.ContainsInclusive(8) {
		t.Error("ContainsInclusive must accept the end offset")
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cover across files must be a no-op, got %v", got)
	}
}
