package lsp

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/source"
)

func fileOf(t *testing.T, text string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("doc.saty", []byte(text)))
}

func TestOffsetAt(t *testing.T) {
	f := fileOf(t, "let a = 1\nlet b = 2\n")
	cases := []struct {
		line, char uint32
		want       uint32
	}{
		{0, 0, 0},
		{0, 4, 4},
		{0, 99, 9},  // clamped at the newline
		{1, 0, 10},
		{1, 4, 14},
		{99, 0, 20}, // clamped at EOF
	}
	for _, tc := range cases {
		got := offsetAt(f, protocol.Position{Line: tc.line, Character: tc.char})
		if got != tc.want {
			t.Errorf("offsetAt(%d:%d) = %d, want %d", tc.line, tc.char, got, tc.want)
		}
	}
}

func TestPositionAtSingleLine(t *testing.T) {
	f := fileOf(t, "let a = 1")
	got := positionAt(f, 4)
	if got.Line != 0 || got.Character != 4 {
		t.Fatalf("positionAt(4) = %d:%d, want 0:4", got.Line, got.Character)
	}
}

func TestPositionOffsetRoundTrip(t *testing.T) {
	f := fileOf(t, "let a = 1\nlet b = 2\nlet c = 3")
	for _, off := range []uint32{0, 4, 9, 10, 14, 20, 28} {
		pos := positionAt(f, off)
		back := offsetAt(f, pos)
		if back != off {
			t.Errorf("offset %d -> %d:%d -> %d", off, pos.Line, pos.Character, back)
		}
	}
}

func TestPositionCountsUTF16Units(t *testing.T) {
	// The emoji takes 4 bytes but 2 UTF-16 units.
	f := fileOf(t, "a\U0001F600b")
	pos := positionAt(f, 5)
	if pos.Line != 0 || pos.Character != 3 {
		t.Fatalf("positionAt(5) = %d:%d, want 0:3", pos.Line, pos.Character)
	}
	if got := offsetAt(f, protocol.Position{Line: 0, Character: 3}); got != 5 {
		t.Fatalf("offsetAt(0:3) = %d, want 5", got)
	}
}

func TestTabSizeFromOptionsMap(t *testing.T) {
	if got := tabSize(protocol.FormattingOptions{"tabSize": float64(4)}); got != 4 {
		t.Fatalf("tabSize(float64) = %d, want 4", got)
	}
	if got := tabSize(protocol.FormattingOptions{"tabSize": 3}); got != 3 {
		t.Fatalf("tabSize(int) = %d, want 3", got)
	}
	if got := tabSize(protocol.FormattingOptions{}); got != 0 {
		t.Fatalf("tabSize(empty) = %d, want 0", got)
	}
}
