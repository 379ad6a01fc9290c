package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/source"
)

// Protocol positions count lines from zero and characters in UTF-16
// code units. Internally everything is a byte offset, so requests and
// responses convert at this boundary.

// lineStart returns the byte offset where the zero-based line begins.
// File.LineIdx stores newline offsets, so line n starts one past
// newline n-1 and line 0 starts at zero.
func lineStart(file *source.File, line int) uint32 {
	if line <= 0 {
		return 0
	}
	if line > len(file.LineIdx) {
		return uint32(len(file.Content))
	}
	return file.LineIdx[line-1] + 1
}

// offsetAt maps a protocol position to a byte offset, clamped to the
// document.
func offsetAt(file *source.File, pos protocol.Position) uint32 {
	off := lineStart(file, int(pos.Line))
	end := uint32(len(file.Content))

	units := uint32(0)
	for off < end && units < pos.Character {
		r, size := utf8.DecodeRune(file.Content[off:])
		if r == '\n' {
			break
		}
		units += uint32(len(utf16.Encode([]rune{r})))
		off += uint32(size)
	}
	return off
}

// positionAt maps a byte offset to a protocol position.
func positionAt(file *source.File, off uint32) protocol.Position {
	if off > uint32(len(file.Content)) {
		off = uint32(len(file.Content))
	}
	lc := file.LineColAt(off)
	start := lineStart(file, int(lc.Line)-1)

	units := uint32(0)
	for i := start; i < off; {
		r, size := utf8.DecodeRune(file.Content[i:])
		units += uint32(len(utf16.Encode([]rune{r})))
		i += uint32(size)
	}
	return protocol.Position{Line: uint32(lc.Line - 1), Character: units}
}

// rangeOf converts a span within the file to a protocol range.
func rangeOf(file *source.File, sp source.Span) protocol.Range {
	return protocol.Range{
		Start: positionAt(file, sp.Start),
		End:   positionAt(file, sp.End),
	}
}
