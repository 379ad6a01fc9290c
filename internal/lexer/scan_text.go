package lexer

import (
	"satyls/internal/token"
)

// isTextSpecial lists the bytes that interrupt a prose run in text mode.
// '%' never reaches here: comments are trivia in every mode.
func isTextSpecial(b byte) bool {
	switch b {
	case '{', '}', '\\', '$', '+', ' ', '\t', '\n', '%':
		return true
	default:
		return false
	}
}

func (lx *Lexer) scanText() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Peek()

	switch {
	case b == '}':
		lx.cursor.Bump()
		tok := lx.make(token.RBrace, start, token.ModeText)
		lx.popMode()
		return tok

	case b == '{':
		lx.cursor.Bump()
		lx.pushMode(token.ModeText)
		return lx.make(token.LBrace, start, token.ModeText)

	case b == '$' && lx.cursor.PeekAt(1) == '{':
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.pushMode(token.ModeMath)
		return lx.make(token.MathStart, start, token.ModeText)

	case b == '\\':
		next := lx.cursor.PeekAt(1)
		if isLower(next) || isUpper(next) {
			return lx.scanCommandName(start, token.Cmd)
		}
		// Escaped special (\{, \}, \%, \\, \$, ...) is prose.
		lx.cursor.Bump()
		if !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
		return lx.make(token.TextChunk, start, token.ModeText)

	case b == '+' && (isLower(lx.cursor.PeekAt(1)) || isUpper(lx.cursor.PeekAt(1))):
		return lx.scanCommandName(start, token.BlockCmd)

	default:
		return lx.scanTextChunk(start)
	}
}

// scanTextChunk accumulates a maximal run of prose bytes. Multi-byte
// UTF-8 sequences pass through untouched: any byte >= 0x80 is prose.
func (lx *Lexer) scanTextChunk(start Mark) token.Token {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isTextSpecial(b) {
			break
		}
		lx.cursor.Bump()
	}
	if lx.cursor.Off == uint32(start) {
		// Defensive: a special byte slipped through (e.g. a lone '$'
		// or '+' not opening anything). Consume it as prose so the
		// lexer always makes progress.
		lx.cursor.Bump()
	}
	return lx.make(token.TextChunk, start, token.ModeText)
}

// isMathSpecial lists bytes that interrupt a math symbol run.
func isMathSpecial(b byte) bool {
	switch b {
	case '{', '}', '\\', ' ', '\t', '\n', '%':
		return true
	default:
		return false
	}
}

func (lx *Lexer) scanMath() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Peek()

	switch {
	case b == '}':
		lx.cursor.Bump()
		tok := lx.make(token.RBrace, start, token.ModeMath)
		lx.popMode()
		return tok

	case b == '{':
		lx.cursor.Bump()
		lx.pushMode(token.ModeMath)
		return lx.make(token.LBrace, start, token.ModeMath)

	case b == '\\':
		next := lx.cursor.PeekAt(1)
		if isLower(next) || isUpper(next) {
			return lx.scanCommandName(start, token.Cmd)
		}
		lx.cursor.Bump()
		if !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
		return lx.make(token.MathChunk, start, token.ModeMath)

	default:
		for !lx.cursor.EOF() && !isMathSpecial(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		if lx.cursor.Off == uint32(start) {
			lx.cursor.Bump()
		}
		return lx.make(token.MathChunk, start, token.ModeMath)
	}
}
