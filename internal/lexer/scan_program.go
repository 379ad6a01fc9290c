package lexer

import (
	"satyls/internal/token"
)

func isLower(b byte) bool { return 'a' <= b && b <= 'z' }
func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }
func isDec(b byte) bool   { return '0' <= b && b <= '9' }

// isIdentContinue matches the tail of a kebab-case identifier.
func isIdentContinue(b byte) bool {
	return isLower(b) || isUpper(b) || isDec(b) || b == '-' || b == '_'
}

func (lx *Lexer) scanProgram() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Peek()

	switch {
	case isLower(b) || b == '_':
		return lx.scanIdentOrKeyword(start)

	case isUpper(b):
		lx.scanIdentTail()
		return lx.make(token.ModIdent, start, token.ModeProgram)

	case isDec(b):
		return lx.scanNumber(start)

	case b == '\\':
		return lx.scanCommandName(start, token.Cmd)

	case b == '+':
		if isLower(lx.cursor.PeekAt(1)) || isUpper(lx.cursor.PeekAt(1)) {
			return lx.scanCommandName(start, token.BlockCmd)
		}
		lx.cursor.Bump()
		return lx.make(token.Plus, start, token.ModeProgram)

	case b == '`':
		return lx.scanString(start)

	case b == '@':
		if lx.cursor.EatString("@require:") {
			lx.pendingHeader = true
			return lx.make(token.HeaderRequire, start, token.ModeProgram)
		}
		if lx.cursor.EatString("@import:") {
			lx.pendingHeader = true
			return lx.make(token.HeaderImport, start, token.ModeProgram)
		}
		lx.cursor.Bump()
		return lx.make(token.At, start, token.ModeProgram)

	case b == '$':
		if lx.cursor.PeekAt(1) == '{' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.pushMode(token.ModeMath)
			return lx.make(token.MathStart, start, token.ModeProgram)
		}
		lx.cursor.Bump()
		return lx.make(token.Invalid, start, token.ModeProgram)

	case b == '{':
		lx.cursor.Bump()
		lx.pushMode(token.ModeText)
		return lx.make(token.LBrace, start, token.ModeProgram)

	case b == '}':
		lx.cursor.Bump()
		return lx.make(token.RBrace, start, token.ModeProgram)

	default:
		return lx.scanPunct(start)
	}
}

func (lx *Lexer) scanIdentTail() {
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) scanIdentOrKeyword(start Mark) token.Token {
	lx.scanIdentTail()
	tok := lx.make(token.Ident, start, token.ModeProgram)
	tok.Kind = token.LookupKeyword(tok.Text)
	return tok
}

// scanCommandName scans `\name`, `+name` and their module-qualified forms
// (`\Mod.name`). The sigil is part of the token text.
func (lx *Lexer) scanCommandName(start Mark, kind token.Kind) token.Token {
	lx.cursor.Bump() // sigil
	if !isLower(lx.cursor.Peek()) && !isUpper(lx.cursor.Peek()) {
		// A lone sigil: emit it as Invalid so completion can still see
		// the command context while the user is typing.
		return lx.make(token.Invalid, start, lx.Mode())
	}
	for {
		lx.scanIdentTail()
		if lx.cursor.Peek() == '.' && (isLower(lx.cursor.PeekAt(1)) || isUpper(lx.cursor.PeekAt(1))) {
			lx.cursor.Bump()
			continue
		}
		break
	}
	return lx.make(kind, start, lx.Mode())
}

func (lx *Lexer) scanNumber(start Mark) token.Token {
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	isFloat := false
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		isFloat = true
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	// Unit suffix turns the number into a length: 12pt, 1.5cm.
	if isLower(lx.cursor.Peek()) {
		for isLower(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.make(token.LengthLit, start, token.ModeProgram)
	}
	if isFloat {
		return lx.make(token.FloatLit, start, token.ModeProgram)
	}
	return lx.make(token.IntLit, start, token.ModeProgram)
}

// scanString scans a backtick-delimited literal. An unterminated literal
// runs to EOF and stays a StringLit: lexical anomalies are never fatal.
func (lx *Lexer) scanString(start Mark) token.Token {
	lx.cursor.Bump() // opening backtick
	for !lx.cursor.EOF() && lx.cursor.Peek() != '`' {
		lx.cursor.Bump()
	}
	lx.cursor.Eat('`')
	return lx.make(token.StringLit, start, token.ModeProgram)
}

func (lx *Lexer) scanPunct(start Mark) token.Token {
	b := lx.cursor.Bump()
	kind := token.Invalid
	switch b {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case ':':
		kind = token.Colon
	case '=':
		kind = token.Assign
	case '|':
		kind = token.Bar
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '<':
		kind = token.Lt
	case '>':
		kind = token.Gt
	case '&':
		kind = token.Amp
	case '!':
		kind = token.Bang
	case '?':
		kind = token.Question
	case '#':
		kind = token.Hash
	case '-':
		if lx.cursor.Eat('>') {
			kind = token.Arrow
		} else {
			kind = token.Minus
		}
	}
	return lx.make(kind, start, token.ModeProgram)
}

// scanHeaderName consumes the rest of the line after a header marker,
// stopping before trailing comments.
func (lx *Lexer) scanHeaderName() token.Token {
	lx.pendingHeader = false
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || b == '%' {
			break
		}
		lx.cursor.Bump()
	}
	// Trim trailing horizontal space out of the span.
	end := lx.cursor.Off
	for end > uint32(start) {
		b := lx.file.Content[end-1]
		if b != ' ' && b != '\t' {
			break
		}
		end--
	}
	// Leave the cursor before the trimmed spaces so they reach the next
	// token as trivia; every byte stays accounted for.
	lx.cursor.Off = end
	return lx.make(token.HeaderName, start, token.ModeProgram)
}
