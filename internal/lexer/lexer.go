// Package lexer turns source bytes into a mode-aware token stream. It is
// total: every byte of input is consumed by exactly one token or by the
// leading trivia of the following token, and arbitrary input never makes
// it fail. Program, text and math submodes are tracked with an explicit
// mode stack; EOF inside an open mode closes all modes implicitly and
// recovery is left to the parser.
package lexer

import (
	"satyls/internal/source"
	"satyls/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	modes  []token.Mode
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // accumulated leading trivia

	// pendingHeader makes the next significant token a HeaderName
	// covering the rest of the line after a @require:/@import: marker.
	pendingHeader bool
}

// New creates a lexer for the file, starting in program mode.
func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		modes:  []token.Mode{token.ModeProgram},
	}
}

// Mode returns the currently active lexing mode.
func (lx *Lexer) Mode() token.Mode {
	return lx.modes[len(lx.modes)-1]
}

func (lx *Lexer) pushMode(m token.Mode) {
	lx.modes = append(lx.modes, m)
}

func (lx *Lexer) popMode() {
	if len(lx.modes) > 1 {
		lx.modes = lx.modes[:len(lx.modes)-1]
	}
}

// Next returns the next significant token with its leading trivia
// attached. After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.EmptySpan(),
			Mode: lx.Mode(),
		}
	}

	var tok token.Token
	if lx.pendingHeader {
		tok = lx.scanHeaderName()
	} else {
		switch lx.Mode() {
		case token.ModeProgram:
			tok = lx.scanProgram()
		case token.ModeText:
			tok = lx.scanText()
		case token.ModeMath:
			tok = lx.scanMath()
		}
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan is a zero-width span at the current position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// ScanAll lexes the whole file into a token slice ending with EOF.
func ScanAll(file *source.File) []token.Token {
	lx := New(file)
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

// collectLeadingTrivia gathers whitespace and '%' comments before the
// next significant token. Runs of spaces/tabs coalesce into one
// TriviaSpace; runs of newlines (with interleaved horizontal space)
// coalesce into one TriviaNewline so blank lines survive as one unit.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: lx.file.Text(sp),
			})
			continue
		}

		if b == '\n' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != '\n' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: lx.file.Text(sp),
			})
			// A newline ends a pending header payload even when the
			// payload turned out to be empty; the parser reports the
			// malformed header when HeaderName never arrives.
			lx.pendingHeader = false
			continue
		}

		// '%' starts a comment to end of line in every mode.
		if b == '%' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaComment,
				Span: sp,
				Text: lx.file.Text(sp),
			})
			continue
		}

		break
	}
}

func (lx *Lexer) make(kind token.Kind, start Mark, mode token.Mode) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: lx.file.Text(sp),
		Mode: mode,
	}
}
