package token

import (
	"satyls/internal/source"
)

// Mode is the lexing mode active when a token was produced. The same byte
// lexes differently per mode, so providers need the mode to interpret a
// token at the cursor.
type Mode uint8

const (
	// ModeProgram covers statements, expressions and headers.
	ModeProgram Mode = iota
	// ModeText covers horizontal prose between { and }.
	ModeText
	// ModeMath covers math material between ${ and }.
	ModeMath
)

func (m Mode) String() string {
	switch m {
	case ModeProgram:
		return "program"
	case ModeText:
		return "text"
	case ModeMath:
		return "math"
	default:
		return "unknown"
	}
}

// Token represents a single source token with its location, mode and
// leading trivia. Immutable once produced.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Mode    Mode
	Leading []Trivia
}

// IsKeyword reports whether the token is a program-mode keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwLet, KwLetInline, KwLetBlock, KwLetMath, KwLetMutable,
		KwModule, KwSig, KwStruct, KwEnd, KwOpen, KwDirect, KwVal,
		KwType, KwIn, KwFun, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, LengthLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsCommandName reports whether the token names an inline, math or block
// command.
func (t Token) IsCommandName() bool {
	return t.Kind == Cmd || t.Kind == BlockCmd
}

// StatementStarter reports whether the kind can begin a program-mode
// statement. This is the parser's synchronization set.
func StatementStarter(k Kind) bool {
	switch k {
	case KwLet, KwLetInline, KwLetBlock, KwLetMath, KwLetMutable,
		KwModule, KwOpen, KwVal, KwDirect, KwType, KwIn,
		HeaderRequire, HeaderImport:
		return true
	default:
		return false
	}
}
