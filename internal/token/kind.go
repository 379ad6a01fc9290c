package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. The lexer never drops bytes:
	// anything it cannot classify becomes one Invalid token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents a lowercase value identifier (kebab-case allowed).
	Ident
	// ModIdent represents a capitalized module identifier.
	ModIdent
	// Cmd represents an inline/math command name, backslash included
	// (`\emph`, `\Math.frac`). Whether it is an inline or a math command
	// is decided by the mode recorded on the token.
	Cmd
	// BlockCmd represents a block command name, plus sign included
	// (`+section`, `+Outline.chapter`).
	BlockCmd

	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwLetInline represents the 'let-inline' keyword.
	KwLetInline // let-inline
	// KwLetBlock represents the 'let-block' keyword.
	KwLetBlock // let-block
	// KwLetMath represents the 'let-math' keyword.
	KwLetMath // let-math
	// KwLetMutable represents the 'let-mutable' keyword.
	KwLetMutable // let-mutable
	// KwModule represents the 'module' keyword.
	KwModule // module
	// KwSig represents the 'sig' keyword.
	KwSig // sig
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwEnd represents the 'end' keyword.
	KwEnd // end
	// KwOpen represents the 'open' keyword.
	KwOpen // open
	// KwDirect represents the 'direct' keyword.
	KwDirect // direct
	// KwVal represents the 'val' keyword.
	KwVal // val
	// KwType represents the 'type' keyword.
	KwType // type
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwFun represents the 'fun' keyword.
	KwFun // fun
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false

	// HeaderRequire represents a '@require:' header marker.
	HeaderRequire // @require:
	// HeaderImport represents an '@import:' header marker.
	HeaderImport // @import:
	// HeaderName represents the package name/path following a header marker.
	HeaderName

	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// LengthLit represents a dimensioned literal such as `12pt` or `1.5cm`.
	LengthLit
	// StringLit represents a backtick- or double-quote-delimited string.
	StringLit

	// TextChunk represents a run of plain prose in text mode.
	TextChunk
	// MathChunk represents a run of math symbols in math mode.
	MathChunk

	// MathStart represents the '${' math-mode opener.
	MathStart // ${
	// LBrace represents '{' (opens text mode from program mode, a group in
	// text mode).
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// Semicolon represents ';'.
	Semicolon // ;
	// Comma represents ','.
	Comma // ,
	// Dot represents '.'.
	Dot // .
	// Colon represents ':'.
	Colon // :
	// Assign represents '='.
	Assign // =
	// Arrow represents '->'.
	Arrow // ->
	// Bar represents '|'.
	Bar // |
	// Plus represents '+'.
	Plus // +
	// Minus represents '-'.
	Minus // -
	// Star represents '*'.
	Star // *
	// Slash represents '/'.
	Slash // /
	// Lt represents '<'.
	Lt // <
	// Gt represents '>'.
	Gt // >
	// Amp represents '&'.
	Amp // &
	// Bang represents '!'.
	Bang // !
	// Question represents '?'.
	Question // ?
	// Hash represents '#'.
	Hash // #
	// At represents a bare '@' that is not part of a header marker.
	At // @
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Ident:
		return "ident"
	case ModIdent:
		return "mod-ident"
	case Cmd:
		return "cmd"
	case BlockCmd:
		return "block-cmd"
	case KwLet:
		return "let"
	case KwLetInline:
		return "let-inline"
	case KwLetBlock:
		return "let-block"
	case KwLetMath:
		return "let-math"
	case KwLetMutable:
		return "let-mutable"
	case KwModule:
		return "module"
	case KwSig:
		return "sig"
	case KwStruct:
		return "struct"
	case KwEnd:
		return "end"
	case KwOpen:
		return "open"
	case KwDirect:
		return "direct"
	case KwVal:
		return "val"
	case KwType:
		return "type"
	case KwIn:
		return "in"
	case KwFun:
		return "fun"
	case KwTrue:
		return "true"
	case KwFalse:
		return "false"
	case HeaderRequire:
		return "@require:"
	case HeaderImport:
		return "@import:"
	case HeaderName:
		return "header-name"
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case LengthLit:
		return "length"
	case StringLit:
		return "string"
	case TextChunk:
		return "text"
	case MathChunk:
		return "math"
	case MathStart:
		return "${"
	case LBrace:
		return "{"
	case RBrace:
		return "}"
	case LParen:
		return "("
	case RParen:
		return ")"
	case LBracket:
		return "["
	case RBracket:
		return "]"
	case Semicolon:
		return ";"
	case Comma:
		return ","
	case Dot:
		return "."
	case Colon:
		return ":"
	case Assign:
		return "="
	case Arrow:
		return "->"
	case Bar:
		return "|"
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Star:
		return "*"
	case Slash:
		return "/"
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Amp:
		return "&"
	case Bang:
		return "!"
	case Question:
		return "?"
	case Hash:
		return "#"
	case At:
		return "@"
	default:
		return "unknown"
	}
}
