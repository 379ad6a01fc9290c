package diag

// Code identifies a diagnostic class. Codes are stable strings so that
// editors and tests can match on them.
type Code uint16

const (
	// CodeNone is the zero code.
	CodeNone Code = iota

	// LexUnknownChar: a byte no lexing mode could classify.
	LexUnknownChar
	// LexUnterminatedString: a string literal without its closing delimiter.
	LexUnterminatedString
	// LexUnterminatedMode: EOF arrived while text or math mode was open.
	// The lexer closes the mode implicitly; the parser turns this into a
	// syntax diagnostic with the proper span.
	LexUnterminatedMode

	// SynExpectedToken: a specific token was required.
	SynExpectedToken
	// SynExpectedIdent: an identifier was required.
	SynExpectedIdent
	// SynExpectedCmdName: a \command or +command name was required.
	SynExpectedCmdName
	// SynExpectedExpr: an expression was required.
	SynExpectedExpr
	// SynUnterminatedText: a text block was not closed before EOF.
	SynUnterminatedText
	// SynUnterminatedMath: a math block was not closed before EOF.
	SynUnterminatedMath
	// SynUnterminatedModule: a module body was not closed with 'end'.
	SynUnterminatedModule
	// SynMalformedStatement: a statement could not be parsed; an error
	// node replaces it (recoverable).
	SynMalformedStatement
	// SynAbandonedConstruct: a top-level construct could not be
	// classified and was skipped entirely (unrecoverable).
	SynAbandonedConstruct
	// SynMalformedHeader: a @require/@import header missing its payload.
	SynMalformedHeader

	// IOLoadFile: a dependency file failed to load.
	IOLoadFile
)

func (c Code) String() string {
	switch c {
	case LexUnknownChar:
		return "lex-unknown-char"
	case LexUnterminatedString:
		return "lex-unterminated-string"
	case LexUnterminatedMode:
		return "lex-unterminated-mode"
	case SynExpectedToken:
		return "syn-expected-token"
	case SynExpectedIdent:
		return "syn-expected-ident"
	case SynExpectedCmdName:
		return "syn-expected-cmd-name"
	case SynExpectedExpr:
		return "syn-expected-expr"
	case SynUnterminatedText:
		return "syn-unterminated-text"
	case SynUnterminatedMath:
		return "syn-unterminated-math"
	case SynUnterminatedModule:
		return "syn-unterminated-module"
	case SynMalformedStatement:
		return "syn-malformed-statement"
	case SynAbandonedConstruct:
		return "syn-abandoned-construct"
	case SynMalformedHeader:
		return "syn-malformed-header"
	case IOLoadFile:
		return "io-load-file"
	default:
		return "none"
	}
}
