package token

import "satyls/internal/source"

// TriviaKind classifies non-semantic source material carried on the
// following token.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaComment // '%' to end of line, every mode
)

// Trivia is whitespace or a comment preceding a token. The formatter
// consumes trivia to preserve comments and blank-line structure.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// IsBlankLine reports whether the trivia represents two or more
// consecutive newlines, i.e. at least one blank line in the source.
func (tr Trivia) IsBlankLine() bool {
	if tr.Kind != TriviaNewline {
		return false
	}
	count := 0
	for _, b := range []byte(tr.Text) {
		if b == '\n' {
			count++
		}
	}
	return count >= 2
}
