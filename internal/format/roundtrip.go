package format

import (
	"satyls/internal/lexer"
	"satyls/internal/source"
	"satyls/internal/token"
)

// CheckRoundTrip verifies that formatting preserved the document's
// token stream: same kinds, same texts, whitespace aside. It is the
// safety gate before a formatting edit is handed to the client.
func CheckRoundTrip(original *source.File, formatted string) bool {
	fs := source.NewFileSet()
	id := fs.AddVirtual(original.Path, []byte(formatted))
	after := significant(lexer.ScanAll(fs.Get(id)))
	before := significant(lexer.ScanAll(original))
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if before[i].Kind != after[i].Kind || before[i].Text != after[i].Text {
			return false
		}
	}
	return true
}

func significant(toks []token.Token) []token.Token {
	out := toks[:0:0]
	for _, t := range toks {
		if t.Kind == token.EOF {
			continue
		}
		out = append(out, t)
	}
	return out
}
