package parser_test

import (
	"satyls/internal/lexer"
	"satyls/internal/source"
	"satyls/internal/token"
)

func lexAll(file *source.File) []token.Token {
	return lexer.ScanAll(file)
}
