package format

import (
	"strings"

	"satyls/internal/cst"
	"satyls/internal/token"
)

// renderInline flattens a subtree to a single line, normalizing
// whitespace between tokens.
func renderInline(n *cst.Node) string {
	var toks []*token.Token
	cst.Walk(n, func(c *cst.Node) bool {
		if c.Tok != nil {
			toks = append(toks, c.Tok)
		}
		return true
	})
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 && needSpace(toks[i-1], t) {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// needSpace decides the canonical spacing between two adjacent tokens.
func needSpace(prev, next *token.Token) bool {
	switch next.Kind {
	case token.RBrace, token.RParen, token.RBracket,
		token.Semicolon, token.Comma, token.Dot:
		return false
	}
	switch prev.Kind {
	case token.LBrace, token.LParen, token.LBracket, token.MathStart, token.Dot:
		return false
	case token.Cmd, token.BlockCmd:
		// Arguments attach directly to the command name.
		switch next.Kind {
		case token.LBrace, token.LParen, token.LBracket, token.MathStart:
			return false
		}
	}
	return true
}
