package parser

import (
	"satyls/internal/cst"
	"satyls/internal/diag"
	"satyls/internal/token"
)

// exprStop reports whether a token terminates the current expression.
func exprStop(k token.Kind) bool {
	switch k {
	case token.EOF, token.RParen, token.RBracket, token.RBrace,
		token.Semicolon, token.Comma, token.KwEnd:
		return true
	}
	return token.StatementStarter(k)
}

// parseExpr parses an application sequence of atoms and operators. It
// is deliberately flat: the language server needs names, command
// applications and nesting structure, not operator precedence.
func (p *parser) parseExpr() *cst.Node {
	node := &cst.Node{Kind: cst.KindExpr}
	for !exprStop(p.cur().Kind) {
		start := p.pos
		node.Append(p.parseAtom())
		if p.pos == start {
			errNode := cst.NewNode(cst.KindError, cst.NewLeaf(cst.KindError, p.bump()))
			p.errorAt(errNode.Span, diag.SynExpectedExpr,
				"unexpected %s in expression", errNode.FirstToken().Kind)
			node.Append(errNode)
		}
	}
	if len(node.Children) == 0 {
		p.errorHere(diag.SynExpectedExpr, "expected an expression, found %s", p.cur().Kind)
		return nil
	}
	return node
}

func (p *parser) parseAtom() *cst.Node {
	switch p.cur().Kind {
	case token.Ident:
		return cst.NewLeaf(cst.KindName, p.bump())
	case token.ModIdent:
		return p.parseQualifiedName()
	case token.IntLit, token.FloatLit, token.LengthLit, token.StringLit,
		token.KwTrue, token.KwFalse:
		return cst.NewLeaf(cst.KindLiteral, p.bump())
	case token.LBrace:
		return p.parseTextBlock()
	case token.MathStart:
		return p.parseMathBlock()
	case token.LParen:
		return p.parseParenExpr()
	case token.LBracket:
		return p.parseListExpr()
	case token.KwFun:
		return p.parseLambda()
	case token.Plus, token.Minus, token.Star, token.Slash, token.Lt,
		token.Gt, token.Amp, token.Bang, token.Question, token.Hash,
		token.Bar, token.Dot, token.Arrow, token.Colon:
		return cst.NewLeaf(cst.KindToken, p.bump())
	default:
		return nil
	}
}

// parseQualifiedName parses `Mod`, `Mod.name` and `Mod.Sub.name`.
func (p *parser) parseQualifiedName() *cst.Node {
	node := &cst.Node{Kind: cst.KindName}
	node.Append(cst.NewLeaf(cst.KindName, p.bump()))
	for p.at(token.Dot) {
		node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
		switch p.cur().Kind {
		case token.Ident, token.ModIdent:
			node.Append(cst.NewLeaf(cst.KindName, p.bump()))
		default:
			// Dangling dot, the member is being typed. Keep the node so
			// completion can see the module prefix.
			return node
		}
	}
	return node
}

func (p *parser) parseParenExpr() *cst.Node {
	node := &cst.Node{Kind: cst.KindExpr}
	open := p.bump()
	node.Append(cst.NewLeaf(cst.KindToken, open))
	if inner := p.parseExpr(); inner != nil {
		node.Append(inner)
	}
	if rp, ok := p.eat(token.RParen); ok {
		node.Append(cst.NewLeaf(cst.KindToken, rp))
	} else {
		p.errorAt(open.Span, diag.SynExpectedToken, "unclosed parenthesis")
	}
	return node
}

func (p *parser) parseListExpr() *cst.Node {
	node := &cst.Node{Kind: cst.KindExpr}
	open := p.bump()
	node.Append(cst.NewLeaf(cst.KindToken, open))
	for !p.atEOF() && !p.at(token.RBracket) {
		if semi, ok := p.eat(token.Semicolon); ok {
			node.Append(cst.NewLeaf(cst.KindToken, semi))
			continue
		}
		if inner := p.parseExpr(); inner != nil {
			node.Append(inner)
		} else {
			break
		}
	}
	if rb, ok := p.eat(token.RBracket); ok {
		node.Append(cst.NewLeaf(cst.KindToken, rb))
	} else {
		p.errorAt(open.Span, diag.SynExpectedToken, "unclosed bracket")
	}
	return node
}

// parseLambda parses `fun params -> expr`.
func (p *parser) parseLambda() *cst.Node {
	node := &cst.Node{Kind: cst.KindExpr}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	node.Append(p.parseParams())
	if arrow, ok := p.eat(token.Arrow); ok {
		node.Append(cst.NewLeaf(cst.KindToken, arrow))
	} else {
		p.errorHere(diag.SynExpectedToken, "expected -> after fun parameters")
	}
	if body := p.parseExpr(); body != nil {
		node.Append(body)
	}
	return node
}
