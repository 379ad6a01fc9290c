package parser

import (
	"satyls/internal/cst"
	"satyls/internal/diag"
	"satyls/internal/token"
)

// parseTextBlock parses a braced text-mode region. The current token
// is the opening brace. An unterminated block is reported once, at the
// opening brace, and the partial node is kept.
func (p *parser) parseTextBlock() *cst.Node {
	node := &cst.Node{Kind: cst.KindTextBlock}
	open := p.bump()
	node.Append(cst.NewLeaf(cst.KindToken, open))
	for {
		switch p.cur().Kind {
		case token.RBrace:
			node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
			return node
		case token.EOF:
			p.errorAt(open.Span.Cover(p.cur().Span), diag.SynUnterminatedText, "unterminated text block")
			return node
		case token.TextChunk:
			node.Append(cst.NewLeaf(cst.KindLiteral, p.bump()))
		case token.LBrace:
			node.Append(p.parseTextBlock())
		case token.MathStart:
			node.Append(p.parseMathBlock())
		case token.Cmd:
			node.Append(p.parseCmdApp(cst.KindInlineCmdApp))
		case token.BlockCmd:
			node.Append(p.parseCmdApp(cst.KindBlockCmdApp))
		case token.Invalid:
			// A lone command sigil. Keep it so completion can see the
			// position is a command context.
			tok := p.bump()
			p.errorAt(tok.Span, diag.SynExpectedCmdName, "expected a command name after \\")
			node.Append(cst.NewNode(cst.KindError, cst.NewLeaf(cst.KindError, tok)))
		default:
			node.Append(cst.NewNode(cst.KindError, cst.NewLeaf(cst.KindError, p.bump())))
		}
	}
}

// parseCmdApp parses a command application inside text: the command
// name followed by its arguments, optionally closed by a semicolon.
func (p *parser) parseCmdApp(kind cst.Kind) *cst.Node {
	node := &cst.Node{Kind: kind}
	node.Append(cst.NewLeaf(cst.KindName, p.bump()))
	for {
		switch p.cur().Kind {
		case token.LBrace:
			node.Append(cst.NewNode(cst.KindCmdArg, p.parseTextBlock()))
		case token.MathStart:
			node.Append(cst.NewNode(cst.KindCmdArg, p.parseMathBlock()))
		case token.LParen:
			node.Append(cst.NewNode(cst.KindCmdArg, p.parseParenExpr()))
		case token.LBracket:
			node.Append(cst.NewNode(cst.KindCmdArg, p.parseListExpr()))
		case token.Semicolon:
			node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
			return node
		default:
			return node
		}
	}
}

// parseMathBlock parses a ${...} region or a nested brace group inside
// math. The current token is MathStart or LBrace.
func (p *parser) parseMathBlock() *cst.Node {
	node := &cst.Node{Kind: cst.KindMathBlock}
	open := p.bump()
	node.Append(cst.NewLeaf(cst.KindToken, open))
	for {
		switch p.cur().Kind {
		case token.RBrace:
			node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
			return node
		case token.EOF:
			p.errorAt(open.Span.Cover(p.cur().Span), diag.SynUnterminatedMath, "unterminated math")
			return node
		case token.MathChunk:
			node.Append(cst.NewLeaf(cst.KindLiteral, p.bump()))
		case token.LBrace:
			node.Append(p.parseMathBlock())
		case token.Cmd:
			node.Append(p.parseMathCmdApp())
		case token.Invalid:
			tok := p.bump()
			p.errorAt(tok.Span, diag.SynExpectedCmdName, "expected a command name after \\")
			node.Append(cst.NewNode(cst.KindError, cst.NewLeaf(cst.KindError, tok)))
		default:
			node.Append(cst.NewNode(cst.KindError, cst.NewLeaf(cst.KindError, p.bump())))
		}
	}
}

// parseMathCmdApp parses a command inside math with brace-group
// arguments, \frac{a}{b}.
func (p *parser) parseMathCmdApp() *cst.Node {
	node := &cst.Node{Kind: cst.KindMathCmdApp}
	node.Append(cst.NewLeaf(cst.KindName, p.bump()))
	for p.at(token.LBrace) {
		node.Append(cst.NewNode(cst.KindCmdArg, p.parseMathBlock()))
	}
	return node
}
