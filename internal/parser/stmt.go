package parser

import (
	"satyls/internal/cst"
	"satyls/internal/diag"
	"satyls/internal/token"
)

func (p *parser) parseStatement() *cst.Node {
	switch p.cur().Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwLetInline:
		return p.parseLetCommand(cst.KindLetInline, token.Cmd)
	case token.KwLetBlock:
		return p.parseLetCommand(cst.KindLetBlock, token.BlockCmd)
	case token.KwLetMath:
		return p.parseLetCommand(cst.KindLetMath, token.Cmd)
	case token.KwLetMutable:
		return p.parseLetMutable()
	case token.KwModule:
		return p.parseModule()
	case token.KwOpen:
		return p.parseOpen()
	case token.KwIn:
		return p.parseTrailingExpr()
	case token.HeaderRequire, token.HeaderImport:
		node := p.parseHeader()
		p.errorAt(node.Span, diag.SynMalformedHeader,
			"headers must appear before the first statement")
		return node
	default:
		p.errorHere(diag.SynMalformedStatement,
			"expected a statement, found %s", p.cur().Kind)
		if node := p.skipToStatement(); node != nil {
			return node
		}
		// Current token is itself a sync point we cannot use here.
		return cst.NewNode(cst.KindError, cst.NewLeaf(cst.KindError, p.bump()))
	}
}

// parseLet parses `let name params = expr`.
func (p *parser) parseLet() *cst.Node {
	node := &cst.Node{Kind: cst.KindLet}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	if name, ok := p.expect(token.Ident, diag.SynExpectedIdent); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	} else {
		node.Append(p.skipToStatement(token.Assign))
	}
	node.Append(p.parseParams())
	p.finishBindingBody(node)
	return node
}

// parseLetCommand parses the let-inline, let-block and let-math forms.
// The bound name is a command token, \name or +name.
func (p *parser) parseLetCommand(kind cst.Kind, nameKind token.Kind) *cst.Node {
	node := &cst.Node{Kind: kind}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	if name, ok := p.eat(nameKind); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	} else {
		p.errorHere(diag.SynExpectedCmdName,
			"expected a command name, found %s", p.cur().Kind)
		node.Append(p.skipToStatement(token.Assign))
	}
	node.Append(p.parseParams())
	p.finishBindingBody(node)
	return node
}

// parseLetMutable parses `let-mutable name <- expr`.
func (p *parser) parseLetMutable() *cst.Node {
	node := &cst.Node{Kind: cst.KindLetMutable}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	if name, ok := p.expect(token.Ident, diag.SynExpectedIdent); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	}
	// The binding arrow is written `<-`.
	if lt, ok := p.eat(token.Lt); ok {
		node.Append(cst.NewLeaf(cst.KindToken, lt))
		if minus, ok := p.eat(token.Minus); ok {
			node.Append(cst.NewLeaf(cst.KindToken, minus))
		} else {
			p.errorHere(diag.SynExpectedToken, "expected <- after mutable name")
		}
	} else {
		p.errorHere(diag.SynExpectedToken, "expected <- after mutable name")
		node.Append(p.skipToStatement())
		return node
	}
	node.Append(p.parseExpr())
	return node
}

// parseParams collects parameter identifiers up to the `=` sign.
func (p *parser) parseParams() *cst.Node {
	params := &cst.Node{Kind: cst.KindParams}
	for p.at(token.Ident) {
		tok := p.bump()
		params.Append(cst.NewNode(cst.KindParam, cst.NewLeaf(cst.KindName, tok)))
	}
	if len(params.Children) == 0 {
		return nil
	}
	return params
}

// finishBindingBody consumes `= expr` shared by the let forms.
func (p *parser) finishBindingBody(node *cst.Node) {
	if eq, ok := p.eat(token.Assign); ok {
		node.Append(cst.NewLeaf(cst.KindToken, eq))
		node.Append(p.parseExpr())
		return
	}
	p.errorHere(diag.SynExpectedToken, "expected = in binding, found %s", p.cur().Kind)
	node.Append(p.skipToStatement())
}

// parseOpen parses `open ModName`.
func (p *parser) parseOpen() *cst.Node {
	node := &cst.Node{Kind: cst.KindOpen}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	if name, ok := p.expect(token.ModIdent, diag.SynExpectedIdent); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	}
	return node
}

// parseTrailingExpr parses the document-final `in expr`.
func (p *parser) parseTrailingExpr() *cst.Node {
	node := &cst.Node{Kind: cst.KindExpr}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	node.Append(p.parseExpr())
	return node
}

// parseModule parses `module Name : sig ... end = struct ... end`.
// The signature part is optional.
func (p *parser) parseModule() *cst.Node {
	node := &cst.Node{Kind: cst.KindModule}
	kw := p.bump()
	node.Append(cst.NewLeaf(cst.KindToken, kw))
	if name, ok := p.expect(token.ModIdent, diag.SynExpectedIdent); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	}
	if colon, ok := p.eat(token.Colon); ok {
		node.Append(cst.NewLeaf(cst.KindToken, colon))
		node.Append(p.parseSig())
	}
	if eq, ok := p.eat(token.Assign); ok {
		node.Append(cst.NewLeaf(cst.KindToken, eq))
	} else {
		p.errorHere(diag.SynExpectedToken, "expected = before module body")
	}
	node.Append(p.parseStruct(kw))
	return node
}

func (p *parser) parseSig() *cst.Node {
	node := &cst.Node{Kind: cst.KindSig}
	if kw, ok := p.expect(token.KwSig, diag.SynExpectedToken); ok {
		node.Append(cst.NewLeaf(cst.KindToken, kw))
	}
	for !p.atEOF() {
		switch p.cur().Kind {
		case token.KwEnd:
			node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
			return node
		case token.KwVal:
			node.Append(p.parseSigEntry(cst.KindSigVal))
		case token.KwDirect:
			node.Append(p.parseSigEntry(cst.KindSigDirect))
		case token.KwType:
			node.Append(p.parseSigType())
		default:
			// Anything else cannot start a signature entry. Stop at a
			// statement starter so an unterminated sig does not swallow
			// the rest of the document.
			if token.StatementStarter(p.cur().Kind) {
				p.errorAt(node.Span, diag.SynUnterminatedModule,
					"signature is missing end")
				return node
			}
			errNode := &cst.Node{Kind: cst.KindError}
			errNode.Append(cst.NewLeaf(cst.KindError, p.bump()))
			node.Append(errNode)
		}
	}
	p.errorAt(node.Span, diag.SynUnterminatedModule, "signature is missing end")
	return node
}

// parseSigEntry parses `val name : type` and `direct \name : type`.
// The type text after the colon is kept as raw tokens; it surfaces in
// hover and completion details without deeper interpretation.
func (p *parser) parseSigEntry(kind cst.Kind) *cst.Node {
	node := &cst.Node{Kind: kind}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	switch p.cur().Kind {
	case token.Ident, token.Cmd, token.BlockCmd:
		node.Append(cst.NewLeaf(cst.KindName, p.bump()))
	case token.LParen:
		// Operator exports like val (+) : int -> int -> int.
		node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
		for !p.atEOF() && !p.at(token.RParen) {
			node.Append(cst.NewLeaf(cst.KindName, p.bump()))
		}
		if rp, ok := p.eat(token.RParen); ok {
			node.Append(cst.NewLeaf(cst.KindToken, rp))
		}
	default:
		p.errorHere(diag.SynExpectedIdent,
			"expected a name after %s", node.FirstToken().Kind)
	}
	if colon, ok := p.eat(token.Colon); ok {
		node.Append(cst.NewLeaf(cst.KindToken, colon))
		node.Append(p.parseSigTypeText())
	}
	return node
}

func (p *parser) parseSigType() *cst.Node {
	node := &cst.Node{Kind: cst.KindSigType}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	if name, ok := p.expect(token.Ident, diag.SynExpectedIdent); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	}
	return node
}

// parseSigTypeText consumes the raw type tokens of a signature entry,
// stopping before the next entry keyword or end.
func (p *parser) parseSigTypeText() *cst.Node {
	node := &cst.Node{Kind: cst.KindExpr}
	for !p.atEOF() {
		k := p.cur().Kind
		if k == token.KwVal || k == token.KwDirect || k == token.KwType ||
			k == token.KwEnd || token.StatementStarter(k) {
			break
		}
		node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	}
	return node
}

func (p *parser) parseStruct(moduleKw token.Token) *cst.Node {
	node := &cst.Node{Kind: cst.KindStruct}
	if kw, ok := p.eat(token.KwStruct); ok {
		node.Append(cst.NewLeaf(cst.KindToken, kw))
	} else {
		p.errorHere(diag.SynExpectedToken,
			"expected struct, found %s", p.cur().Kind)
		node.Append(p.skipToStatement())
		return node
	}
	for !p.atEOF() {
		if end, ok := p.eat(token.KwEnd); ok {
			node.Append(cst.NewLeaf(cst.KindToken, end))
			return node
		}
		start := p.pos
		node.Append(p.parseStatement())
		if p.pos == start {
			errNode := &cst.Node{Kind: cst.KindError}
			errNode.Append(cst.NewLeaf(cst.KindError, p.bump()))
			node.Append(errNode)
		}
	}
	p.errorAt(moduleKw.Span.Cover(p.cur().Span), diag.SynUnterminatedModule, "module body is missing end")
	return node
}
