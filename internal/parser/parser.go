// Package parser builds a concrete syntax tree from a token stream.
//
// Parsing never fails: syntax errors are reported through a diag.Bag
// and the malformed region is kept in the tree under an Error node, so
// every token stays reachable for position queries. Recovery resyncs
// at statement starters.
package parser

import (
	"fmt"

	"satyls/internal/cst"
	"satyls/internal/diag"
	"satyls/internal/lexer"
	"satyls/internal/source"
	"satyls/internal/token"
)

type parser struct {
	file   *source.File
	tokens []token.Token
	pos    int
	bag    *diag.Bag
}

// ParseFile lexes the file and parses the full document. The returned
// root is never nil; syntax errors land in the bag.
func ParseFile(file *source.File, bag *diag.Bag) *cst.Node {
	tokens := lexer.ScanAll(file)
	return Parse(file, tokens, bag)
}

// Parse parses a pre-lexed token stream.
func Parse(file *source.File, tokens []token.Token, bag *diag.Bag) *cst.Node {
	p := &parser{file: file, tokens: tokens, bag: bag}
	root := p.parseProgram()
	return root
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) atEOF() bool { return p.at(token.EOF) }

func (p *parser) bump() token.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

// eat consumes the current token when it matches.
func (p *parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.bump(), true
	}
	return token.Token{}, false
}

func (p *parser) errorHere(code diag.Code, format string, args ...any) {
	p.errorAt(p.cur().Span, code, format, args...)
}

func (p *parser) errorAt(sp source.Span, code diag.Code, format string, args ...any) {
	p.bag.Add(diag.NewError(code, sp, fmt.Sprintf(format, args...)))
}

// expect consumes a token of the given kind or reports an error and
// leaves the stream untouched.
func (p *parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if tok, ok := p.eat(k); ok {
		return tok, true
	}
	p.errorHere(code, "expected %s, found %s", k, p.cur().Kind)
	return token.Token{}, false
}

// skipToStatement consumes tokens until a statement starter, a closing
// brace at program level, or EOF, and returns them wrapped in an Error
// node. A nil result means nothing was skipped.
func (p *parser) skipToStatement(extra ...token.Kind) *cst.Node {
	var errNode *cst.Node
	for !p.atEOF() {
		k := p.cur().Kind
		if token.StatementStarter(k) || k == token.KwEnd {
			break
		}
		stop := false
		for _, e := range extra {
			if k == e {
				stop = true
			}
		}
		if stop {
			break
		}
		if errNode == nil {
			errNode = &cst.Node{Kind: cst.KindError}
		}
		errNode.Append(cst.NewLeaf(cst.KindError, p.bump()))
	}
	return errNode
}

func (p *parser) parseProgram() *cst.Node {
	root := &cst.Node{Kind: cst.KindProgram}
	for p.at(token.HeaderRequire) || p.at(token.HeaderImport) {
		root.Append(p.parseHeader())
	}
	for !p.atEOF() {
		start := p.pos
		root.Append(p.parseStatement())
		if p.pos == start {
			// No progress on this token, drop it to stay total.
			errNode := &cst.Node{Kind: cst.KindError}
			tok := p.bump()
			errNode.Append(cst.NewLeaf(cst.KindError, tok))
			p.errorAt(tok.Span, diag.SynMalformedStatement,
				"unexpected %s at top level", tok.Kind)
			root.Append(errNode)
		}
	}
	if len(root.Children) == 0 {
		root.Span = source.Span{File: p.file.ID}
	}
	return root
}

// parseHeader parses one @require: or @import: line.
func (p *parser) parseHeader() *cst.Node {
	node := &cst.Node{Kind: cst.KindHeader}
	node.Append(cst.NewLeaf(cst.KindToken, p.bump()))
	if name, ok := p.eat(token.HeaderName); ok {
		node.Append(cst.NewLeaf(cst.KindName, name))
	} else {
		p.errorAt(node.Span, diag.SynMalformedHeader, "header is missing a package path")
	}
	return node
}
