package format

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"satyls/internal/cst"
	"satyls/internal/token"
)

// Format renders the tree canonically. The input tree may contain
// error nodes; their tokens are reproduced verbatim so formatting
// never loses source text.
func Format(root *cst.Node, opts Options) string {
	opts = opts.normalized()
	p := &printer{w: newWriter(opts.IndentWidth), opts: opts}
	p.stmts(root.Children)
	return p.w.String()
}

type printer struct {
	w    *writer
	opts Options
}

func (p *printer) stmts(nodes []*cst.Node) {
	prevHeader := false
	for i, n := range nodes {
		if i > 0 && blankBefore(n) {
			p.w.blank()
		} else if prevHeader && n.Kind != cst.KindHeader {
			// One separating line after the header block.
			p.w.blank()
		}
		p.comments(n)
		p.stmt(n)
		prevHeader = n.Kind == cst.KindHeader
	}
}

// blankBefore reports whether the source kept an empty line before the
// node. The formatter preserves intentional grouping.
func blankBefore(n *cst.Node) bool {
	first := n.FirstToken()
	if first == nil {
		return false
	}
	for _, tr := range first.Leading {
		if tr.IsBlankLine() {
			return true
		}
	}
	return false
}

// comments re-emits every comment found in the statement's subtree,
// each on its own line above the statement.
func (p *printer) comments(n *cst.Node) {
	cst.Walk(n, func(c *cst.Node) bool {
		if c.Tok == nil {
			return true
		}
		for _, tr := range c.Tok.Leading {
			if tr.Kind == token.TriviaComment {
				p.w.line(strings.TrimRight(tr.Text, " \t"))
			}
		}
		return true
	})
}

func (p *printer) stmt(n *cst.Node) {
	switch n.Kind {
	case cst.KindHeader:
		p.header(n)
	case cst.KindModule:
		p.module(n)
	default:
		p.binding(n)
	}
}

func (p *printer) header(n *cst.Node) {
	var marker, name string
	for _, c := range n.Children {
		if c.Tok == nil {
			continue
		}
		switch c.Tok.Kind {
		case token.HeaderRequire, token.HeaderImport:
			marker = c.Tok.Text
		case token.HeaderName:
			name = c.Tok.Text
		}
	}
	p.w.line(strings.TrimSpace(marker + " " + name))
}

// binding renders a statement on one line when it fits, otherwise the
// body moves below the = sign.
func (p *printer) binding(n *cst.Node) {
	inline := renderInline(n)
	if p.fits(inline) {
		p.w.line(inline)
		return
	}
	head, body := splitAtAssign(n)
	if body == nil {
		p.w.line(inline)
		return
	}
	// The parser wraps a lone body in an expression node.
	for body.Kind == cst.KindExpr && len(body.Children) == 1 {
		body = body.Children[0]
	}
	if body.Kind == cst.KindTextBlock {
		p.w.line(renderInline(head) + " {")
		p.w.indent()
		p.textLines(body)
		p.w.outdent()
		p.w.line("}")
		return
	}
	p.w.line(renderInline(head))
	p.w.indent()
	p.w.line(renderInline(body))
	p.w.outdent()
}

// splitAtAssign divides a binding into everything up to = and the
// single body node after it.
func splitAtAssign(n *cst.Node) (head *cst.Node, body *cst.Node) {
	head = &cst.Node{Kind: n.Kind}
	seen := false
	for _, c := range n.Children {
		if seen {
			if body == nil {
				body = c
			} else {
				// More than one node after =, give up on splitting.
				return n, nil
			}
			continue
		}
		head.Append(c)
		if c.Tok != nil && c.Tok.Kind == token.Assign {
			seen = true
		}
	}
	if !seen {
		return n, nil
	}
	return head, body
}

// textLines wraps the items of a text block greedily at the width
// limit.
func (p *printer) textLines(block *cst.Node) {
	avail := p.opts.MaxWidth - p.w.depth*p.opts.IndentWidth
	var line strings.Builder
	flush := func() {
		if line.Len() > 0 {
			p.w.line(line.String())
			line.Reset()
		}
	}
	for _, c := range block.Children {
		if c.Tok != nil && (c.Tok.Kind == token.LBrace || c.Tok.Kind == token.RBrace) &&
			(c == block.Children[0] || c == block.Children[len(block.Children)-1]) {
			continue
		}
		piece := renderInline(c)
		if piece == "" {
			continue
		}
		if line.Len() > 0 && runewidth.StringWidth(line.String())+1+runewidth.StringWidth(piece) > avail {
			flush()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(piece)
	}
	flush()
}

func (p *printer) module(n *cst.Node) {
	head := "module"
	if name := n.Name(); name != "" {
		head += " " + name
	}
	sig := n.ChildOfKind(cst.KindSig)
	if sig != nil {
		p.w.line(head + " : sig")
		p.w.indent()
		for _, entry := range sig.Children {
			switch entry.Kind {
			case cst.KindSigVal, cst.KindSigDirect, cst.KindSigType:
				p.w.line(renderInline(entry))
			}
		}
		p.w.outdent()
		p.w.line("end = struct")
	} else {
		p.w.line(head + " = struct")
	}
	p.w.indent()
	if body := n.ChildOfKind(cst.KindStruct); body != nil {
		var inner []*cst.Node
		for _, c := range body.Children {
			if c.Tok != nil && (c.Tok.Kind == token.KwStruct || c.Tok.Kind == token.KwEnd) {
				continue
			}
			inner = append(inner, c)
		}
		p.stmts(inner)
	}
	p.w.outdent()
	p.w.line("end")
}

func (p *printer) fits(s string) bool {
	return runewidth.StringWidth(s)+p.w.depth*p.opts.IndentWidth <= p.opts.MaxWidth
}
