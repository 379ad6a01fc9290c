// Package cst defines the concrete syntax tree produced by the parser.
//
// The tree is lossy upward, never downward: every token the lexer
// produced is reachable from the root, including tokens the parser
// could not fit into a construct (those live under Error nodes). Node
// spans therefore tile the document, which is what position-based
// queries rely on.
package cst

import (
	"satyls/internal/source"
	"satyls/internal/token"
)

// Node is a concrete syntax tree node. Leaf nodes carry a token and
// have no children; interior nodes carry children and derive their
// span from them.
type Node struct {
	Kind     Kind
	Span     source.Span
	Children []*Node
	// Tok is set on leaf nodes only.
	Tok *token.Token
}

// NewLeaf wraps a single token.
func NewLeaf(kind Kind, tok token.Token) *Node {
	t := tok
	return &Node{Kind: kind, Span: tok.Span, Tok: &t}
}

// NewNode builds an interior node covering its children.
func NewNode(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind, Children: children}
	n.recomputeSpan()
	return n
}

// Append adds a child and extends the node span.
func (n *Node) Append(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	if n.Span.Empty() && n.Span.Start == 0 && n.Span.End == 0 {
		n.Span = child.Span
		return
	}
	n.Span = n.Span.Cover(child.Span)
}

func (n *Node) recomputeSpan() {
	if len(n.Children) == 0 {
		return
	}
	sp := n.Children[0].Span
	for _, c := range n.Children[1:] {
		sp = sp.Cover(c.Span)
	}
	n.Span = sp
}

// IsLeaf reports whether the node wraps a single token.
func (n *Node) IsLeaf() bool { return n.Tok != nil }

// FirstToken returns the leftmost token under the node, or nil for an
// empty interior node.
func (n *Node) FirstToken() *token.Token {
	if n.Tok != nil {
		return n.Tok
	}
	for _, c := range n.Children {
		if tok := c.FirstToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// ChildOfKind returns the first direct child of the given kind.
func (n *Node) ChildOfKind(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Name returns the text of the first Name leaf under the node. It is
// how binding nodes expose the name they introduce.
func (n *Node) Name() string {
	if n.Kind == KindName && n.Tok != nil {
		return n.Tok.Text
	}
	for _, c := range n.Children {
		if c.Kind == KindError {
			continue
		}
		if name := c.Name(); name != "" {
			return name
		}
	}
	return ""
}

// Walk calls fn for the node and every descendant in document order.
// Returning false from fn prunes the subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// NodeAt returns the smallest node whose span contains the offset,
// walking the path from the root. The returned slice is the ancestor
// chain, root first, innermost last. A nil result means the offset is
// outside the root span.
func NodeAt(root *Node, off uint32) []*Node {
	if root == nil || !root.Span.ContainsInclusive(off) {
		return nil
	}
	path := []*Node{root}
	cur := root
	for {
		var next *Node
		for _, c := range cur.Children {
			if c.Span.ContainsInclusive(off) {
				next = c
			}
			if c.Span.Start > off {
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		cur = next
	}
}
