package cst_test

import (
	"testing"

	"satyls/internal/cst"
	"satyls/internal/source"
	"satyls/internal/token"
)

func leaf(kind cst.Kind, text string, start, end uint32) *cst.Node {
	return cst.NewLeaf(kind, token.Token{
		Kind: token.Ident,
		Span: source.Span{File: 1, Start: start, End: end},
		Text: text,
	})
}

func TestNodeSpanCoversChildren(t *testing.T) {
	n := cst.NewNode(cst.KindLet,
		leaf(cst.KindName, "x", 4, 5),
		leaf(cst.KindLiteral, "1", 8, 9),
	)
	if n.Span.Start != 4 || n.Span.End != 9 {
		t.Errorf("span = %v, want [4..9)", n.Span)
	}
	n.Append(leaf(cst.KindLiteral, "2", 10, 11))
	if n.Span.End != 11 {
		t.Errorf("span after append = %v, want end 11", n.Span)
	}
}

func TestName(t *testing.T) {
	n := cst.NewNode(cst.KindLet,
		cst.NewNode(cst.KindError, leaf(cst.KindName, "junk", 0, 4)),
		leaf(cst.KindName, "x", 4, 5),
	)
	if got := n.Name(); got != "x" {
		t.Errorf("Name() = %q, want %q (error subtrees must not leak names)", got, "x")
	}
}

func TestNodeAt(t *testing.T) {
	inner := leaf(cst.KindName, "x", 4, 5)
	mid := cst.NewNode(cst.KindLet, leaf(cst.KindToken, "let", 0, 3), inner)
	root := cst.NewNode(cst.KindProgram, mid)

	path := cst.NodeAt(root, 4)
	if len(path) == 0 {
		t.Fatal("no path")
	}
	if path[len(path)-1] != inner {
		t.Errorf("innermost = %v, want the name leaf", path[len(path)-1].Kind)
	}
	if path[0] != root {
		t.Error("path must start at root")
	}

	if got := cst.NodeAt(root, 99); got != nil {
		t.Errorf("offset outside root should yield nil, got %d nodes", len(got))
	}
}

func TestWalkPrunes(t *testing.T) {
	inner := leaf(cst.KindName, "x", 4, 5)
	errNode := cst.NewNode(cst.KindError, inner)
	root := cst.NewNode(cst.KindProgram, errNode)

	var visited []cst.Kind
	cst.Walk(root, func(n *cst.Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != cst.KindError
	})
	for _, k := range visited {
		if k == cst.KindName {
			t.Error("pruned subtree was visited")
		}
	}
}
