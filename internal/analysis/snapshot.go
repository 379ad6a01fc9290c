// Package analysis turns document text into immutable snapshots and
// keeps them fresh as edits arrive. A snapshot bundles everything the
// feature providers read: tokens, tree, symbol table and diagnostics.
// Snapshots are never mutated after publication, so providers can use
// them without locks while newer versions are being computed.
package analysis

import (
	"context"

	"satyls/internal/cst"
	"satyls/internal/diag"
	"satyls/internal/lexer"
	"satyls/internal/parser"
	"satyls/internal/source"
	"satyls/internal/symbols"
	"satyls/internal/token"
)

// maxDiagnostics caps the diagnostics kept per document.
const maxDiagnostics = 200

// Snapshot is one fully analyzed state of a document.
type Snapshot struct {
	// Version is the client-supplied document version the snapshot was
	// built from.
	Version int32
	// Files holds the document and every dependency file loaded for
	// this snapshot; definition targets resolve through it.
	Files  *source.FileSet
	File   *source.File
	Tokens []token.Token
	Root   *cst.Node
	Table  *symbols.Table
	// Diags is sorted and deduplicated.
	Diags []diag.Diagnostic
}

// build runs the full pipeline for one document. The context is
// checked between phases so superseded runs stop early.
func build(ctx context.Context, fs *source.FileSet, file *source.File, version int32, deps []*symbols.Table) (*Snapshot, error) {
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.ScanAll(file)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root := parser.Parse(file, tokens, bag)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table := symbols.Resolve(file, root, deps...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bag.Sort()
	bag.Dedup()
	return &Snapshot{
		Version: version,
		Files:   fs,
		File:    file,
		Tokens:  tokens,
		Root:    root,
		Table:   table,
		Diags:   bag.Items(),
	}, nil
}
