package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// TextDocumentDefinition jumps to the declaring name. Primitives and
// unresolved names have no definition and yield an explicit empty
// result rather than an error.
func (s *Server) TextDocumentDefinition(glspCtx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	snap, err := s.analyzer.Snapshot(ctx, uriToPath(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	off := offsetAt(snap.File, params.Position)

	sym, _ := symbolAt(snap, off)
	if sym == nil {
		return nil, nil
	}
	defFile := snap.Files.Get(sym.Def.File)
	if defFile == nil {
		return nil, nil
	}
	return protocol.Location{
		URI:   pathToURI(defFile.Path),
		Range: rangeOf(defFile, sym.Def),
	}, nil
}
