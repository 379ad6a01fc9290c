package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/format"
)

// TextDocumentFormatting re-renders the whole document. A document
// with syntax errors is left untouched, as is one whose canonical
// form already matches. The round-trip gate refuses any rendering
// that would alter the token stream.
func (s *Server) TextDocumentFormatting(glspCtx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	snap, err := s.analyzer.Snapshot(ctx, uriToPath(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	if hasErrors(snap) {
		return nil, nil
	}

	opts := s.fmtOpts
	if ts := tabSize(params.Options); ts > 0 {
		opts.IndentWidth = ts
	}
	formatted := format.Format(snap.Root, opts)
	if formatted == string(snap.File.Content) {
		return nil, nil
	}
	if !format.CheckRoundTrip(snap.File, formatted) {
		s.log.Warningf("formatting of %s failed the round-trip check", snap.File.Path)
		return nil, nil
	}

	full := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   positionAt(snap.File, uint32(len(snap.File.Content))),
	}
	return []protocol.TextEdit{{Range: full, NewText: formatted}}, nil
}

// tabSize extracts the client tab size from the open-ended options
// map. JSON numbers arrive as float64; zero means no override.
func tabSize(opts protocol.FormattingOptions) int {
	switch v := opts["tabSize"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
