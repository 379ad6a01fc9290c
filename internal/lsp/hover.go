package lsp

import (
	"context"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/analysis"
	"satyls/internal/source"
	"satyls/internal/symbols"
)

func (s *Server) TextDocumentHover(glspCtx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	snap, err := s.analyzer.Snapshot(ctx, uriToPath(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}
	off := offsetAt(snap.File, params.Position)

	if sym, span := symbolAt(snap, off); sym != nil {
		return hoverFor(markupForSymbol(sym), snap.File, span), nil
	}

	// No user binding, maybe a primitive.
	word, _ := wordAt(snap.File, wordEnd(snap.File, off))
	if e := s.cat.Lookup(word); e != nil {
		var sb strings.Builder
		sb.WriteString("```\n" + e.Name)
		if e.Signature != "" {
			sb.WriteString(" : " + e.Signature)
		}
		sb.WriteString("\n```")
		if e.Documentation != "" {
			sb.WriteString("\n\n" + e.Documentation)
		}
		return hoverFor(sb.String(), snap.File, source.Span{}), nil
	}
	return nil, nil
}

// symbolAt returns the symbol for the reference or definition under
// the offset, plus the span to highlight.
func symbolAt(snap *analysis.Snapshot, off uint32) (*symbols.Symbol, source.Span) {
	if use := snap.Table.UseAt(off); use != nil && use.Sym != nil {
		return use.Sym, use.Span
	}
	if def := snap.Table.DefAt(off); def != nil {
		return def, def.Def
	}
	return nil, source.Span{}
}

// wordEnd extends the offset to the end of the identifier under the
// cursor so hover works anywhere inside the word.
func wordEnd(file *source.File, off uint32) uint32 {
	for off < uint32(len(file.Content)) && isWordByte(file.Content[off]) {
		off++
	}
	return off
}

func markupForSymbol(sym *symbols.Symbol) string {
	var sb strings.Builder
	sb.WriteString("```\n")
	sb.WriteString(sym.Kind.String())
	sb.WriteString(" ")
	sb.WriteString(sym.QualifiedName())
	if sym.SigText != "" {
		sb.WriteString(" : ")
		sb.WriteString(sym.SigText)
	}
	sb.WriteString("\n```")
	if sym.Module != "" {
		sb.WriteString("\n\nfrom module `" + sym.Module + "`")
	}
	return sb.String()
}

func hoverFor(markdown string, file *source.File, span source.Span) *protocol.Hover {
	h := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: markdown,
		},
	}
	if !span.Empty() && span.File == file.ID {
		r := rangeOf(file, span)
		h.Range = &r
	}
	return h
}
