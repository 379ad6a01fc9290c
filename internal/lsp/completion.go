package lsp

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/analysis"
	"satyls/internal/cst"
	"satyls/internal/primitive"
	"satyls/internal/source"
	"satyls/internal/symbols"
	"satyls/internal/token"
)

// completionRegion is the syntactic position completion was asked in.
type completionRegion uint8

const (
	regionProgram completionRegion = iota
	regionText
	regionMath
	regionHeader
)

func (s *Server) TextDocumentCompletion(glspCtx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	snap, err := s.analyzer.Snapshot(ctx, uriToPath(params.TextDocument.URI))
	if err != nil {
		return nil, err
	}

	off := offsetAt(snap.File, params.Position)
	word, wordStart := wordAt(snap.File, off)
	region := regionAt(snap.Root, wordStart)

	replace := protocol.Range{
		Start: positionAt(snap.File, wordStart),
		End:   positionAt(snap.File, off),
	}

	var cands []candidate
	switch {
	case region == regionHeader:
		cands = s.headerCandidates(snap, wordStart)
	case strings.HasPrefix(word, "\\"), strings.HasPrefix(word, "+"):
		cands = s.commandCandidates(snap, off, word, region)
	case isQualified(word):
		cands = s.memberCandidates(snap, word)
	default:
		cands = s.valueCandidates(snap, off, region)
	}

	return rank(cands, word, replace), nil
}

// candidate is a completion item before filtering and ranking.
type candidate struct {
	label   string
	kind    protocol.CompletionItemKind
	detail  string
	doc     string
	insert  string
	snippet bool
}

// wordAt scans backwards for the token being typed: identifier bytes,
// one optional dot for qualified names and an optional leading sigil.
func wordAt(file *source.File, off uint32) (string, uint32) {
	start := off
	for start > 0 {
		b := file.Content[start-1]
		if isWordByte(b) || b == '.' {
			start--
			continue
		}
		break
	}
	if start > 0 && (file.Content[start-1] == '\\' || file.Content[start-1] == '+') {
		start--
	}
	return string(file.Content[start:off]), start
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b == '-' || b == '_'
}

func isQualified(word string) bool {
	return len(word) > 0 && word[0] >= 'A' && word[0] <= 'Z' &&
		strings.Contains(word, ".")
}

// regionAt classifies the position by the innermost enclosing node.
func regionAt(root *cst.Node, off uint32) completionRegion {
	path := cst.NodeAt(root, off)
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i].Kind {
		case cst.KindHeader:
			return regionHeader
		case cst.KindMathBlock:
			return regionMath
		case cst.KindTextBlock:
			return regionText
		}
	}
	return regionProgram
}

// commandCandidates serves \cmd and +cmd positions: user-defined
// commands visible here, then primitives of the matching mode. A user
// command suppresses a primitive with the same name.
func (s *Server) commandCandidates(snap *analysis.Snapshot, off uint32, word string, region completionRegion) []candidate {
	var wantKind symbols.Kind
	var wantMode primitive.Mode
	switch {
	case strings.HasPrefix(word, "+"):
		wantKind, wantMode = symbols.KindBlockCmd, primitive.ModeBlock
	case region == regionMath:
		wantKind, wantMode = symbols.KindMathCmd, primitive.ModeMath
	default:
		wantKind, wantMode = symbols.KindInlineCmd, primitive.ModeInline
	}

	var out []candidate
	taken := make(map[string]bool)
	for _, sym := range snap.Table.VisibleAt(off) {
		if sym.Kind != wantKind {
			continue
		}
		taken[sym.Name] = true
		out = append(out, symbolCandidate(sym))
	}
	for _, e := range s.cat.ByMode(wantMode) {
		if taken[e.Name] {
			continue
		}
		out = append(out, primitiveCandidate(e))
	}
	return out
}

// memberCandidates serves Mod. positions with the module's exported
// members.
func (s *Server) memberCandidates(snap *analysis.Snapshot, word string) []candidate {
	modName := word[:strings.IndexByte(word, '.')]
	info := snap.Table.Modules[modName]
	if info == nil {
		return nil
	}
	var out []candidate
	for _, m := range info.Exported() {
		c := symbolCandidate(m)
		bare := strings.TrimLeft(m.Name, "\\+")
		c.label = modName + "." + bare
		c.insert = c.label
		out = append(out, c)
	}
	return out
}

// valueCandidates serves plain program positions: everything visible
// plus program-mode primitives.
func (s *Server) valueCandidates(snap *analysis.Snapshot, off uint32, region completionRegion) []candidate {
	if region != regionProgram {
		return nil
	}
	var out []candidate
	taken := make(map[string]bool)
	for _, sym := range snap.Table.VisibleAt(off) {
		switch sym.Kind {
		case symbols.KindInlineCmd, symbols.KindBlockCmd, symbols.KindMathCmd:
			continue
		}
		taken[sym.Name] = true
		out = append(out, symbolCandidate(sym))
	}
	for _, e := range s.cat.ByMode(primitive.ModeProgram) {
		if taken[e.Name] {
			continue
		}
		out = append(out, primitiveCandidate(e))
	}
	return out
}

// headerCandidates serves dependency headers. @require: lines offer
// installed packages; @import: lines offer files next to the document.
func (s *Server) headerCandidates(snap *analysis.Snapshot, off uint32) []candidate {
	dirs := s.pkgRoots
	detail := "package"
	if headerKindAt(snap.Root, off) == token.HeaderImport {
		dirs = []string{filepath.Dir(snap.File.Path)}
		detail = "file"
	}

	var out []candidate
	seen := make(map[string]bool)
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() {
				ext := ""
				if i := strings.LastIndexByte(name, '.'); i >= 0 {
					ext = name[i:]
					name = name[:i]
				}
				if ext != ".satyh" && ext != ".satyg" {
					continue
				}
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, candidate{
				label:  name,
				kind:   protocol.CompletionItemKindModule,
				detail: detail,
				insert: name,
			})
		}
	}
	return out
}

// headerKindAt reports which header marker encloses the offset.
func headerKindAt(root *cst.Node, off uint32) token.Kind {
	path := cst.NodeAt(root, off)
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Kind != cst.KindHeader {
			continue
		}
		if first := path[i].FirstToken(); first != nil {
			return first.Kind
		}
	}
	return token.HeaderRequire
}

func symbolCandidate(sym *symbols.Symbol) candidate {
	c := candidate{
		label:  sym.Name,
		detail: sym.SigText,
		insert: sym.Name,
	}
	switch sym.Kind {
	case symbols.KindInlineCmd, symbols.KindBlockCmd, symbols.KindMathCmd:
		c.kind = protocol.CompletionItemKindFunction
	case symbols.KindModule:
		c.kind = protocol.CompletionItemKindModule
	case symbols.KindParam:
		c.kind = protocol.CompletionItemKindVariable
	default:
		c.kind = protocol.CompletionItemKindValue
	}
	if c.detail == "" {
		c.detail = sym.Kind.String()
	}
	return c
}

func primitiveCandidate(e *primitive.Entry) candidate {
	insert := e.InsertText
	if insert == "" {
		insert = e.Name
	}
	return candidate{
		label:   e.Name,
		kind:    protocol.CompletionItemKindFunction,
		detail:  e.Signature,
		doc:     e.Documentation,
		insert:  insert,
		snippet: e.Snippet,
	}
}

// rank filters candidates against the typed word and orders them:
// exact prefix matches first, then substring matches, lexicographic
// within each group. The order is fixed through SortText.
func rank(cands []candidate, word string, replace protocol.Range) []protocol.CompletionItem {
	needle := strings.TrimLeft(word, "\\+")
	type scored struct {
		c     candidate
		group byte
	}
	var kept []scored
	for _, c := range cands {
		bare := strings.TrimLeft(c.label, "\\+")
		switch {
		case needle == "" || strings.HasPrefix(bare, needle):
			kept = append(kept, scored{c, '0'})
		case strings.Contains(bare, needle):
			kept = append(kept, scored{c, '1'})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].group != kept[j].group {
			return kept[i].group < kept[j].group
		}
		return kept[i].c.label < kept[j].c.label
	})

	items := make([]protocol.CompletionItem, 0, len(kept))
	for _, sc := range kept {
		c := sc.c
		item := protocol.CompletionItem{
			Label:    c.label,
			Kind:     &c.kind,
			SortText: strPtr(string(sc.group) + "_" + c.label),
			TextEdit: protocol.TextEdit{Range: replace, NewText: c.insert},
		}
		if c.detail != "" {
			item.Detail = strPtr(c.detail)
		}
		if c.doc != "" {
			item.Documentation = c.doc
		}
		if c.snippet {
			fmtSnippet := protocol.InsertTextFormatSnippet
			item.InsertTextFormat = &fmtSnippet
		}
		items = append(items, item)
	}
	return items
}

func strPtr(s string) *string { return &s }
