package symbols

import (
	"strings"

	"satyls/internal/cst"
	"satyls/internal/source"
	"satyls/internal/token"
)

// HeaderKind distinguishes the two dependency headers.
type HeaderKind uint8

const (
	// HeaderRequire loads a package from the package root.
	HeaderRequire HeaderKind = iota
	// HeaderImport loads a file relative to the document.
	HeaderImport
)

// HeaderRef is one @require: or @import: line.
type HeaderRef struct {
	Kind HeaderKind
	// Name is the package path as written.
	Name string
	// Span covers the payload token.
	Span source.Span
}

type resolver struct {
	table *Table
}

// Resolve walks the tree and builds the symbol table. Dependency
// tables are merged in first so their exports are referable. It never
// fails: unresolved references are recorded with a nil symbol.
func Resolve(file *source.File, root *cst.Node, deps ...*Table) *Table {
	fileSpan := source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))}
	t := &Table{
		File:    file,
		Root:    &Scope{Span: fileSpan},
		Modules: make(map[string]*ModuleInfo),
	}
	for _, dep := range deps {
		t.Merge(dep)
	}
	r := &resolver{table: t}
	r.stmts(root.Children, t.Root, "")
	t.sortIndexes()
	return t
}

func (r *resolver) stmts(nodes []*cst.Node, sc *Scope, module string) {
	for _, n := range nodes {
		switch n.Kind {
		case cst.KindHeader:
			r.header(n)
		case cst.KindLet:
			r.binding(n, sc, module, KindLet)
		case cst.KindLetMutable:
			r.binding(n, sc, module, KindMutable)
		case cst.KindLetInline:
			r.binding(n, sc, module, KindInlineCmd)
		case cst.KindLetBlock:
			r.binding(n, sc, module, KindBlockCmd)
		case cst.KindLetMath:
			r.binding(n, sc, module, KindMathCmd)
		case cst.KindModule:
			r.module(n, sc)
		case cst.KindOpen:
			r.open(n, sc)
		case cst.KindExpr:
			r.expr(n, sc)
		case cst.KindError:
			// Skipped tokens bind nothing.
		}
	}
}

func (r *resolver) header(n *cst.Node) {
	kind := HeaderRequire
	if first := n.FirstToken(); first != nil && first.Kind == token.HeaderImport {
		kind = HeaderImport
	}
	for _, c := range n.Children {
		if c.Kind == cst.KindName && c.Tok != nil && c.Tok.Kind == token.HeaderName {
			r.table.Headers = append(r.table.Headers, HeaderRef{
				Kind: kind,
				Name: c.Tok.Text,
				Span: c.Tok.Span,
			})
		}
	}
}

// binding declares the bound name in sc and walks the body in a child
// scope holding the parameters. The name is visible in its own body,
// bindings are recursive.
func (r *resolver) binding(n *cst.Node, sc *Scope, module string, kind Kind) {
	nameLeaf := findNameLeaf(n)
	if nameLeaf != nil {
		sym := &Symbol{
			Name: nameLeaf.Tok.Text,
			Kind: kind,
			Def:  nameLeaf.Tok.Span,
			Visible: source.Span{
				File:  sc.Span.File,
				Start: nameLeaf.Tok.Span.Start,
				End:   sc.Span.End,
			},
			Module: module,
		}
		sc.declare(sym)
		r.table.Defs = append(r.table.Defs, sym)
	}

	body := sc
	if params := n.ChildOfKind(cst.KindParams); params != nil {
		body = sc.child(n.Span)
		r.declareParams(params, body)
	}
	for _, c := range n.Children {
		switch c.Kind {
		case cst.KindExpr, cst.KindTextBlock, cst.KindMathBlock:
			r.expr(c, body)
		}
	}
}

func (r *resolver) declareParams(params *cst.Node, sc *Scope) {
	for _, p := range params.Children {
		if p.Kind != cst.KindParam {
			continue
		}
		leaf := findNameLeaf(p)
		if leaf == nil {
			continue
		}
		sym := &Symbol{
			Name: leaf.Tok.Text,
			Kind: KindParam,
			Def:  leaf.Tok.Span,
			Visible: source.Span{
				File:  sc.Span.File,
				Start: leaf.Tok.Span.Start,
				End:   sc.Span.End,
			},
		}
		sc.declare(sym)
		r.table.Defs = append(r.table.Defs, sym)
	}
}

func (r *resolver) open(n *cst.Node, sc *Scope) {
	leaf := findNameLeaf(n)
	if leaf == nil {
		return
	}
	r.use(leaf.Tok.Span, leaf.Tok.Text, r.lookupModuleSym(sc, leaf.Tok.Text, leaf.Tok.Span.Start))
	sc.opens = append(sc.opens, openEntry{at: n.Span.End, module: leaf.Tok.Text})
}

func (r *resolver) module(n *cst.Node, sc *Scope) {
	nameLeaf := findNameLeaf(n)
	name := ""
	var sym *Symbol
	if nameLeaf != nil {
		name = nameLeaf.Tok.Text
		sym = &Symbol{
			Name: name,
			Kind: KindModule,
			Def:  nameLeaf.Tok.Span,
			Visible: source.Span{
				File:  sc.Span.File,
				Start: nameLeaf.Tok.Span.Start,
				End:   sc.Span.End,
			},
		}
		sc.declare(sym)
		r.table.Defs = append(r.table.Defs, sym)
	}

	info := &ModuleInfo{Name: name, Sym: sym}
	sigEntries, sigTypes := collectSig(n.ChildOfKind(cst.KindSig))

	structNode := n.ChildOfKind(cst.KindStruct)
	body := sc.child(n.Span)
	body.Module = name
	info.Scope = body
	if structNode != nil {
		r.stmts(structNode.Children, body, name)
	}

	// Signature-driven visibility: with a sig, unlisted members are
	// private; without one, everything is public.
	for _, member := range body.Symbols {
		if member.Kind == KindParam {
			continue
		}
		if sigEntries != nil {
			entry, listed := sigEntries[member.Name]
			if !listed {
				member.Vis = VisPrivate
			} else {
				member.Vis = entry.vis
				member.SigText = entry.sigText
			}
		}
		info.Members = append(info.Members, member)
	}
	for _, ts := range sigTypes {
		ts.Module = name
		info.Types = append(info.Types, ts)
		r.table.Defs = append(r.table.Defs, ts)
	}
	if name != "" {
		r.table.Modules[name] = info
	}
}

type sigEntry struct {
	vis     Visibility
	sigText string
}

// collectSig reads the exported names out of a signature node. A nil
// map means there was no signature.
func collectSig(sig *cst.Node) (map[string]sigEntry, []*Symbol) {
	if sig == nil {
		return nil, nil
	}
	entries := make(map[string]sigEntry)
	var types []*Symbol
	for _, c := range sig.Children {
		switch c.Kind {
		case cst.KindSigVal, cst.KindSigDirect:
			leaf := findNameLeaf(c)
			if leaf == nil {
				continue
			}
			vis := VisPublic
			if c.Kind == cst.KindSigDirect {
				vis = VisDirect
			}
			entries[leaf.Tok.Text] = sigEntry{vis: vis, sigText: sigTypeText(c)}
		case cst.KindSigType:
			leaf := findNameLeaf(c)
			if leaf == nil {
				continue
			}
			types = append(types, &Symbol{
				Name:    leaf.Tok.Text,
				Kind:    KindType,
				Def:     leaf.Tok.Span,
				Visible: leaf.Tok.Span,
			})
		}
	}
	return entries, types
}

// sigTypeText reconstructs the declared type of a sig entry from its
// raw tokens.
func sigTypeText(entry *cst.Node) string {
	expr := entry.ChildOfKind(cst.KindExpr)
	if expr == nil {
		return ""
	}
	var parts []string
	cst.Walk(expr, func(n *cst.Node) bool {
		if n.Tok != nil {
			parts = append(parts, n.Tok.Text)
		}
		return true
	})
	return strings.Join(parts, " ")
}

// expr records uses for every name and command application under the
// node, descending into nested text and math.
func (r *resolver) expr(n *cst.Node, sc *Scope) {
	if n == nil {
		return
	}
	scope := sc
	if n.Kind == cst.KindExpr {
		if params := n.ChildOfKind(cst.KindParams); params != nil {
			// fun params -> body
			scope = sc.child(n.Span)
			r.declareParams(params, scope)
		}
	}
	for _, c := range n.Children {
		switch c.Kind {
		case cst.KindName:
			r.nameUse(c, scope)
		case cst.KindInlineCmdApp, cst.KindBlockCmdApp, cst.KindMathCmdApp:
			r.cmdUse(c, scope)
		case cst.KindExpr, cst.KindTextBlock, cst.KindMathBlock, cst.KindCmdArg:
			r.expr(c, scope)
		}
	}
}

// nameUse resolves a plain or qualified name reference.
func (r *resolver) nameUse(n *cst.Node, sc *Scope) {
	if n.Tok != nil {
		// Plain identifier.
		r.use(n.Tok.Span, n.Tok.Text, r.lookup(sc, n.Tok.Text, n.Tok.Span.Start))
		return
	}
	// Qualified: Mod . name, possibly with a dangling dot.
	var mod, member *cst.Node
	for _, c := range n.Children {
		if c.Kind != cst.KindName || c.Tok == nil {
			continue
		}
		if mod == nil {
			mod = c
		} else {
			member = c
		}
	}
	if mod == nil {
		return
	}
	modSym := r.lookupModuleSym(sc, mod.Tok.Text, mod.Tok.Span.Start)
	r.use(mod.Tok.Span, mod.Tok.Text, modSym)
	if member == nil {
		return
	}
	var memberSym *Symbol
	if info := r.table.Modules[mod.Tok.Text]; info != nil && modSym != nil {
		memberSym = info.Member(member.Tok.Text)
	}
	// The member use covers only the member token, so the prefix keeps
	// resolving to the module and the member to the exported symbol.
	r.use(member.Tok.Span, mod.Tok.Text+"."+member.Tok.Text, memberSym)
}

// cmdUse resolves a command application name, \cmd, +cmd or
// \Mod.cmd.
func (r *resolver) cmdUse(n *cst.Node, sc *Scope) {
	leaf := findNameLeaf(n)
	if leaf != nil {
		text := leaf.Tok.Text
		if mod, cmd, ok := splitQualifiedCmd(text); ok {
			var sym *Symbol
			if info := r.table.Modules[mod]; info != nil &&
				r.lookupModuleSym(sc, mod, leaf.Tok.Span.Start) != nil {
				sym = info.Member(cmd)
			}
			r.use(leaf.Tok.Span, text, sym)
		} else {
			r.use(leaf.Tok.Span, text, r.lookup(sc, text, leaf.Tok.Span.Start))
		}
	}
	for _, c := range n.Children {
		if c.Kind == cst.KindCmdArg {
			r.expr(c, sc)
		}
	}
}

// splitQualifiedCmd splits \Mod.cmd into Mod and \cmd. The sigil
// moves to the member name, which is how the member was declared.
func splitQualifiedCmd(text string) (mod, cmd string, ok bool) {
	if len(text) < 2 {
		return "", "", false
	}
	sigil, rest := text[:1], text[1:]
	i := strings.LastIndexByte(rest, '.')
	if i < 0 {
		return "", "", false
	}
	return rest[:i], sigil + rest[i+1:], true
}

func (r *resolver) use(sp source.Span, name string, sym *Symbol) {
	r.table.Uses = append(r.table.Uses, Use{Span: sp, Name: name, Sym: sym})
}

// lookup resolves a name at an offset: scope chain innermost first,
// then opened modules, then direct members of visible modules.
func (r *resolver) lookup(sc *Scope, name string, off uint32) *Symbol {
	for s := sc; s != nil; s = s.Parent {
		if sym := s.lookupLocal(name, off); sym != nil {
			return sym
		}
		for _, o := range s.opens {
			if o.at > off {
				continue
			}
			if info := r.table.Modules[o.module]; info != nil {
				if sym := info.Member(name); sym != nil {
					return sym
				}
			}
		}
		for _, candidate := range s.Symbols {
			if candidate.Kind != KindModule || !candidate.Visible.ContainsInclusive(off) {
				continue
			}
			info := r.table.Modules[candidate.Name]
			if info == nil {
				continue
			}
			for _, m := range info.Members {
				if m.Vis == VisDirect && m.Name == name {
					return m
				}
			}
		}
	}
	return nil
}

func (r *resolver) lookupModuleSym(sc *Scope, name string, off uint32) *Symbol {
	sym := r.lookup(sc, name, off)
	if sym != nil && sym.Kind == KindModule {
		return sym
	}
	return nil
}

// findNameLeaf returns the first Name leaf under the node, skipping
// error subtrees.
func findNameLeaf(n *cst.Node) *cst.Node {
	if n.Kind == cst.KindName && n.Tok != nil {
		return n
	}
	for _, c := range n.Children {
		if c.Kind == cst.KindError {
			continue
		}
		if c.Kind == cst.KindName && c.Tok != nil {
			return c
		}
		if c.Kind == cst.KindName || c.Kind == cst.KindParam {
			if leaf := findNameLeaf(c); leaf != nil {
				return leaf
			}
		}
	}
	return nil
}
