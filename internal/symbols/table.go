package symbols

import (
	"sort"

	"satyls/internal/source"
)

// Table is the resolved name environment of one document.
type Table struct {
	File *source.File
	Root *Scope
	// Modules maps module name to its export surface.
	Modules map[string]*ModuleInfo
	// Uses lists every reference in the document, sorted by start
	// offset.
	Uses []Use
	// Defs lists every declared symbol, sorted by definition start.
	Defs []*Symbol
	// Headers lists the dependency headers in document order.
	Headers []HeaderRef
}

func (t *Table) sortIndexes() {
	sort.SliceStable(t.Uses, func(i, j int) bool {
		if t.Uses[i].Span.Start != t.Uses[j].Span.Start {
			return t.Uses[i].Span.Start < t.Uses[j].Span.Start
		}
		// Smaller span first so UseAt prefers the tighter reference.
		return t.Uses[i].Span.Len() < t.Uses[j].Span.Len()
	})
	sort.SliceStable(t.Defs, func(i, j int) bool {
		return t.Defs[i].Def.Start < t.Defs[j].Def.Start
	})
}

// ScopeAt returns the innermost scope containing the offset.
func (t *Table) ScopeAt(off uint32) *Scope {
	return t.Root.innermostAt(off)
}

// UseAt returns the reference covering the offset, or nil. When
// references nest, a qualified name around its module part, the
// tightest one wins.
func (t *Table) UseAt(off uint32) *Use {
	var best *Use
	for i := range t.Uses {
		u := &t.Uses[i]
		if u.Span.Start > off {
			break
		}
		if !u.Span.ContainsInclusive(off) {
			continue
		}
		if best == nil || u.Span.Len() <= best.Span.Len() {
			best = u
		}
	}
	return best
}

// DefAt returns the symbol whose defining name covers the offset, or
// nil. Hover and definition on a definition site resolve to itself.
func (t *Table) DefAt(off uint32) *Symbol {
	for _, s := range t.Defs {
		if s.Def.Start > off {
			break
		}
		if s.Def.ContainsInclusive(off) {
			return s
		}
	}
	return nil
}

// Lookup resolves a name as seen from the given offset.
func (t *Table) Lookup(name string, off uint32) *Symbol {
	r := &resolver{table: t}
	return r.lookup(t.ScopeAt(off), name, off)
}

// VisibleAt lists every symbol referable at the offset: the scope
// chain, opened module exports and direct members of visible modules.
// Inner bindings shadow outer ones of the same name.
func (t *Table) VisibleAt(off uint32) []*Symbol {
	seen := make(map[string]bool)
	var out []*Symbol
	add := func(s *Symbol) {
		if s == nil || seen[s.Name] {
			return
		}
		seen[s.Name] = true
		out = append(out, s)
	}
	for sc := t.ScopeAt(off); sc != nil; sc = sc.Parent {
		for i := len(sc.Symbols) - 1; i >= 0; i-- {
			s := sc.Symbols[i]
			if s.Visible.ContainsInclusive(off) {
				add(s)
			}
		}
		for _, o := range sc.opens {
			if o.at > off {
				continue
			}
			if info := t.Modules[o.module]; info != nil {
				for _, s := range info.Exported() {
					add(s)
				}
			}
		}
		for _, s := range sc.Symbols {
			if s.Kind != KindModule || !s.Visible.ContainsInclusive(off) {
				continue
			}
			if info := t.Modules[s.Name]; info != nil {
				for _, m := range info.Members {
					if m.Vis == VisDirect {
						add(m)
					}
				}
			}
		}
	}
	return out
}

// Merge adds the exported surface of a dependency table: its modules
// and its top-level bindings become referable here. Bindings from
// dependencies keep their defining file in their spans, so definition
// jumps across files.
func (t *Table) Merge(dep *Table) {
	if dep == nil {
		return
	}
	var imported []*Symbol
	for name, info := range dep.Modules {
		if _, exists := t.Modules[name]; !exists {
			t.Modules[name] = info
			if info.Sym != nil {
				imported = append(imported, t.importedSymbol(info.Sym))
			}
		}
	}
	for _, s := range dep.Root.Symbols {
		if s.Kind == KindModule || s.Kind == KindParam {
			continue
		}
		imported = append(imported, t.importedSymbol(s))
	}
	// Local bindings shadow imported ones: lookup prefers later
	// declarations, so imports go in front.
	t.Root.Symbols = append(imported, t.Root.Symbols...)
}

// importedSymbol widens a dependency symbol's visibility to this whole
// document.
func (t *Table) importedSymbol(s *Symbol) *Symbol {
	imported := *s
	imported.Visible = t.Root.Span
	return &imported
}
