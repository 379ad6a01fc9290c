package symbols

import (
	"satyls/internal/source"
)

// Scope is one lexical region. Symbols carry their own visibility
// spans, so a scope is mostly a container plus the parent link the
// lookup walks.
type Scope struct {
	Parent   *Scope
	Span     source.Span
	Symbols  []*Symbol
	Children []*Scope
	// Module is set on a struct-body scope.
	Module string
	// opens records open statements in this scope, in document order.
	opens []openEntry
}

type openEntry struct {
	// at is the offset from which the opened module's exports are in
	// scope.
	at     uint32
	module string
}

func (sc *Scope) child(span source.Span) *Scope {
	c := &Scope{Parent: sc, Span: span}
	sc.Children = append(sc.Children, c)
	return c
}

func (sc *Scope) declare(sym *Symbol) {
	sc.Symbols = append(sc.Symbols, sym)
}

// innermostAt descends to the smallest scope containing the offset.
func (sc *Scope) innermostAt(off uint32) *Scope {
	cur := sc
	for {
		var next *Scope
		for _, c := range cur.Children {
			if c.Span.ContainsInclusive(off) {
				next = c
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// lookupLocal finds the symbol for a name visible at the offset in
// this scope only. Later declarations shadow earlier ones.
func (sc *Scope) lookupLocal(name string, off uint32) *Symbol {
	for i := len(sc.Symbols) - 1; i >= 0; i-- {
		s := sc.Symbols[i]
		if s.Name == name && s.Visible.ContainsInclusive(off) {
			return s
		}
	}
	return nil
}

// ModuleInfo is the export surface of one module.
type ModuleInfo struct {
	Name string
	Sym  *Symbol
	// Members holds every binding of the struct body with its computed
	// visibility.
	Members []*Symbol
	// Types come from the signature.
	Types []*Symbol
	Scope *Scope
}

// Exported lists the members reachable from outside: public and
// direct.
func (m *ModuleInfo) Exported() []*Symbol {
	out := make([]*Symbol, 0, len(m.Members))
	for _, s := range m.Members {
		if s.Vis != VisPrivate {
			out = append(out, s)
		}
	}
	return out
}

// Member returns the exported member with the given name, or nil.
func (m *ModuleInfo) Member(name string) *Symbol {
	for _, s := range m.Members {
		if s.Name == name && s.Vis != VisPrivate {
			return s
		}
	}
	return nil
}
