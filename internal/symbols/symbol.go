// Package symbols builds the name environment of a parsed document:
// which bindings exist, where each one is visible, what modules export,
// and which definition every reference resolves to.
package symbols

import (
	"satyls/internal/source"
)

// Kind classifies a binding.
type Kind uint8

const (
	// KindLet is a plain value binding.
	KindLet Kind = iota
	// KindMutable is a let-mutable binding.
	KindMutable
	// KindParam is a function or command parameter.
	KindParam
	// KindInlineCmd is an inline command, \name.
	KindInlineCmd
	// KindBlockCmd is a block command, +name.
	KindBlockCmd
	// KindMathCmd is a math command.
	KindMathCmd
	// KindModule is a module name.
	KindModule
	// KindType is a type declared in a signature.
	KindType
)

func (k Kind) String() string {
	switch k {
	case KindLet:
		return "let"
	case KindMutable:
		return "mutable"
	case KindParam:
		return "param"
	case KindInlineCmd:
		return "inline-cmd"
	case KindBlockCmd:
		return "block-cmd"
	case KindMathCmd:
		return "math-cmd"
	case KindModule:
		return "module"
	case KindType:
		return "type"
	default:
		return "kind(?)"
	}
}

// Visibility records how a module member is exported.
type Visibility uint8

const (
	// VisPublic members are reachable as Mod.name.
	VisPublic Visibility = iota
	// VisPrivate members are invisible outside their module.
	VisPrivate
	// VisDirect members are usable without the module prefix wherever
	// the module itself is in scope.
	VisDirect
)

func (v Visibility) String() string {
	switch v {
	case VisPublic:
		return "public"
	case VisPrivate:
		return "private"
	case VisDirect:
		return "direct"
	default:
		return "visibility(?)"
	}
}

// Symbol is one binding.
type Symbol struct {
	Name string
	Kind Kind
	// Def is the span of the defining name token.
	Def source.Span
	// Visible is the region where the symbol may be referenced. It
	// starts at the definition so bindings are usable in their own
	// body.
	Visible source.Span
	// SigText is the declared type from a module signature, empty
	// otherwise.
	SigText string
	Vis     Visibility
	// Module is the owning module name, empty at document top level.
	Module string
}

// QualifiedName is the name a user writes to reach the symbol from
// outside its module.
func (s *Symbol) QualifiedName() string {
	if s.Module == "" || s.Vis == VisDirect {
		return s.Name
	}
	return s.Module + "." + s.Name
}

// Use is one reference in the document, resolved or not.
type Use struct {
	// Span covers the referencing name token, including a Mod. prefix
	// when the reference is qualified.
	Span source.Span
	Name string
	// Sym is nil when the name did not resolve to a user binding.
	Sym *Symbol
}
