package symbols_test

import (
	"strings"
	"testing"

	"satyls/internal/diag"
	"satyls/internal/parser"
	"satyls/internal/source"
	"satyls/internal/symbols"
)

func resolve(t *testing.T, input string) (*symbols.Table, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.saty", []byte(input))
	file := fs.Get(id)
	root := parser.ParseFile(file, diag.NewBag(200))
	return symbols.Resolve(file, root), file
}

// offsetOf returns the byte offset of the nth occurrence (1-based) of
// needle in input.
func offsetOf(t *testing.T, input, needle string, nth int) uint32 {
	t.Helper()
	off := 0
	for i := 0; i < nth; i++ {
		j := strings.Index(input[off:], needle)
		if j < 0 {
			t.Fatalf("needle %q #%d not found", needle, nth)
		}
		off += j + 1
	}
	return uint32(off - 1)
}

func TestBindingVisibleAfterNotBefore(t *testing.T) {
	input := "let a = b\nlet b = 1\nlet c = b"
	table, _ := resolve(t, input)

	early := table.UseAt(offsetOf(t, input, "b", 1))
	if early == nil {
		t.Fatal("no use recorded for the early reference")
	}
	if early.Sym != nil {
		t.Error("b must not resolve before its binding")
	}

	late := table.UseAt(offsetOf(t, input, "b", 3))
	if late == nil || late.Sym == nil {
		t.Fatal("b must resolve after its binding")
	}
	if late.Sym.Def.Start != offsetOf(t, input, "b", 2) {
		t.Errorf("late reference resolved to wrong definition at %d", late.Sym.Def.Start)
	}
}

func TestBindingVisibleInOwnBody(t *testing.T) {
	input := "let fact n = fact n"
	table, _ := resolve(t, input)
	use := table.UseAt(offsetOf(t, input, "fact", 2))
	if use == nil || use.Sym == nil {
		t.Fatal("recursive reference must resolve")
	}
	if use.Sym.Kind != symbols.KindLet {
		t.Errorf("resolved to %v", use.Sym.Kind)
	}
}

func TestParamShadowsOuter(t *testing.T) {
	input := "let x = 1\nlet f x = x\nlet g = x"
	table, _ := resolve(t, input)
	use := table.UseAt(offsetOf(t, input, "x", 3))
	if use == nil || use.Sym == nil {
		t.Fatal("x in body must resolve")
	}
	if use.Sym.Kind != symbols.KindParam {
		t.Errorf("inner x resolved to %v, want the parameter", use.Sym.Kind)
	}
	// The parameter must not leak past the binding.
	after := table.UseAt(offsetOf(t, input, "x", 4))
	if after == nil || after.Sym == nil || after.Sym.Kind != symbols.KindLet {
		t.Error("outer x must be back in scope after the binding")
	}
}

const moduleDoc = `module Fig : sig
  val width : length
  direct \fig : [inline-text] inline-cmd
end = struct
  let width = 3cm
  let secret = 1
  let-inline \fig it = {x}
end
let a = Fig.width
let-inline \use = {\fig{y} \Fig.fig{z}}
`

func TestSigRestrictsExports(t *testing.T) {
	table, _ := resolve(t, moduleDoc)
	info := table.Modules["Fig"]
	if info == nil {
		t.Fatal("module Fig not recorded")
	}
	if m := info.Member("width"); m == nil {
		t.Error("width must be exported")
	} else if m.SigText == "" {
		t.Error("exported member must carry its declared type")
	}
	if info.Member("secret") != nil {
		t.Error("secret is not in the sig and must be private")
	}
	fig := info.Member("\\fig")
	if fig == nil {
		t.Fatal("\\fig must be exported")
	}
	if fig.Vis != symbols.VisDirect {
		t.Errorf("\\fig visibility = %v, want direct", fig.Vis)
	}
}

func TestQualifiedAndDirectUse(t *testing.T) {
	table, _ := resolve(t, moduleDoc)

	// The member token resolves to the exported symbol.
	qualStart := offsetOf(t, moduleDoc, "Fig.width", 1)
	qual := table.UseAt(qualStart + uint32(len("Fig.")))
	if qual == nil || qual.Sym == nil || qual.Sym.Name != "width" {
		t.Error("Fig.width must resolve to the exported member")
	}

	// The prefix resolves to the module itself.
	prefix := table.UseAt(qualStart)
	if prefix == nil || prefix.Sym == nil || prefix.Sym.Kind != symbols.KindModule {
		t.Error("Fig prefix must resolve to the module")
	}

	// Direct member without prefix.
	direct := table.UseAt(offsetOf(t, moduleDoc, "\\fig{y}", 1))
	if direct == nil || direct.Sym == nil {
		t.Error("direct \\fig must resolve without the module prefix")
	}

	// And with the prefix.
	prefixed := table.UseAt(offsetOf(t, moduleDoc, "\\Fig.fig", 1))
	if prefixed == nil || prefixed.Sym == nil {
		t.Error("\\Fig.fig must resolve")
	}
}

func TestOpenInjectsExports(t *testing.T) {
	input := "module M = struct\nlet v = 1\nend\nlet a = v\nopen M\nlet b = v"
	table, _ := resolve(t, input)

	before := table.UseAt(offsetOf(t, input, "v", 2))
	if before == nil || before.Sym != nil {
		t.Error("v must not resolve before open")
	}
	after := table.UseAt(offsetOf(t, input, "v", 3))
	if after == nil || after.Sym == nil {
		t.Error("v must resolve after open M")
	}
}

func TestVisibleAtDedup(t *testing.T) {
	input := "let x = 1\nlet f x = x"
	table, _ := resolve(t, input)
	visible := table.VisibleAt(offsetOf(t, input, "x", 3))
	count := 0
	for _, s := range visible {
		if s.Name == "x" {
			count++
			if s.Kind != symbols.KindParam {
				t.Errorf("visible x is %v, want the shadowing parameter", s.Kind)
			}
		}
	}
	if count != 1 {
		t.Errorf("x listed %d times, want 1", count)
	}
}

func TestHeadersRecorded(t *testing.T) {
	input := "@require: stdlib\n@import: local/defs\nlet x = 1"
	table, _ := resolve(t, input)
	if len(table.Headers) != 2 {
		t.Fatalf("headers = %d, want 2", len(table.Headers))
	}
	if table.Headers[0].Kind != symbols.HeaderRequire || table.Headers[0].Name != "stdlib" {
		t.Errorf("first header = %+v", table.Headers[0])
	}
	if table.Headers[1].Kind != symbols.HeaderImport || table.Headers[1].Name != "local/defs" {
		t.Errorf("second header = %+v", table.Headers[1])
	}
}

func TestMergeDependencyShadowedByLocal(t *testing.T) {
	fs := source.NewFileSet()
	depFile := fs.Get(fs.AddVirtual("dep.satyh", []byte("let shared = 1\nlet only-dep = 2")))
	depTable := symbols.Resolve(depFile, parser.ParseFile(depFile, diag.NewBag(200)))

	input := "let shared = 3\nlet a = shared\nlet b = only-dep"
	file := fs.Get(fs.AddVirtual("main.saty", []byte(input)))
	table := symbols.Resolve(file, parser.ParseFile(file, diag.NewBag(200)), depTable)

	local := table.Lookup("shared", uint32(len(input)))
	if local == nil {
		t.Fatal("shared must resolve")
	}
	if local.Def.File != table.File.ID {
		t.Error("local binding must shadow the dependency's")
	}
	if table.Lookup("only-dep", uint32(len(input))) == nil {
		t.Error("dependency binding must be visible")
	}
}
