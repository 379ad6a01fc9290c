package lsp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"satyls/internal/analysis"
	"satyls/internal/format"
)

func testServer(t *testing.T) (*Server, *analysis.Engine) {
	t.Helper()
	engine := analysis.NewEngine(nil, commonlog.GetLogger("test"))
	srv, err := New(Config{
		Name:     "satyls",
		Version:  "test",
		Analyzer: engine,
		Format:   format.DefaultOptions(),
		Log:      commonlog.GetLogger("test"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, engine
}

// posIn locates the end of the nth occurrence of needle as a protocol
// position. Inputs are ASCII, one byte per UTF-16 unit.
func posIn(t *testing.T, input, needle string, nth int) protocol.Position {
	t.Helper()
	off := 0
	for i := 0; i < nth; i++ {
		j := strings.Index(input[off:], needle)
		if j < 0 {
			t.Fatalf("needle %q #%d not found", needle, nth)
		}
		off += j + 1
	}
	end := off - 1 + len(needle)
	prefix := input[:end]
	line := strings.Count(prefix, "\n")
	col := end - (strings.LastIndexByte(prefix, '\n') + 1)
	return protocol.Position{Line: uint32(line), Character: uint32(col)}
}

const docURI = "file:///ws/main.saty"

func openDoc(srv *Server, text string) {
	srv.analyzer.Open(uriToPath(docURI), 1, text)
}

func completionLabels(t *testing.T, result any) []string {
	t.Helper()
	items, ok := result.([]protocol.CompletionItem)
	if !ok {
		t.Fatalf("unexpected completion result %T", result)
	}
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	return labels
}

func TestCompletionRanksUserCommandFirst(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let-inline \\pangram = {The quick fox}\n" +
		"let-inline \\x = {\\pan}"
	openDoc(srv, doc)

	result, err := srv.TextDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "\\pan", 2),
		},
	})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	labels := completionLabels(t, result)
	if len(labels) == 0 {
		t.Fatal("no completions for \\pan")
	}
	if labels[0] != "\\pangram" {
		t.Errorf("first completion = %q, want \\pangram (got %v)", labels[0], labels)
	}
	count := 0
	for _, l := range labels {
		if l == "\\pangram" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("\\pangram listed %d times", count)
	}
}

func TestCompletionMathMode(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let m = ${\\fr}"
	openDoc(srv, doc)

	result, err := srv.TextDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "\\fr", 1),
		},
	})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	labels := completionLabels(t, result)
	found := false
	for _, l := range labels {
		if l == "\\frac" {
			found = true
		}
		if l == "+p" {
			t.Error("block command offered in math mode")
		}
	}
	if !found {
		t.Errorf("\\frac missing from math completions: %v", labels)
	}
}

func TestCompletionModuleMembers(t *testing.T) {
	srv, _ := testServer(t)
	doc := "module Fig : sig\n" +
		"val width : length\n" +
		"end = struct\n" +
		"let width = 3cm\n" +
		"let secret = 1\n" +
		"end\n" +
		"let a = Fig.w"
	openDoc(srv, doc)

	result, err := srv.TextDocumentCompletion(nil, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "Fig.w", 1),
		},
	})
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	labels := completionLabels(t, result)
	if len(labels) != 1 || labels[0] != "Fig.width" {
		t.Errorf("member completions = %v, want [Fig.width]", labels)
	}
}

func TestHoverOnUserBinding(t *testing.T) {
	srv, _ := testServer(t)
	doc := "module M : sig\nval size : length\nend = struct\nlet size = 2cm\nend\nlet a = M.size"
	openDoc(srv, doc)

	hov, err := srv.TextDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "M.size", 1),
		},
	})
	if err != nil {
		t.Fatalf("hover: %v", err)
	}
	if hov == nil {
		t.Fatal("no hover for resolved member")
	}
	content, ok := hov.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("unexpected contents %T", hov.Contents)
	}
	if !strings.Contains(content.Value, "length") {
		t.Errorf("hover lacks the declared type: %q", content.Value)
	}
}

func TestHoverOnPrimitive(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let b = read-inline"
	openDoc(srv, doc)

	hov, err := srv.TextDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "read-inline", 1),
		},
	})
	if err != nil {
		t.Fatalf("hover: %v", err)
	}
	if hov == nil {
		t.Fatal("no hover for primitive")
	}
}

func TestDefinitionJumpsToBinding(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let width = 1\nlet a = width"
	openDoc(srv, doc)

	result, err := srv.TextDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "width", 2),
		},
	})
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	loc, ok := result.(protocol.Location)
	if !ok {
		t.Fatalf("unexpected result %T", result)
	}
	if loc.Range.Start.Line != 0 || loc.Range.Start.Character != 4 {
		t.Errorf("definition at %v, want line 0 char 4", loc.Range.Start)
	}
}

func TestDefinitionOnPrimitiveIsEmpty(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let b = read-inline"
	openDoc(srv, doc)

	result, err := srv.TextDocumentDefinition(nil, &protocol.DefinitionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
			Position:     posIn(t, doc, "read-inline", 1),
		},
	})
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	if result != nil {
		t.Errorf("primitive must yield no definition, got %v", result)
	}
}

func TestFormattingProducesFullEdit(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let   a=1"
	openDoc(srv, doc)

	edits, err := srv.TextDocumentFormatting(nil, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
		Options:      protocol.FormattingOptions{},
	})
	if err != nil {
		t.Fatalf("formatting: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(edits))
	}
	if edits[0].NewText != "let a = 1\n" {
		t.Errorf("formatted = %q", edits[0].NewText)
	}
}

func TestFormattingSkipsBrokenDocument(t *testing.T) {
	srv, _ := testServer(t)
	doc := "let a = {never closed"
	openDoc(srv, doc)

	edits, err := srv.TextDocumentFormatting(nil, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: docURI},
	})
	if err != nil {
		t.Fatalf("formatting: %v", err)
	}
	if edits != nil {
		t.Errorf("broken document must not be formatted, got %v", edits)
	}
}

func TestUnknownDocumentIsAnError(t *testing.T) {
	srv, _ := testServer(t)
	_, err := srv.TextDocumentHover(nil, &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: "file:///nope.saty"},
			Position:     protocol.Position{},
		},
	})
	if err == nil {
		t.Error("hover on an unknown document must fail")
	}
}

func TestDiagnosticsConversion(t *testing.T) {
	srv, engine := testServer(t)
	_ = srv
	engine.Open("broken.saty", 1, "let a = {oops")
	snap, err := engine.Snapshot(t.Context(), "broken.saty")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	diags := diagnosticsFor(snap)
	if len(diags) == 0 {
		t.Fatal("no protocol diagnostics")
	}
	d := diags[0]
	if d.Severity == nil || *d.Severity != protocol.DiagnosticSeverityError {
		t.Error("severity must map to error")
	}
	if d.Source == nil || *d.Source != "satyls" {
		t.Error("diagnostic source must be satyls")
	}
}

func TestHeaderCompletion(t *testing.T) {
	pkgRoot := t.TempDir()
	for _, name := range []string{"stdjabook.satyh", "math.satyg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(pkgRoot, name), []byte("let x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	docDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(docDir, "chapter1.satyh"), []byte("let y = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := analysis.NewEngine(nil, commonlog.GetLogger("test"))
	srv, err := New(Config{
		Name:         "satyls",
		Version:      "test",
		Analyzer:     engine,
		PackageRoots: []string{pkgRoot},
		Format:       format.DefaultOptions(),
		Log:          commonlog.GetLogger("test"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	docPath := filepath.Join(docDir, "main.saty")
	doc := "@require: std\n@import: ch\nlet a = 1\n"
	uri := pathToURI(docPath)
	srv.analyzer.Open(docPath, 1, doc)

	ask := func(needle string) []string {
		t.Helper()
		result, err := srv.TextDocumentCompletion(nil, &protocol.CompletionParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Position:     posIn(t, doc, needle, 1),
			},
		})
		if err != nil {
			t.Fatalf("completion: %v", err)
		}
		return completionLabels(t, result)
	}

	requireLabels := ask("@require: std")
	if len(requireLabels) == 0 || requireLabels[0] != "stdjabook" {
		t.Fatalf("require labels = %v, want stdjabook first", requireLabels)
	}
	for _, l := range requireLabels {
		if l == "notes" || l == "notes.txt" {
			t.Fatalf("non-package file offered: %v", requireLabels)
		}
	}

	importLabels := ask("@import: ch")
	if len(importLabels) != 1 || importLabels[0] != "chapter1" {
		t.Fatalf("import labels = %v, want [chapter1]", importLabels)
	}
}
