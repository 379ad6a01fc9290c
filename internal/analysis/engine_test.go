package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tliron/commonlog"
)

func testEngine() *Engine {
	return NewEngine(nil, commonlog.GetLogger("test"))
}

func TestSnapshotWaitsForAnalysis(t *testing.T) {
	e := testEngine()
	e.Open("doc.saty", 1, "let a = 1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := e.Snapshot(ctx, "doc.saty")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Version != 1 {
		t.Errorf("version = %d, want 1", snap.Version)
	}
	if len(snap.Diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", snap.Diags)
	}
}

func TestVersionsAreMonotonic(t *testing.T) {
	e := testEngine()
	e.Open("doc.saty", 1, "let a = 1")
	for v := int32(2); v <= 10; v++ {
		e.Update("doc.saty", v, "let a = 1\nlet b = 2")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := e.Snapshot(ctx, "doc.saty")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Version != 10 {
		t.Errorf("version = %d, want 10", snap.Version)
	}

	// A stale update after the fact must not regress the snapshot.
	e.Update("doc.saty", 3, "let stale = 0")
	time.Sleep(50 * time.Millisecond)
	if latest := e.Latest("doc.saty"); latest != nil && latest.Version < 10 {
		t.Errorf("version regressed to %d", latest.Version)
	}
}

func TestDiagnosticsSurfaceInSnapshot(t *testing.T) {
	e := testEngine()
	e.Open("doc.saty", 1, "let a = {never closed")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := e.Snapshot(ctx, "doc.saty")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Diags) == 0 {
		t.Error("unterminated text must produce a diagnostic")
	}
}

func TestCloseForgetsDocument(t *testing.T) {
	e := testEngine()
	e.Open("doc.saty", 1, "let a = 1")
	e.Close("doc.saty")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := e.Snapshot(ctx, "doc.saty"); err == nil {
		t.Error("closed document must not be queryable")
	}
	if e.Latest("doc.saty") != nil {
		t.Error("closed document must have no snapshot")
	}
}

func TestLoaderResolvesRequireAndImport(t *testing.T) {
	pkgRoot := t.TempDir()
	docDir := t.TempDir()
	writeFile(t, filepath.Join(pkgRoot, "mylib.satyh"),
		"module Lib = struct\nlet shared = 1\nend")
	writeFile(t, filepath.Join(docDir, "local.satyh"),
		"let helper = 2")
	doc := filepath.Join(docDir, "main.saty")
	writeFile(t, doc, "@require: mylib\n@import: local\nlet a = Lib.shared\nlet b = helper")

	loader := NewLoader([]string{pkgRoot}, nil, commonlog.GetLogger("test"))
	res := analyzeOne(context.Background(), loader, doc)
	if res.Err != nil {
		t.Fatalf("analyze: %v", res.Err)
	}
	table := res.Snap.Table
	off := uint32(len("@require: mylib\n@import: local\nlet a = Lib.s"))
	if use := table.UseAt(off); use == nil || use.Sym == nil {
		t.Error("Lib.shared must resolve through @require")
	}
	if table.Lookup("helper", uint32(len(res.Snap.File.Content))-1) == nil {
		t.Error("helper must resolve through @import")
	}
}

func TestLoaderSkipsCycles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.satyh"), "@import: b\nlet from-a = 1")
	writeFile(t, filepath.Join(dir, "b.satyh"), "@import: a\nlet from-b = 2")
	doc := filepath.Join(dir, "main.saty")
	writeFile(t, doc, "@import: a\nlet x = from-b")

	loader := NewLoader(nil, nil, commonlog.GetLogger("test"))
	res := analyzeOne(context.Background(), loader, doc)
	if res.Err != nil {
		t.Fatalf("analyze: %v", res.Err)
	}
	if res.Snap.Table.Lookup("from-b", uint32(len(res.Snap.File.Content))-1) == nil {
		t.Error("transitive import must resolve despite the cycle")
	}
}

func TestDepCacheRoundTrip(t *testing.T) {
	cache, err := OpenDepCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDepCache: %v", err)
	}
	exp := &depExports{
		Schema:   depSchema,
		TopLevel: []symRec{{Name: "x", Kind: 0, DefStart: 4, DefEnd: 5}},
		Modules:  []moduleRec{{Name: "M", Members: []symRec{{Name: "y"}}}},
	}
	var hash [32]byte
	hash[0] = 0xab
	if err := cache.Store(hash, exp); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := cache.Lookup(hash)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got == nil || len(got.TopLevel) != 1 || got.TopLevel[0].Name != "x" {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if len(got.Modules) != 1 || got.Modules[0].Name != "M" {
		t.Errorf("modules mismatch: %+v", got.Modules)
	}

	var missing [32]byte
	if got, err := cache.Lookup(missing); err != nil || got != nil {
		t.Errorf("missing entry: got %v, %v", got, err)
	}
}

func TestAnalyzeFilesSortsResults(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "c.saty"),
		filepath.Join(dir, "a.saty"),
		filepath.Join(dir, "b.saty"),
	}
	for _, p := range paths {
		writeFile(t, p, "let ok = 1")
	}
	results := AnalyzeFiles(context.Background(), nil, paths, 2)
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Path > results[i].Path {
			t.Fatal("results must be sorted by path")
		}
	}
	for _, r := range results {
		if r.Err != nil || r.Snap == nil {
			t.Errorf("%s: %v", r.Path, r.Err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
