package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectDocumentsWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "chapters")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]bool{
		filepath.Join(dir, "main.saty"):    true,
		filepath.Join(sub, "intro.satyh"):  true,
		filepath.Join(sub, "shared.satyg"): true,
		filepath.Join(dir, "notes.txt"):    false,
	}
	for path := range files {
		if err := os.WriteFile(path, []byte("let x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := collectDocuments([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, keep := range files {
		if keep {
			want++
		}
	}
	if len(got) != want {
		t.Fatalf("collected %v, want %d documents", got, want)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("not sorted: %v", got)
		}
	}
	for _, p := range got {
		if !files[p] {
			t.Fatalf("unexpected path %s", p)
		}
	}
}

func TestCollectDocumentsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "main.saty")
	if err := os.WriteFile(doc, []byte("let x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := collectDocuments([]string{doc, dir, doc})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != doc {
		t.Fatalf("collected %v, want [%s]", got, doc)
	}
}

func TestIsDocument(t *testing.T) {
	for path, want := range map[string]bool{
		"a.saty":  true,
		"a.satyh": true,
		"a.satyg": true,
		"a.sty":   false,
		"saty":    false,
	} {
		if isDocument(path) != want {
			t.Errorf("isDocument(%q) = %v, want %v", path, !want, want)
		}
	}
}
