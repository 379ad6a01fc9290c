package diag

import (
	"testing"

	"satyls/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{File: 0, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SynMalformedStatement, span(0, 1), "a")) {
		t.Fatal("first add should succeed")
	}
	if !b.Add(NewError(SynMalformedStatement, span(1, 2), "b")) {
		t.Fatal("second add should succeed")
	}
	if b.Add(NewError(SynMalformedStatement, span(2, 3), "c")) {
		t.Fatal("third add should be dropped")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
}

func TestBagSortStable(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, SynExpectedToken, span(5, 6), "later"))
	b.Add(NewError(SynMalformedStatement, span(1, 4), "first"))
	b.Add(NewError(SynExpectedIdent, span(5, 6), "same-span error"))
	b.Sort()

	items := b.Items()
	if items[0].Message != "first" {
		t.Errorf("expected span order, got %q first", items[0].Message)
	}
	// Same span: errors sort before warnings.
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Errorf("severity tiebreak wrong: %v then %v", items[1].Severity, items[2].Severity)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	d := NewError(SynExpectedToken, span(3, 4), "dup")
	b.Add(d)
	b.Add(d)
	b.Add(NewError(SynExpectedToken, span(4, 5), "other"))
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("len after dedup = %d, want 2", b.Len())
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevWarning, SynExpectedToken, span(0, 1), "w"))
	if b.HasErrors() {
		t.Error("warnings are not errors")
	}
	b.Add(NewError(SynAbandonedConstruct, span(0, 9), "e"))
	if !b.HasErrors() {
		t.Error("expected HasErrors after adding an error")
	}
}
