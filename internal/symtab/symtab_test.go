package symtab

import (
	"testing"

	"github.com/cloakwork/objcloak/internal/extractor"
)

func TestInsertAndResolve(t *testing.T) {
	tab := New()
	sym := extractor.Symbol{Name: "LoginManager", Kind: extractor.KindClass, DeclaringFile: "Login.h"}
	if err := tab.Insert(sym, "Zq8Lm2"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	got, ok := tab.Resolve("LoginManager")
	if !ok || got != "Zq8Lm2" {
		t.Errorf("Resolve = (%q, %v), want (Zq8Lm2, true)", got, ok)
	}
	if _, ok := tab.Resolve("Unknown"); ok {
		t.Error("Resolve found an entry that was never inserted")
	}

	e, ok := tab.Lookup("LoginManager")
	if !ok || e.FirstSeenFile != "Login.h" || e.Kind != extractor.KindClass {
		t.Errorf("Lookup entry mismatch: %+v", e)
	}
}

func TestDuplicateInsertKeepsFirst(t *testing.T) {
	tab := New()
	sym := extractor.Symbol{Name: "Worker", Kind: extractor.KindClass, DeclaringFile: "a.h"}
	if err := tab.Insert(sym, "first"); err != nil {
		t.Fatal(err)
	}
	sym.DeclaringFile = "b.h"
	if err := tab.Insert(sym, "second"); err != nil {
		t.Fatal(err)
	}
	got, _ := tab.Resolve("Worker")
	if got != "first" {
		t.Errorf("duplicate insert replaced the original entry: %q", got)
	}
}

func TestFreezeRejectsInsert(t *testing.T) {
	tab := New()
	if err := tab.Insert(extractor.Symbol{Name: "A", Kind: extractor.KindClass}, "x1"); err != nil {
		t.Fatal(err)
	}
	tab.Freeze()
	if !tab.Frozen() {
		t.Fatal("table should report frozen")
	}
	if err := tab.Insert(extractor.Symbol{Name: "B", Kind: extractor.KindClass}, "y2"); err == nil {
		t.Error("insert after freeze must fail")
	}
	if tab.Len() != 1 {
		t.Errorf("Len = %d, want 1", tab.Len())
	}
}

func TestReverseLookup(t *testing.T) {
	tab := New()
	if err := tab.Insert(extractor.Symbol{Name: "doThing:second:", Kind: extractor.KindMethod, Multipart: true,
		Parts: []string{"doThing:", "second:"}}, "ab12cd:ef34gh:"); err != nil {
		t.Fatal(err)
	}
	e, ok := tab.ReverseLookup("ab12cd:ef34gh:")
	if !ok || e.Original != "doThing:second:" {
		t.Errorf("ReverseLookup = (%+v, %v)", e, ok)
	}
	if _, ok := tab.ReverseLookup("nope"); ok {
		t.Error("ReverseLookup matched a name that was never issued")
	}
}

func TestEntriesSortedLongestFirst(t *testing.T) {
	tab := New()
	for name, obf := range map[string]string{
		"run":            "a1",
		"runFast":        "b2",
		"runFastForever": "c3",
	} {
		if err := tab.Insert(extractor.Symbol{Name: name, Kind: extractor.KindMethod}, obf); err != nil {
			t.Fatal(err)
		}
	}
	entries := tab.Entries()
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Original != "runFastForever" || entries[2].Original != "run" {
		t.Errorf("entries not sorted longest first: %v", entries)
	}
}
