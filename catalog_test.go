package jigsaw

import "testing"

func TestCatalogFindCandidatesOrdersByVersionDescending(t *testing.T) {
	cat := mkcat(t, mkmod("a", "1"), mkmod("a", "3"), mkmod("a", "2"))
	cands, err := cat.FindCandidates(mkq("a", ""))
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}
	want := []string{"3", "2", "1"}
	for i, w := range want {
		if cands[i].ID.Version.String() != w {
			t.Errorf("candidate %d = %s, want version %s", i, cands[i].ID, w)
		}
	}
}

func TestCatalogRejectsDuplicateModuleID(t *testing.T) {
	a1 := mkmod("a", "1").build(t)
	a2 := mkmod("a", "1").build(t)
	if _, err := NewCatalog([]*ModuleInfo{a1, a2}); err == nil {
		t.Error("expected duplicate module id to be rejected")
	}
}

func TestCatalogGatherProvidersIsSortedAndDeterministic(t *testing.T) {
	cat := mkcat(t,
		mkmod("p2", "1").provides_("svc.X", "p2.Impl"),
		mkmod("p1", "1").provides_("svc.X", "p1.Impl"),
	)
	first, err := cat.GatherProviders("svc.X")
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(first))
	}
	if first[0].Module.Name != "p1" || first[1].Module.Name != "p2" {
		t.Errorf("providers not sorted by module id: %+v", first)
	}

	second, err := cat.GatherProviders("svc.X")
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("GatherProviders is not deterministic across calls: %+v vs %+v", first, second)
		}
	}
}

func TestCatalogReadModuleInfoUnknownID(t *testing.T) {
	cat := mkcat(t, mkmod("a", "1"))
	_, found, err := cat.ReadModuleInfo(mkid("b", "1"))
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("expected ReadModuleInfo to report not-found for an unknown id")
	}
}
