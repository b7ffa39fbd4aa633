package jigsaw

import "testing"

func TestResolverTrivial(t *testing.T) {
	cat := mkcat(t, mkmod("a", "1"))
	r := &Resolver{Catalog: cat}

	res, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, ok := res.Binding("a")
	if !ok || !b.ID.Equal(mkid("a", "1")) {
		t.Fatalf("binding for a = %+v, ok=%v", b, ok)
	}
	if len(res.Modules()) != 1 {
		t.Fatalf("expected 1 resolved module, got %d", len(res.Modules()))
	}
}

func TestResolverDiamond(t *testing.T) {
	// a requires b and c; b requires d>=1; c requires d>=2.
	// d@1 and d@2 both exist; the resolver must settle on d@2.
	cat := mkcat(t,
		mkmod("a", "1").deps_(req("b", ""), req("c", "")),
		mkmod("b", "1").deps_(req("d", ">=1")),
		mkmod("c", "1").deps_(req("d", ">=2")),
		mkmod("d", "1"),
		mkmod("d", "2"),
	)
	r := &Resolver{Catalog: cat}

	res, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, ok := res.Binding("d")
	if !ok {
		t.Fatal("d not bound")
	}
	if !b.ID.Equal(mkid("d", "2")) {
		t.Fatalf("d bound to %s, want d@2", b.ID)
	}
}

func TestResolverDiamondFail(t *testing.T) {
	// b requires d>=2 (forcing d@2); c requires d<2, which d@2 cannot
	// satisfy and there is no other candidate compatible with both.
	cat := mkcat(t,
		mkmod("a", "1").deps_(req("b", ""), req("c", "")),
		mkmod("b", "1").deps_(req("d", ">=2")),
		mkmod("c", "1").deps_(req("d", "<2")),
		mkmod("d", "1"),
		mkmod("d", "2"),
	)
	r := &Resolver{Catalog: cat}

	_, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
	if err == nil {
		t.Fatal("expected a version conflict, got nil error")
	}
	if _, ok := err.(*VersionConflictError); !ok {
		t.Fatalf("expected *VersionConflictError, got %T: %v", err, err)
	}
}

func TestResolverModuleNotFound(t *testing.T) {
	cat := mkcat(t, mkmod("a", "1").deps_(req("missing", "")))
	r := &Resolver{Catalog: cat}

	_, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
	if _, ok := err.(*ModuleNotFoundError); !ok {
		t.Fatalf("expected *ModuleNotFoundError, got %T: %v", err, err)
	}
}

func TestResolverOptionalDepAbsent(t *testing.T) {
	cat := mkcat(t, mkmod("a", "1").deps_(reqMods(ModOptional, "missing", "")))
	r := &Resolver{Catalog: cat}

	res, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
	if err != nil {
		t.Fatalf("optional missing dep should not fail resolution: %v", err)
	}
	if _, ok := res.Binding("missing"); ok {
		t.Fatal("optional absent dependency should not appear bound")
	}
}

func TestResolverLocalPermitsChain(t *testing.T) {
	// ll requires local lc; lc permits ll,lr and requires local lx;
	// lr requires local lc; lx permits lc. Root requires ll and lr.
	cat := mkcat(t,
		mkmod("root", "1").deps_(req("ll", ""), req("lr", "")),
		mkmod("ll", "1").deps_(reqMods(ModLocal, "lc", "")),
		mkmod("lc", "1").permits_("ll", "lr").deps_(reqMods(ModLocal, "lx", "")),
		mkmod("lr", "1").deps_(reqMods(ModLocal, "lc", "")),
		mkmod("lx", "1").permits_("lc"),
	)
	r := &Resolver{Catalog: cat}

	res, err := r.Resolve([]ModuleIDQuery{mkq("root", "")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Configure(res, nil, []ModuleIDQuery{mkq("root", "")})
	if err != nil {
		t.Fatalf("configure: %v", err)
	}

	ctx, ok := cfg.ContextFor(mkid("lc", "1"))
	if !ok {
		t.Fatal("lc has no context")
	}
	for _, want := range []ModuleID{mkid("ll", "1"), mkid("lr", "1"), mkid("lc", "1"), mkid("lx", "1")} {
		found := false
		for _, m := range ctx.Members {
			if m.Equal(want) {
				found = true
			}
		}
		if !found {
			t.Errorf("context %s missing member %s; members=%v", ctx.Name, want, ctx.Members)
		}
	}
}

func TestResolverPermitsRequiresOptionalFailure(t *testing.T) {
	// z requires y; z requires optional x; y requires x; x permits y, not
	// z. z's optional edge to x must still fail, because x does exist and
	// is reachable - optional only excuses a missing module, not a
	// forbidden one.
	cat := mkcat(t,
		mkmod("z", "1").deps_(req("y", ""), reqMods(ModOptional, "x", "")),
		mkmod("y", "1").deps_(req("x", "")),
		mkmod("x", "1").permits_("y"),
	)
	r := &Resolver{Catalog: cat}

	_, err := r.Resolve([]ModuleIDQuery{mkq("z", "")})
	if err == nil {
		t.Fatal("expected a permits violation, got nil error")
	}
	if _, ok := err.(*PermitsViolationError); !ok {
		t.Fatalf("expected *PermitsViolationError, got %T: %v", err, err)
	}
}

func TestResolverPermitsViolationDirect(t *testing.T) {
	cat := mkcat(t,
		mkmod("a", "1").deps_(req("b", "")),
		mkmod("b", "1").permits_("someone-else"),
	)
	r := &Resolver{Catalog: cat}

	_, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
	if _, ok := err.(*PermitsViolationError); !ok {
		t.Fatalf("expected *PermitsViolationError, got %T: %v", err, err)
	}
}

func TestResolverBaseModuleExemptFromPermits(t *testing.T) {
	cat := mkcat(t,
		mkmod("a", "1").deps_(req("base", "")),
		mkmod("base", "1").permits_("nobody"),
	)
	r := &Resolver{Catalog: cat, BaseModule: "base"}

	if _, err := r.Resolve([]ModuleIDQuery{mkq("a", "")}); err != nil {
		t.Fatalf("base module should be exempt from permits: %v", err)
	}
}

func TestResolverDeterministic(t *testing.T) {
	cat := mkcat(t,
		mkmod("a", "1").deps_(req("b", "")),
		mkmod("b", "1"),
		mkmod("b", "2"),
	)
	r := &Resolver{Catalog: cat}

	var first ModuleID
	for i := 0; i < 5; i++ {
		res, err := r.Resolve([]ModuleIDQuery{mkq("a", "")})
		if err != nil {
			t.Fatalf("unexpected error on iteration %d: %v", i, err)
		}
		b, _ := res.Binding("b")
		if i == 0 {
			first = b.ID
			continue
		}
		if !b.ID.Equal(first) {
			t.Fatalf("non-deterministic resolution: first=%s, got=%s", first, b.ID)
		}
	}
}
