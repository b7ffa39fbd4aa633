package jigsaw

import "testing"

func TestServiceResolverBindsProvider(t *testing.T) {
	cat := mkcat(t,
		mkmod("z", "1").services(ServiceDependence{Service: "svc.Greeter"}),
		mkmod("p", "1").provides_("svc.Greeter", "p.impl.Hello"),
	)

	r := &Resolver{Catalog: cat}
	res, err := r.Resolve([]ModuleIDQuery{mkq("z", "")})
	if err != nil {
		t.Fatalf("module pass failed: %v", err)
	}

	sr := &ServiceResolver{Catalog: cat}
	ext, err := sr.Resolve(res)
	if err != nil {
		t.Fatalf("service pass failed: %v", err)
	}

	bindings := ext.ServicesFor("svc.Greeter")
	if len(bindings) != 1 || !bindings[0].Host.Equal(mkid("p", "1")) {
		t.Fatalf("unexpected bindings: %+v", bindings)
	}
	if _, ok := res.ModuleInfo(mkid("p", "1")); ok {
		t.Fatal("provider should not appear in the module-pass Resolution")
	}
	if _, ok := ext.ModuleInfo(mkid("p", "1")); !ok {
		t.Fatal("provider should appear in the extended Resolution")
	}
}

func TestServiceResolverRequiredServiceWithNoProviderFails(t *testing.T) {
	cat := mkcat(t,
		mkmod("z", "1").services(ServiceDependence{Service: "svc.Missing"}),
	)

	r := &Resolver{Catalog: cat}
	res, err := r.Resolve([]ModuleIDQuery{mkq("z", "")})
	if err != nil {
		t.Fatalf("module pass failed: %v", err)
	}

	sr := &ServiceResolver{Catalog: cat}
	_, err = sr.Resolve(res)
	if _, ok := err.(*ModuleNotFoundError); !ok {
		t.Fatalf("expected *ModuleNotFoundError, got %T: %v", err, err)
	}
}

func TestServiceResolverOptionalServiceRollsBackFailedProvider(t *testing.T) {
	// z's service dependence is optional. The only provider of svc.Thing
	// requires a module that does not exist, so binding it fails and must
	// be rolled back cleanly - but since the service dependence is
	// optional, the overall resolution still succeeds with zero bindings.
	cat := mkcat(t,
		mkmod("z", "1").services(ServiceDependence{Mods: ModOptional, Service: "svc.Thing"}),
		mkmod("p", "1").provides_("svc.Thing", "p.impl.Thing").deps_(req("missing", "")),
	)

	r := &Resolver{Catalog: cat}
	res, err := r.Resolve([]ModuleIDQuery{mkq("z", "")})
	if err != nil {
		t.Fatalf("module pass failed: %v", err)
	}

	sr := &ServiceResolver{Catalog: cat}
	ext, err := sr.Resolve(res)
	if err != nil {
		t.Fatalf("optional service with a failing provider should not fail the resolution: %v", err)
	}
	if bindings := ext.ServicesFor("svc.Thing"); len(bindings) != 0 {
		t.Fatalf("expected no bindings for svc.Thing, got %+v", bindings)
	}
	if _, ok := ext.ModuleInfo(mkid("p", "1")); ok {
		t.Fatal("failed provider p should not be part of the resolution")
	}
}

func TestServiceResolverIgnoresPermits(t *testing.T) {
	// p provides svc.Thing but permits only some unrelated module; service
	// binding must succeed anyway, since permits gates `requires`, not
	// service discovery.
	cat := mkcat(t,
		mkmod("z", "1").services(ServiceDependence{Service: "svc.Thing"}),
		mkmod("p", "1").provides_("svc.Thing", "p.impl.Thing").permits_("someone-else"),
	)

	r := &Resolver{Catalog: cat}
	res, err := r.Resolve([]ModuleIDQuery{mkq("z", "")})
	if err != nil {
		t.Fatalf("module pass failed: %v", err)
	}

	sr := &ServiceResolver{Catalog: cat}
	ext, err := sr.Resolve(res)
	if err != nil {
		t.Fatalf("service binding should ignore permits: %v", err)
	}
	if len(ext.ServicesFor("svc.Thing")) != 1 {
		t.Fatalf("expected svc.Thing to be bound, got %+v", ext.Services)
	}
}

func TestServiceResolverFixedPointOverProviderServiceDeps(t *testing.T) {
	// p1 provides svc.A but itself requires svc.B, only satisfied by p2.
	cat := mkcat(t,
		mkmod("z", "1").services(ServiceDependence{Service: "svc.A"}),
		mkmod("p1", "1").provides_("svc.A", "p1.impl.A").services(ServiceDependence{Service: "svc.B"}),
		mkmod("p2", "1").provides_("svc.B", "p2.impl.B"),
	)

	r := &Resolver{Catalog: cat}
	res, err := r.Resolve([]ModuleIDQuery{mkq("z", "")})
	if err != nil {
		t.Fatalf("module pass failed: %v", err)
	}

	sr := &ServiceResolver{Catalog: cat}
	ext, err := sr.Resolve(res)
	if err != nil {
		t.Fatalf("fixed-point service resolution failed: %v", err)
	}
	if len(ext.ServicesFor("svc.A")) != 1 {
		t.Fatalf("expected svc.A bound, got %+v", ext.Services)
	}
	if len(ext.ServicesFor("svc.B")) != 1 {
		t.Fatalf("expected svc.B bound transitively, got %+v", ext.Services)
	}
}
