package jigsaw

import "testing"

// mkid builds a ModuleID from "name" and a version string.
func mkid(name, version string) ModuleID {
	return NewModuleID(ModuleName(name), MustParseVersion(version))
}

// mkq builds a ModuleIDQuery from "name" and a version-query string (e.g.
// ">=1", "<2", "" for any).
func mkq(name, vq string) ModuleIDQuery {
	return ModuleIDQuery{Name: ModuleName(name), VQ: MustParseVersionQuery(vq)}
}

// req builds a required (non-optional, non-local, non-public)
// ViewDependence.
func req(name, vq string) ViewDependence {
	return ViewDependence{Query: mkq(name, vq)}
}

func reqMods(mods DepModifiers, name, vq string) ViewDependence {
	return ViewDependence{Mods: mods, Query: mkq(name, vq)}
}

// mod is a small builder for *ModuleInfo used across the test suite;
// fields are filled in with the builder methods below (deps_, services,
// exports_, permits_, provides_, classes) and consumed by build().
type mod struct {
	name, version string
	deps          []ViewDependence
	svcDeps       []ServiceDependence
	exports       []string
	permits       []string
	provides      map[string][]string
	publicClasses []string
}

func mkmod(name, version string) *mod {
	return &mod{name: name, version: version}
}

func (m *mod) deps_(deps ...ViewDependence) *mod {
	m.deps = deps
	return m
}

func (m *mod) services(deps ...ServiceDependence) *mod {
	m.svcDeps = deps
	return m
}

func (m *mod) exports_(pkgs ...string) *mod {
	m.exports = pkgs
	return m
}

func (m *mod) permits_(names ...string) *mod {
	m.permits = names
	return m
}

func (m *mod) provides_(service string, impls ...string) *mod {
	if m.provides == nil {
		m.provides = make(map[string][]string)
	}
	m.provides[service] = impls
	return m
}

func (m *mod) classes(names ...string) *mod {
	m.publicClasses = names
	return m
}

func (m *mod) build(t *testing.T) *ModuleInfo {
	t.Helper()
	id := mkid(m.name, m.version)
	view := NewModuleView(id)
	for _, e := range m.exports {
		view.Exports[e] = struct{}{}
	}
	for _, p := range m.permits {
		view.Permits[ModuleName(p)] = struct{}{}
	}
	for svc, impls := range m.provides {
		view.Services[svc] = impls
	}

	mi, err := NewModuleInfo(id, view, nil, m.deps, m.svcDeps)
	if err != nil {
		t.Fatalf("building module %s@%s: %v", m.name, m.version, err)
	}
	for _, c := range m.publicClasses {
		mi.PublicClasses[c] = struct{}{}
	}
	return mi
}

func mkcat(t *testing.T, mods ...*mod) Catalog {
	t.Helper()
	infos := make([]*ModuleInfo, len(mods))
	for i, m := range mods {
		infos[i] = m.build(t)
	}
	cat, err := NewCatalog(infos)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return cat
}
