package jigsaw

import (
	"fmt"
	"sort"
	"strings"
)

// Resolution is the intermediate result of the module-pass Resolver: a
// binding from every logical name touched during solving to the Candidate
// chosen for it, plus which of the original root queries were actually
// resolved.
type Resolution struct {
	bindings map[ModuleName]Candidate
	hosts    map[ModuleID]*ModuleInfo
	roots    []ModuleIDQuery
	resolved map[ModuleName]bool
}

// Binding returns the Candidate chosen for logical name, if any.
func (r *Resolution) Binding(name ModuleName) (Candidate, bool) {
	c, ok := r.bindings[name]
	return c, ok
}

// Bindings returns every logical-name -> Candidate binding, in
// name-sorted order.
func (r *Resolution) Bindings() []struct {
	Name ModuleName
	Candidate
} {
	names := make([]string, 0, len(r.bindings))
	for n := range r.bindings {
		names = append(names, string(n))
	}
	sort.Strings(names)

	out := make([]struct {
		Name ModuleName
		Candidate
	}, len(names))
	for i, n := range names {
		out[i] = struct {
			Name ModuleName
			Candidate
		}{Name: ModuleName(n), Candidate: r.bindings[ModuleName(n)]}
	}
	return out
}

// Modules returns the distinct set of modules (by host id) that ended up
// part of the resolution, sorted by id.
func (r *Resolution) Modules() []*ModuleInfo {
	out := make([]*ModuleInfo, 0, len(r.hosts))
	for _, mi := range r.hosts {
		out = append(out, mi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// ModuleInfo looks up a resolved module's metadata by its host id.
func (r *Resolution) ModuleInfo(id ModuleID) (*ModuleInfo, bool) {
	mi, ok := r.hosts[id]
	return mi, ok
}

// ResolvedRoots reports which of the original root queries were satisfied.
// Resolver.Resolve fails on any root with no candidate, so for a
// Resolution it returns every root is satisfied; ServiceResolver carries
// the module pass's roots and their resolved flags over unchanged.
func (r *Resolution) ResolvedRoots() []ModuleIDQuery {
	out := make([]ModuleIDQuery, 0, len(r.roots))
	for _, q := range r.roots {
		if r.resolved[q.Name] {
			out = append(out, q)
		}
	}
	return out
}

// Dump renders every binding as a deterministic, sorted multi-line report,
// for tests and diagnostics ahead of a full Configure call.
func (r *Resolution) Dump() string {
	var b strings.Builder
	for _, entry := range r.Bindings() {
		fmt.Fprintf(&b, "%s -> %s (host %s, view %s)\n", entry.Name, entry.Candidate.ID, entry.Candidate.Host, entry.Candidate.View)
	}
	for _, rq := range r.ResolvedRoots() {
		fmt.Fprintf(&b, "root %s\n", rq)
	}
	return b.String()
}

// clone produces a deep-enough copy for nested (service) resolution: the
// bindings and hosts maps are copied so the nested resolve can extend them
// without mutating the caller's Resolution on failure.
func (r *Resolution) clone() (map[ModuleName]Candidate, map[ModuleID]*ModuleInfo) {
	b := make(map[ModuleName]Candidate, len(r.bindings))
	for k, v := range r.bindings {
		b[k] = v
	}
	h := make(map[ModuleID]*ModuleInfo, len(r.hosts))
	for k, v := range r.hosts {
		h[k] = v
	}
	return b, h
}

// ServiceBinding records one provider attached to the resolution by the
// ServiceResolver.
type ServiceBinding struct {
	Service string
	Host    ModuleID
	View    ModuleName
	Impl    string
}

// ExtendedResolution is a module-pass Resolution plus the service
// bindings discovered by the ServiceResolver's second pass.
type ExtendedResolution struct {
	*Resolution
	Services []ServiceBinding
}

// ServicesFor returns the bindings recorded for the named service, in
// deterministic (provider-id, view, impl) order.
func (er *ExtendedResolution) ServicesFor(service string) []ServiceBinding {
	var out []ServiceBinding
	for _, b := range er.Services {
		if b.Service == service {
			out = append(out, b)
		}
	}
	return out
}
