package jigsaw

import (
	"sort"

	"github.com/heyunxia/openjdk-sub002/internal/log"
)

// ServiceResolver runs the second, nested resolution pass: given a
// completed module-pass Resolution, it discovers and binds service
// providers for every resolved module's ServiceDependence, feeding any
// newly bound provider's own dependences back into the same resolver
// machinery used by the module pass, and iterates to a fixed point since a
// provider can itself declare service dependences that pull in further
// providers.
type ServiceResolver struct {
	Catalog Catalog

	// BaseModule is forwarded to the inner Resolver used to bind each
	// provider's own module dependences.
	BaseModule ModuleName

	Trace *log.Logger
}

type providerKey struct {
	service string
	host    ModuleID
}

type requirementKey struct {
	host    ModuleID
	service string
}

// Resolve attaches service bindings to base, returning an
// ExtendedResolution. A non-optional ServiceDependence with zero
// successfully bound providers fails the whole resolution; an optional one
// simply contributes nothing.
//
// Permits never gate a service binding: a provider's host module may
// restrict which modules may `requires` it directly while still being
// freely discoverable as a service implementation. A provider's own
// transitive module dependences are resolved under the ordinary rules,
// permits included.
func (sr *ServiceResolver) Resolve(base *Resolution) (*ExtendedResolution, error) {
	chosen, hosts := base.clone()
	jr := newJournal()
	inner := &Resolver{Catalog: sr.Catalog, BaseModule: sr.BaseModule, Trace: sr.Trace}

	bound := make(map[providerKey]bool)
	satisfied := make(map[requirementKey]bool)
	var bindings []ServiceBinding

	for {
		changed := false

		for _, mi := range sortedHosts(hosts) {
			for _, sd := range mi.ServiceDeps {
				providers, err := sr.Catalog.GatherProviders(sd.Service)
				if err != nil {
					return nil, err
				}

				for _, p := range providers {
					pk := providerKey{service: sd.Service, host: p.Module}
					if bound[pk] {
						satisfied[requirementKey{host: mi.ID, service: sd.Service}] = true
						continue
					}

					q := ModuleIDQuery{Name: p.Module.Name, VQ: VersionQuery{Op: QueryEq, V: p.Module.Version}}
					edge := pendingEdge{query: q, dependent: mi.ID.Name, ignorePermits: true}
					mark := jr.mark()

					if err := inner.resolveEdge(edge, chosen, jr, Chain{mi.ID.Name}); err != nil {
						jr.rollbackTo(mark, chosen)
						sr.tracef("service %s: provider %s rolled back: %v", sd.Service, p.Module, err)
						continue
					}

					bound[pk] = true
					satisfied[requirementKey{host: mi.ID, service: sd.Service}] = true
					bindings = append(bindings, ServiceBinding{Service: sd.Service, Host: p.Module, View: p.View, Impl: p.Impl})
					changed = true
					sr.tracef("service %s: bound provider %s", sd.Service, p.Module)
				}
			}
		}

		for _, c := range chosen {
			if _, ok := hosts[c.Host]; ok {
				continue
			}
			mi, found, err := sr.Catalog.ReadModuleInfo(c.Host)
			if err != nil {
				return nil, err
			}
			if found {
				hosts[c.Host] = mi
				changed = true
			}
		}

		if !changed {
			break
		}
	}

	for _, mi := range sortedHosts(hosts) {
		for _, sd := range mi.ServiceDeps {
			if sd.Mods.Has(ModOptional) {
				continue
			}
			if !satisfied[requirementKey{host: mi.ID, service: sd.Service}] {
				return nil, &ModuleNotFoundError{
					Query: NewModuleIDQuery(ModuleName(sd.Service)),
					Chain: Chain{mi.ID.Name},
				}
			}
		}
	}

	sort.Slice(bindings, func(i, j int) bool {
		if bindings[i].Service != bindings[j].Service {
			return bindings[i].Service < bindings[j].Service
		}
		if !bindings[i].Host.Equal(bindings[j].Host) {
			return bindings[i].Host.Less(bindings[j].Host)
		}
		if bindings[i].View != bindings[j].View {
			return bindings[i].View < bindings[j].View
		}
		return bindings[i].Impl < bindings[j].Impl
	})

	resolution := &Resolution{
		bindings: chosen,
		hosts:    hosts,
		roots:    base.roots,
		resolved: base.resolved,
	}
	return &ExtendedResolution{Resolution: resolution, Services: bindings}, nil
}

func sortedHosts(hosts map[ModuleID]*ModuleInfo) []*ModuleInfo {
	out := make([]*ModuleInfo, 0, len(hosts))
	for _, mi := range hosts {
		out = append(out, mi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

func (sr *ServiceResolver) tracef(format string, args ...interface{}) {
	if sr.Trace != nil {
		sr.Trace.Logf(format, args...)
	}
}
