package jigsaw

import "sort"

// Configure builds the final Configuration from a completed resolution and
// its attached service bindings:
//
//  1. partition the resolved modules into Contexts by connected components
//     of `requires local` edges;
//  2. build each Context's local-class map, failing on a name collision
//     between two members (DuplicateClassError);
//  3. propagate package exports along `requires public` edges between
//     Contexts to a fixed point;
//  4. for each Context, resolve the packages it can only reach through a
//     non-local dependency into a remote-package map (package name ->
//     owning context name), and record the set of other Contexts it
//     links to directly as its PathContext, failing if two distinct
//     linked Contexts export the same package name
//     (DuplicateExportedPackageError).
func Configure(resolution *Resolution, services []ServiceBinding, roots []ModuleIDQuery) (*Configuration, error) {
	modules := resolution.Modules()

	contexts, hostToContext, err := partitionContexts(resolution, modules)
	if err != nil {
		return nil, err
	}

	if err := propagatePublicExports(modules, resolution, hostToContext); err != nil {
		return nil, err
	}

	paths, err := buildPathContexts(modules, resolution, contexts, hostToContext)
	if err != nil {
		return nil, err
	}

	rootContexts := make(map[ModuleName]string, len(roots))
	for _, rq := range roots {
		cand, ok := resolution.Binding(rq.Name)
		if !ok {
			continue
		}
		if ctx, ok := hostToContext[cand.Host]; ok {
			rootContexts[rq.Name] = ctx.Name
		}
	}

	return &Configuration{
		Contexts:     contexts,
		Paths:        paths,
		Roots:        roots,
		RootContexts: rootContexts,
		Services:     services,
	}, nil
}

// partitionContexts groups modules into Contexts by connected components
// of `requires local` edges and builds each Context's identity and
// local-class map.
func partitionContexts(resolution *Resolution, modules []*ModuleInfo) (map[string]*Context, map[ModuleID]*Context, error) {
	uf := newUnionFind(modules)
	for _, mi := range modules {
		for _, dep := range mi.ModuleDeps {
			if !dep.Mods.Has(ModLocal) {
				continue
			}
			cand, ok := resolution.Binding(dep.Query.Name)
			if !ok {
				continue // unresolved optional local dep
			}
			uf.union(mi.ID, cand.Host)
		}
	}

	groups := uf.groups()
	contexts := make(map[string]*Context, len(groups))
	hostToContext := make(map[ModuleID]*Context, len(modules))

	for _, members := range groups {
		sort.Slice(members, func(i, j int) bool { return members[i].Less(members[j]) })

		// The context's name is derived from every member's view names, so
		// it has to be known in full before it can be cited in an error -
		// otherwise a collision detected partway through the member loop
		// below would report a name missing any later member's views.
		viewSet := make(map[ModuleName]struct{})
		for _, id := range members {
			mi, ok := resolution.ModuleInfo(id)
			if !ok {
				continue
			}
			for _, view := range mi.AllViews() {
				viewSet[view.ID.Name] = struct{}{}
			}
		}
		views := sortedModuleNames(viewSet)
		name := contextName(views)

		localClasses := make(map[string]ModuleID)
		exports := make(map[string]ModuleID)

		for _, id := range members {
			mi, ok := resolution.ModuleInfo(id)
			if !ok {
				continue
			}
			for _, view := range mi.AllViews() {
				for _, pkg := range view.sortedExports() {
					exports[pkg] = id
				}
			}
			for _, class := range mi.AllClassNames() {
				if existing, dup := localClasses[class]; dup && !existing.Equal(id) {
					return nil, nil, &DuplicateClassError{
						Context: name,
						Class:   class,
						First:   existing,
						Second:  id,
					}
				}
				localClasses[class] = id
			}
		}

		ctx := newContext(name)
		ctx.Members = members
		ctx.Views = views
		ctx.LocalClasses = localClasses
		ctx.Exports = exports

		contexts[name] = ctx
		for _, id := range members {
			hostToContext[id] = ctx
		}
	}

	return contexts, hostToContext, nil
}

// propagatePublicExports folds each Context's `requires public` targets'
// exports into its own Exports map, to a fixed point, so a multi-hop
// public chain crossing several Contexts exposes all of it in one step to
// the eventual reader.
func propagatePublicExports(modules []*ModuleInfo, resolution *Resolution, hostToContext map[ModuleID]*Context) error {
	type pubEdge struct{ from, to *Context }
	seen := make(map[[2]string]bool)
	var edges []pubEdge

	for _, mi := range modules {
		src, ok := hostToContext[mi.ID]
		if !ok {
			continue
		}
		for _, dep := range mi.ModuleDeps {
			if !dep.Mods.Has(ModPublic) {
				continue
			}
			cand, ok := resolution.Binding(dep.Query.Name)
			if !ok {
				continue
			}
			dst, ok := hostToContext[cand.Host]
			if !ok || dst == src {
				continue
			}
			key := [2]string{src.Name, dst.Name}
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, pubEdge{from: src, to: dst})
		}
	}

	for {
		changed := false
		for _, e := range edges {
			for pkg, owner := range e.to.Exports {
				existing, has := e.from.Exports[pkg]
				if !has {
					e.from.Exports[pkg] = owner
					changed = true
					continue
				}
				if !existing.Equal(owner) {
					return &DuplicateExportedPackageError{
						Package: pkg,
						First:   hostToContext[existing].Name,
						Second:  hostToContext[owner].Name,
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return nil
}

// buildPathContexts computes, for every Context, the set of other
// Contexts it depends on directly (local edges never produce a link, since
// their target is already a member of the same Context), fills in that
// Context's RemotePackages with every package reachable through those
// links, and records the link set itself as the Context's PathContext.
func buildPathContexts(modules []*ModuleInfo, resolution *Resolution, contexts map[string]*Context, hostToContext map[ModuleID]*Context) (map[string]*PathContext, error) {
	links := make(map[string]map[string]bool)

	for _, mi := range modules {
		src, ok := hostToContext[mi.ID]
		if !ok {
			continue
		}
		for _, dep := range mi.ModuleDeps {
			if dep.Mods.Has(ModLocal) {
				continue
			}
			cand, ok := resolution.Binding(dep.Query.Name)
			if !ok {
				continue
			}
			dst, ok := hostToContext[cand.Host]
			if !ok || dst == src {
				continue
			}
			if links[src.Name] == nil {
				links[src.Name] = make(map[string]bool)
			}
			links[src.Name][dst.Name] = true
		}
	}

	paths := make(map[string]*PathContext, len(contexts))
	for name, ctx := range contexts {
		pc := newPathContext(ctx)
		linkNames := sortedStringSet(links[name])
		pc.Links = linkNames

		for _, ln := range linkNames {
			lctx := contexts[ln]
			for pkg := range lctx.Exports {
				if existing, has := ctx.RemotePackages[pkg]; has && existing != ln {
					return nil, &DuplicateExportedPackageError{Package: pkg, First: existing, Second: ln}
				}
				ctx.RemotePackages[pkg] = ln
			}
		}

		paths[name] = pc
	}

	return paths, nil
}

// contextName builds the canonical "+view1+view2" name from a sorted list
// of view names.
func contextName(views []ModuleName) string {
	s := "+"
	for i, v := range views {
		if i > 0 {
			s += "+"
		}
		s += string(v)
	}
	return s
}

func sortedModuleNames(set map[ModuleName]struct{}) []ModuleName {
	out := make([]ModuleName, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedStringSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// unionFind is the connected-components structure behind Context
// partitioning: every resolved module starts in its own singleton set, and
// a `requires local` edge merges its dependent's set with its target's.
type unionFind struct {
	parent map[ModuleID]ModuleID
}

func newUnionFind(modules []*ModuleInfo) *unionFind {
	uf := &unionFind{parent: make(map[ModuleID]ModuleID, len(modules))}
	for _, mi := range modules {
		uf.parent[mi.ID] = mi.ID
	}
	return uf
}

func (uf *unionFind) find(x ModuleID) ModuleID {
	p, ok := uf.parent[x]
	if !ok {
		return x
	}
	if p.Equal(x) {
		return x
	}
	root := uf.find(p)
	uf.parent[x] = root
	return root
}

func (uf *unionFind) union(a, b ModuleID) {
	ra, rb := uf.find(a), uf.find(b)
	if ra.Equal(rb) {
		return
	}
	uf.parent[ra] = rb
}

func (uf *unionFind) groups() map[ModuleID][]ModuleID {
	out := make(map[ModuleID][]ModuleID)
	for id := range uf.parent {
		r := uf.find(id)
		out[r] = append(out[r], id)
	}
	return out
}
