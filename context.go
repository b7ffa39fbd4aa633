package jigsaw

import (
	"fmt"
	"sort"
	"strings"
)

// Context is a maximal group of resolved modules merged together by
// `requires local` edges: its members share a single local-class
// namespace and present a single package-level face - Exports - to every
// other Context that reads from it.
type Context struct {
	// Name is the canonical context name: "+" followed by every member
	// module's view names, deduplicated and sorted, joined by "+".
	Name string

	// Members are the context's host modules, sorted by id. This is also
	// the context's local class-loading path.
	Members []ModuleID

	// Views are the sorted view names contributed by Members, the same
	// list Name is built from.
	Views []ModuleName

	// LocalClasses maps every class name declared by a member module to
	// the module that declares it.
	LocalClasses map[string]ModuleID

	// Exports maps every package visible to a reader of this context -
	// directly exported by a member, or re-exported through a `requires
	// public` chain into another context - to the module that originally
	// declared it.
	Exports map[string]ModuleID

	// RemotePackages maps every package this context reaches through a
	// non-local dependency to the name of the context that exports it, so
	// a class loader resolving an import that isn't a local class or a
	// local member's export knows which other context to delegate to.
	RemotePackages map[string]string
}

func newContext(name string) *Context {
	return &Context{
		Name:           name,
		LocalClasses:   make(map[string]ModuleID),
		Exports:        make(map[string]ModuleID),
		RemotePackages: make(map[string]string),
	}
}

func (c *Context) String() string {
	return c.Name
}

// PathContext is the compile-time face of a Context: its own local class
// path plus references to the other contexts it links against directly.
// The packages reachable through those links are Context.RemotePackages;
// PathContext only records which contexts a class loader would need on
// the path, not the package-level detail.
type PathContext struct {
	Context *Context

	// LocalPath is Context.Members, included here for convenience since
	// PathContext is the compile-time view most callers actually want.
	LocalPath []ModuleID

	// Links are the other contexts this one depends on directly, sorted
	// by name.
	Links []string
}

func newPathContext(ctx *Context) *PathContext {
	return &PathContext{
		Context:   ctx,
		LocalPath: ctx.Members,
	}
}

// Configuration is the immutable final output of the module and service
// passes plus the Configurator: every Context and its PathContext, keyed
// by context name, and a record of which context hosts each resolved
// root.
type Configuration struct {
	Contexts map[string]*Context
	Paths    map[string]*PathContext

	// Roots are the original root queries the configuration was built
	// from.
	Roots []ModuleIDQuery

	// RootContexts maps each resolved root's logical name to the name of
	// the context that hosts its binding.
	RootContexts map[ModuleName]string

	Services []ServiceBinding
}

// Equal reports whether cfg and other describe the same configuration.
// Configuration is meant to be compared by value once built - two
// Configure calls over equivalent inputs should be indistinguishable to a
// caller - so Equal defers to the same canonical, sorted rendering Dump
// produces rather than doing a second field-by-field walk that could
// drift out of sync with it.
func (cfg *Configuration) Equal(other *Configuration) bool {
	if cfg == nil || other == nil {
		return cfg == other
	}
	return cfg.Dump() == other.Dump()
}

// ContextFor returns the context hosting id, if id is a resolved module.
func (cfg *Configuration) ContextFor(id ModuleID) (*Context, bool) {
	for _, ctx := range cfg.Contexts {
		for _, m := range ctx.Members {
			if m.Equal(id) {
				return ctx, true
			}
		}
	}
	return nil, false
}

// Dump renders the configuration as a deterministic multi-line report,
// primarily for tests and the jigsawc CLI's -dump flag.
func (cfg *Configuration) Dump() string {
	var b strings.Builder

	names := make([]string, 0, len(cfg.Contexts))
	for n := range cfg.Contexts {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		ctx := cfg.Contexts[n]
		fmt.Fprintf(&b, "context %s\n", ctx.Name)

		members := make([]string, len(ctx.Members))
		for i, m := range ctx.Members {
			members[i] = m.String()
		}
		fmt.Fprintf(&b, "  members: %s\n", strings.Join(members, ", "))

		classes := make([]string, 0, len(ctx.LocalClasses))
		for c := range ctx.LocalClasses {
			classes = append(classes, c)
		}
		sort.Strings(classes)
		for _, c := range classes {
			fmt.Fprintf(&b, "  class %s -> %s\n", c, ctx.LocalClasses[c])
		}

		pkgs := make([]string, 0, len(ctx.Exports))
		for p := range ctx.Exports {
			pkgs = append(pkgs, p)
		}
		sort.Strings(pkgs)
		for _, p := range pkgs {
			fmt.Fprintf(&b, "  exports %s -> %s\n", p, ctx.Exports[p])
		}

		remote := make([]string, 0, len(ctx.RemotePackages))
		for p := range ctx.RemotePackages {
			remote = append(remote, p)
		}
		sort.Strings(remote)
		for _, p := range remote {
			fmt.Fprintf(&b, "  remote %s -> %s\n", p, ctx.RemotePackages[p])
		}

		if pc, ok := cfg.Paths[n]; ok && len(pc.Links) > 0 {
			fmt.Fprintf(&b, "  links: %s\n", strings.Join(pc.Links, ", "))
		}
	}

	roots := make([]string, 0, len(cfg.RootContexts))
	for r := range cfg.RootContexts {
		roots = append(roots, string(r))
	}
	sort.Strings(roots)
	for _, r := range roots {
		fmt.Fprintf(&b, "root %s -> %s\n", r, cfg.RootContexts[ModuleName(r)])
	}

	for _, s := range cfg.Services {
		fmt.Fprintf(&b, "service %s -> %s (%s)\n", s.Service, s.Host, s.Impl)
	}

	return b.String()
}
