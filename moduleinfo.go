package jigsaw

import (
	"sort"

	"github.com/pkg/errors"
)

// ModuleView is one exported facade of a module: the module's own default
// view, or one of its additional named views. All views of a module share
// the module's version; only their name, exports, permits, aliases,
// service provisions, and main class differ.
type ModuleView struct {
	// ID is this view's identifier. For the default view, ID.Name equals
	// the owning module's name. For an additional view, ID.Name is the
	// view's own name and must differ from the module's name: a module
	// may not declare itself as a view.
	ID ModuleID

	// Exports is the set of package names this view makes visible to
	// non-local dependents.
	Exports map[string]struct{}

	// Permits is the set of module names allowed to `requires local` this
	// view.
	Permits map[ModuleName]struct{}

	// Aliases are alternate ModuleIDs under which this view can be
	// requested (a `provides` clause), e.g. foo@2 provides foo-legacy@1.
	Aliases []ModuleID

	// Services maps a service-interface name to the ordered set of
	// implementation class names this view provides for it.
	Services map[string][]string

	// MainClass is the view's entry-point class, or "" if none.
	MainClass string
}

// NewModuleView builds a ModuleView with empty-but-non-nil sets, ready to
// have Exports/Permits/Aliases/Services populated.
func NewModuleView(id ModuleID) ModuleView {
	return ModuleView{
		ID:       id,
		Exports:  make(map[string]struct{}),
		Permits:  make(map[ModuleName]struct{}),
		Services: make(map[string][]string),
	}
}

// ExportsPackage reports whether pkg is in the view's export set.
func (v ModuleView) ExportsPackage(pkg string) bool {
	_, ok := v.Exports[pkg]
	return ok
}

// PermitsModule reports whether name may `requires local` this view,
// honoring the base-module exemption applied by the caller.
func (v ModuleView) PermitsModule(name ModuleName) bool {
	_, ok := v.Permits[name]
	return ok
}

func (v ModuleView) sortedExports() []string {
	out := make([]string, 0, len(v.Exports))
	for p := range v.Exports {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// ModuleInfo is the full metadata record for one installed module: its
// identity, its default view, any additional views, and its declared
// module/service dependences.
type ModuleInfo struct {
	ID ModuleID

	// DefaultView's ID always equals ID.
	DefaultView ModuleView

	// Views holds any additional named views, keyed by view name. It never
	// contains an entry for the module's own name.
	Views map[string]ModuleView

	ModuleDeps  []ViewDependence
	ServiceDeps []ServiceDependence

	// PublicClasses and InternalClasses are the class lists the
	// Configurator consumes to build a Context's local-class map. A class
	// name appears in exactly one of the two sets.
	PublicClasses   map[string]struct{}
	InternalClasses map[string]struct{}
}

// NewModuleInfo validates and builds a ModuleInfo. It enforces the two
// structural invariants that don't depend on catalog-wide state: every
// view shares the module's version, and no view is named after the
// module itself.
func NewModuleInfo(id ModuleID, defaultView ModuleView, extraViews []ModuleView, moduleDeps []ViewDependence, serviceDeps []ServiceDependence) (*ModuleInfo, error) {
	if !defaultView.ID.Equal(id) {
		return nil, errors.Errorf("module %s: default view id %s must equal the module id", id, defaultView.ID)
	}

	views := make(map[string]ModuleView, len(extraViews))
	for _, v := range extraViews {
		if v.ID.Name == id.Name {
			return nil, errors.Errorf("module %s: view %s may not reuse the module's own name", id, v.ID.Name)
		}
		if !v.ID.Version.Equal(id.Version) {
			return nil, errors.Errorf("module %s: view %s has version %s, want %s", id, v.ID.Name, v.ID.Version, id.Version)
		}
		if _, dup := views[string(v.ID.Name)]; dup {
			return nil, errors.Errorf("module %s: view %s declared more than once", id, v.ID.Name)
		}
		views[string(v.ID.Name)] = v
	}

	return &ModuleInfo{
		ID:              id,
		DefaultView:     defaultView,
		Views:           views,
		ModuleDeps:      moduleDeps,
		ServiceDeps:     serviceDeps,
		PublicClasses:   map[string]struct{}{},
		InternalClasses: map[string]struct{}{},
	}, nil
}

// AllViews returns the default view followed by any additional views, in
// name-sorted order for the extras so iteration is deterministic.
func (mi *ModuleInfo) AllViews() []ModuleView {
	out := make([]ModuleView, 0, 1+len(mi.Views))
	out = append(out, mi.DefaultView)

	names := make([]string, 0, len(mi.Views))
	for n := range mi.Views {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		out = append(out, mi.Views[n])
	}
	return out
}

// ViewNamed returns the view with the given name (the default view if name
// equals the module's own name), or false if there is none.
func (mi *ModuleInfo) ViewNamed(name ModuleName) (ModuleView, bool) {
	if name == mi.ID.Name {
		return mi.DefaultView, true
	}
	v, ok := mi.Views[string(name)]
	return v, ok
}

// AllClassNames returns the union of public and internal class names,
// sorted, as consumed by the Configurator's local-class map construction.
func (mi *ModuleInfo) AllClassNames() []string {
	out := make([]string, 0, len(mi.PublicClasses)+len(mi.InternalClasses))
	for c := range mi.PublicClasses {
		out = append(out, c)
	}
	for c := range mi.InternalClasses {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
