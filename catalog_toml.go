package jigsaw

import (
	"io"
	"io/ioutil"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// tomlCatalogFile is the on-disk shape a TOMLCatalog snapshot unmarshals
// into, modeled on the declarative TOML manifest format dep reads with the
// same library (dep/manifest.go): one table per concern, flat lists rather
// than nested objects wherever order doesn't matter.
type tomlCatalogFile struct {
	Module []tomlModule `toml:"module"`
}

type tomlModule struct {
	Name    string          `toml:"name"`
	Version string          `toml:"version"`
	Default tomlView        `toml:"default"`
	View    []tomlView      `toml:"view"`
	Deps    []tomlDep       `toml:"requires"`
	SvcDeps []tomlServiceDep `toml:"requires-service"`
	Classes tomlClasses     `toml:"classes"`
}

type tomlView struct {
	Name      string              `toml:"name"`
	Exports   []string            `toml:"exports"`
	Permits   []string            `toml:"permits"`
	Aliases   []string            `toml:"aliases"`
	MainClass string              `toml:"main-class"`
	Services  map[string][]string `toml:"services"`
}

type tomlDep struct {
	Name      string   `toml:"name"`
	Version   string   `toml:"version"`
	Modifiers []string `toml:"modifiers"`
}

type tomlServiceDep struct {
	Service   string   `toml:"service"`
	Modifiers []string `toml:"modifiers"`
}

type tomlClasses struct {
	Public   []string `toml:"public"`
	Internal []string `toml:"internal"`
}

// LoadTOMLCatalog reads a catalog snapshot from r and builds an in-memory
// Catalog from it. It is meant for development and test fixtures, not for
// the module-info compiler's own text grammar, which is out of scope.
func LoadTOMLCatalog(r io.Reader) (Catalog, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "jigsaw: reading toml catalog")
	}

	modules, err := parseTOMLModules(data)
	if err != nil {
		return nil, err
	}
	return NewCatalog(modules)
}

// parseTOMLModules parses one TOML catalog snapshot's modules without
// building a Catalog from them, so DiskCatalog can merge the modules from
// several files before checking for cross-file duplicates.
func parseTOMLModules(data []byte) ([]*ModuleInfo, error) {
	var file tomlCatalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "jigsaw: parsing toml catalog")
	}

	var errs []string
	modules := make([]*ModuleInfo, 0, len(file.Module))
	for _, tm := range file.Module {
		mi, err := tm.toModuleInfo()
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		modules = append(modules, mi)
	}
	if len(errs) > 0 {
		return nil, errors.Errorf("jigsaw: %d module(s) failed to load: %s", len(errs), joinErrs(errs))
	}
	return modules, nil
}

func (tm tomlModule) toModuleInfo() (*ModuleInfo, error) {
	version, err := ParseVersion(tm.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "module %s", tm.Name)
	}
	id := NewModuleID(ModuleName(tm.Name), version)

	defaultView, err := tm.Default.toModuleView(id)
	if err != nil {
		return nil, errors.Wrapf(err, "module %s: default view", tm.Name)
	}
	defaultView.ID = id

	extraViews := make([]ModuleView, 0, len(tm.View))
	for _, tv := range tm.View {
		v, err := tv.toModuleView(ModuleID{})
		if err != nil {
			return nil, errors.Wrapf(err, "module %s: view %s", tm.Name, tv.Name)
		}
		v.ID = NewModuleID(ModuleName(tv.Name), version)
		extraViews = append(extraViews, v)
	}

	deps := make([]ViewDependence, 0, len(tm.Deps))
	for _, td := range tm.Deps {
		vq, err := ParseVersionQuery(td.Version)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s: requires %s", tm.Name, td.Name)
		}
		mods, err := parseModifiers(td.Modifiers)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s: requires %s", tm.Name, td.Name)
		}
		deps = append(deps, ViewDependence{
			Mods:  mods,
			Query: ModuleIDQuery{Name: ModuleName(td.Name), VQ: vq},
		})
	}

	svcDeps := make([]ServiceDependence, 0, len(tm.SvcDeps))
	for _, sd := range tm.SvcDeps {
		mods, err := parseModifiers(sd.Modifiers)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s: requires-service %s", tm.Name, sd.Service)
		}
		svcDeps = append(svcDeps, ServiceDependence{Mods: mods, Service: sd.Service})
	}

	mi, err := NewModuleInfo(id, defaultView, extraViews, deps, svcDeps)
	if err != nil {
		return nil, err
	}
	for _, c := range tm.Classes.Public {
		mi.PublicClasses[c] = struct{}{}
	}
	for _, c := range tm.Classes.Internal {
		mi.InternalClasses[c] = struct{}{}
	}
	return mi, nil
}

func (tv tomlView) toModuleView(id ModuleID) (ModuleView, error) {
	v := NewModuleView(id)
	for _, e := range tv.Exports {
		v.Exports[e] = struct{}{}
	}
	for _, p := range tv.Permits {
		v.Permits[ModuleName(p)] = struct{}{}
	}
	for svc, impls := range tv.Services {
		v.Services[svc] = append([]string(nil), impls...)
	}
	v.MainClass = tv.MainClass

	for _, a := range tv.Aliases {
		aq, err := ParseModuleIDQuery(a)
		if err != nil {
			return ModuleView{}, errors.Wrapf(err, "alias %q", a)
		}
		if aq.VQ.Op != QueryEq {
			return ModuleView{}, errors.Errorf("alias %q must name an exact version", a)
		}
		v.Aliases = append(v.Aliases, NewModuleID(aq.Name, aq.VQ.V))
	}
	return v, nil
}

func parseModifiers(names []string) (DepModifiers, error) {
	var m DepModifiers
	for _, n := range names {
		switch n {
		case "public":
			m |= ModPublic
		case "optional":
			m |= ModOptional
		case "local":
			m |= ModLocal
		default:
			return 0, errors.Errorf("unknown dependence modifier %q", n)
		}
	}
	return m, nil
}

func joinErrs(errs []string) string {
	out := ""
	for i, e := range errs {
		if i > 0 {
			out += "; "
		}
		out += e
	}
	return out
}
