package jigsaw

import (
	"fmt"

	"github.com/pkg/errors"
)

// ModuleName identifies a module, a view, or an alias within the flat
// namespace that all three share during catalog lookup: a candidate
// matches a query whose module name equals name, whose named-view id
// equals name, or whose alias set contains a ModuleId named name.
type ModuleName string

// ModuleID identifies a specific module: a name and, except for the
// synthetic root used to seed resolution, a concrete version. Equality is
// exact (name and version both match under Version.Equal).
type ModuleID struct {
	Name    ModuleName
	Version Version
}

// NewModuleID builds a ModuleID from a name and a parsed version.
func NewModuleID(name ModuleName, v Version) ModuleID {
	return ModuleID{Name: name, Version: v}
}

// Equal reports exact identity: same name, same version.
func (id ModuleID) Equal(o ModuleID) bool {
	return id.Name == o.Name && id.Version.Equal(o.Version)
}

// Less provides the name-ascending, then highest-version-first ordering
// the Resolver relies on for deterministic candidate iteration.
func (id ModuleID) Less(o ModuleID) bool {
	if id.Name != o.Name {
		return id.Name < o.Name
	}
	return o.Version.Less(id.Version)
}

func (id ModuleID) String() string {
	if id.Version.IsNoVersion() {
		return string(id.Name)
	}
	return fmt.Sprintf("%s@%s", id.Name, id.Version)
}

// ModuleIDQuery names a module by name plus an optional version
// constraint. It is the shape of every root query and every module-side
// `requires` edge.
type ModuleIDQuery struct {
	Name ModuleName
	VQ   VersionQuery
}

// NewModuleIDQuery builds a query matching any version of name.
func NewModuleIDQuery(name ModuleName) ModuleIDQuery {
	return ModuleIDQuery{Name: name, VQ: AnyVersion}
}

// ParseModuleIDQuery parses strings of the form "name", "name@version", or
// "name@<op>version" (e.g. "foo@>=2.1").
func ParseModuleIDQuery(s string) (ModuleIDQuery, error) {
	if s == "" {
		return ModuleIDQuery{}, errors.New("module id query: empty string")
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '@' {
			name := s[:i]
			if name == "" {
				return ModuleIDQuery{}, errors.Errorf("module id query %q: empty name", s)
			}
			vq, err := ParseVersionQuery(s[i+1:])
			if err != nil {
				return ModuleIDQuery{}, errors.Wrapf(err, "module id query %q", s)
			}
			return ModuleIDQuery{Name: ModuleName(name), VQ: vq}, nil
		}
	}
	return ModuleIDQuery{Name: ModuleName(s), VQ: AnyVersion}, nil
}

// MustParseModuleIDQuery is ParseModuleIDQuery, panicking on error.
func MustParseModuleIDQuery(s string) ModuleIDQuery {
	q, err := ParseModuleIDQuery(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Matches reports whether id could satisfy this query by name and version
// alone; it does not account for views or aliases, which is the catalog's
// job (Catalog.FindCandidates).
func (q ModuleIDQuery) Matches(id ModuleID) bool {
	return id.Name == q.Name && q.VQ.Matches(id.Version)
}

func (q ModuleIDQuery) String() string {
	if q.VQ.Op == QueryAny {
		return string(q.Name)
	}
	return fmt.Sprintf("%s@%s", q.Name, q.VQ)
}

// byModuleIDDesc sorts ModuleIDs highest-version-first, the deterministic
// candidate order the catalog is required to produce.
type byModuleIDDesc []ModuleID

func (s byModuleIDDesc) Len() int      { return len(s) }
func (s byModuleIDDesc) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byModuleIDDesc) Less(i, j int) bool {
	if s[i].Name != s[j].Name {
		return s[i].Name < s[j].Name
	}
	return s[j].Version.Less(s[i].Version)
}
