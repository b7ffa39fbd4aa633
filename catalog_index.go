package jigsaw

import (
	"sort"

	radix "github.com/armon/go-radix"
	"github.com/pkg/errors"
)

// catalogIndex is the shared lookup structure behind every in-process
// Catalog implementation (memCatalog, TOMLCatalog, DiskCatalog). Module
// names, like the import paths gps indexes with the same library
// (golang-dep/solver.go's intersectConstraintsWithImports), are
// dot-segmented hierarchical strings, so a radix tree is a natural fit
// even though today's lookups are exact-name rather than prefix: it keeps
// the index sorted and gives the Resolver headroom to query by module-name
// prefix in the future without changing the storage shape.
type catalogIndex struct {
	byName *radix.Tree
}

// indexEntry is one addressable row under a name: a module's own id, one
// of its named views, or one of its aliases.
type indexEntry struct {
	id   ModuleID
	host ModuleID
	view ModuleName
}

func newCatalogIndex() *catalogIndex {
	return &catalogIndex{byName: radix.New()}
}

// buildCatalogIndex indexes every module's default view, named views, and
// aliases, rejecting duplicate module ids and duplicate alias ids.
func buildCatalogIndex(modules []*ModuleInfo) (*catalogIndex, map[ModuleID]*ModuleInfo, error) {
	byID := make(map[ModuleID]*ModuleInfo, len(modules))
	rows := make(map[string][]indexEntry)
	aliasOwner := make(map[ModuleID]ModuleID) // alias id -> declaring module id

	addRow := func(name ModuleName, e indexEntry) {
		key := string(name)
		rows[key] = append(rows[key], e)
	}

	for _, mi := range modules {
		if _, dup := byID[mi.ID]; dup {
			return nil, nil, errors.Wrapf(ErrDuplicateModuleID, "%s", mi.ID)
		}
		byID[mi.ID] = mi

		for _, view := range mi.AllViews() {
			addRow(view.ID.Name, indexEntry{id: view.ID, host: mi.ID, view: view.ID.Name})

			for _, alias := range view.Aliases {
				if owner, seen := aliasOwner[alias]; seen && owner != mi.ID {
					return nil, nil, errors.Wrapf(ErrDuplicateAlias, "%s claimed by both %s and %s", alias, owner, mi.ID)
				}
				aliasOwner[alias] = mi.ID
				addRow(alias.Name, indexEntry{id: alias, host: mi.ID, view: view.ID.Name})
			}
		}
	}

	idx := newCatalogIndex()
	for name, entries := range rows {
		sort.Sort(byEntryIDDesc(entries))
		idx.byName.Insert(name, entries)
	}

	return idx, byID, nil
}

type byEntryIDDesc []indexEntry

func (s byEntryIDDesc) Len() int      { return len(s) }
func (s byEntryIDDesc) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s byEntryIDDesc) Less(i, j int) bool {
	if s[i].id.Name != s[j].id.Name {
		return s[i].id.Name < s[j].id.Name
	}
	return s[j].id.Version.Less(s[i].id.Version)
}

// candidates returns every indexed row for q.Name whose version satisfies
// q.VQ, already in highest-version-first order.
func (idx *catalogIndex) candidates(q ModuleIDQuery) []Candidate {
	v, ok := idx.byName.Get(string(q.Name))
	if !ok {
		return nil
	}
	entries := v.([]indexEntry)

	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		if q.VQ.Matches(e.id.Version) {
			out = append(out, Candidate{ID: e.id, Host: e.host, View: e.view})
		}
	}
	return out
}
