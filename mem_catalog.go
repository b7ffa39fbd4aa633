package jigsaw

import "sort"

// memCatalog is the in-memory Catalog implementation used by tests and as
// the base that TOMLCatalog and DiskCatalog build on top of once they've
// parsed their respective sources into []*ModuleInfo.
type memCatalog struct {
	byID  map[ModuleID]*ModuleInfo
	index *catalogIndex
}

// NewCatalog builds a Catalog from a fixed set of module definitions. It
// fails if two modules share a ModuleID or if two modules declare the same
// alias id.
func NewCatalog(modules []*ModuleInfo) (Catalog, error) {
	idx, byID, err := buildCatalogIndex(modules)
	if err != nil {
		return nil, err
	}
	return &memCatalog{byID: byID, index: idx}, nil
}

func (c *memCatalog) FindCandidates(q ModuleIDQuery) ([]Candidate, error) {
	return c.index.candidates(q), nil
}

func (c *memCatalog) ReadModuleInfo(id ModuleID) (*ModuleInfo, bool, error) {
	mi, ok := c.byID[id]
	return mi, ok, nil
}

func (c *memCatalog) GatherProviders(service string) ([]Provider, error) {
	var out []Provider
	for _, mi := range c.byID {
		for _, view := range mi.AllViews() {
			impls, ok := view.Services[service]
			if !ok {
				continue
			}
			for _, impl := range impls {
				out = append(out, Provider{Module: mi.ID, View: view.ID.Name, Impl: impl})
			}
		}
	}

	// Deterministic order: provider id, then view, then impl.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module.Less(out[j].Module)
		}
		if out[i].View != out[j].View {
			return out[i].View < out[j].View
		}
		return out[i].Impl < out[j].Impl
	})
	return out, nil
}
