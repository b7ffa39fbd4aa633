package jigsaw

import "github.com/pkg/errors"

// Provider is one service-provider registration discovered by
// Catalog.GatherProviders: a module that declares `provides service S with
// Impl` for the queried service, keyed by the view that declared it.
type Provider struct {
	Module ModuleID
	View   ModuleName
	Impl   string
}

// Candidate is one addressable match for a ModuleIDQuery: the resolver
// chooses among these. ID is the identifier that matched the query's
// name - the module's own id, a named view's id, or a declared alias -
// while Host names the module whose ModuleInfo actually backs it, and
// View names the specific view supplying exports/permits/services for
// this candidate.
type Candidate struct {
	ID   ModuleID
	Host ModuleID
	View ModuleName
}

// Catalog is the read-only contract the Resolver and ServiceResolver
// consume. Implementations must be deterministic: repeated calls return
// the same results in the same order, sorted by version descending. The
// Resolver never mutates a Catalog.
type Catalog interface {
	// FindCandidates returns every installed module-id, view-id, or alias
	// matching q's name whose version satisfies q's VersionQuery, ordered
	// highest-version-first.
	FindCandidates(q ModuleIDQuery) ([]Candidate, error)

	// ReadModuleInfo returns the full metadata for a module by its own
	// (non-view, non-alias) id.
	ReadModuleInfo(id ModuleID) (*ModuleInfo, bool, error)

	// GatherProviders returns every (module, view, impl) triple across the
	// catalog that provides an implementation of the named service.
	GatherProviders(service string) ([]Provider, error)
}

// ErrModuleNotFound is a sentinel for catalog-level lookup failures that
// are not query-level "no candidates" results (which the Resolver reports
// via its own ModuleNotFoundError). No Catalog in this package returns it:
// ReadModuleInfo on an id the catalog was never told about reports
// found == false with a nil error.
var ErrModuleNotFound = errors.New("jigsaw: module not found in catalog")

// ErrDuplicateModuleID is returned by catalog builders when two entries
// share a ModuleID: no two modules in a catalog may have the same id.
var ErrDuplicateModuleID = errors.New("jigsaw: duplicate module id in catalog")

// ErrDuplicateAlias is returned by catalog builders when two distinct
// modules declare the same alias ModuleID, caught at build time rather
// than left for the Resolver to discover mid-solve.
var ErrDuplicateAlias = errors.New("jigsaw: duplicate alias id in catalog")
