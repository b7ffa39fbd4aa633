package jigsaw

import (
	"github.com/heyunxia/openjdk-sub002/internal/log"
)

// Resolver runs the module pass: given a Catalog and a set of root
// ModuleIdQuerys, it produces a Resolution binding every logical name
// reachable from the roots to a single Candidate, or fails with one of
// the documented error types.
//
// A Resolver is single-threaded and holds no state between Resolve calls;
// the same Resolver value may be reused for unrelated resolutions, or
// shared read-only across goroutines each calling Resolve concurrently,
// since the Catalog it wraps is required to be read-only and every other
// piece of state lives on the call stack of one Resolve call.
type Resolver struct {
	Catalog Catalog

	// BaseModule, if non-empty, names a module exempt from permits checks
	// on the dependee side: the view named BaseModule (the module's default
	// view) may be required, local or not, regardless of its declared
	// Permits set. The exemption matches on the view's name, so named views
	// of that module keep their own Permits checks.
	// Leave empty to require every permits-restricted view to list its
	// dependents explicitly, including the platform base module.
	BaseModule ModuleName

	// Trace, if non-nil, receives a line for every candidate attempt,
	// success, and rollback.
	Trace *log.Logger
}

// pendingEdge is one outstanding dependency edge the Resolver must
// satisfy: a constraint on a logical name, optionally carrying the
// modifiers (public/optional/local) it was declared with, and the name of
// the module that declared it (used for permits checks and error chains).
type pendingEdge struct {
	mods      DepModifiers
	query     ModuleIDQuery
	dependent ModuleName

	// ignorePermits skips the permits check for this edge's own candidate
	// (but not for that candidate's further dependences). Set by
	// ServiceResolver when binding a provider: a service binding is not
	// subject to the provider's permits list.
	ignorePermits bool
}

// Resolve runs the module pass against roots, all of which are mandatory:
// a root with no satisfying candidate fails the whole resolution (roots
// have no modifiers to mark them optional; ServiceResolver calls
// resolveEdge directly for each provider and rolls back a failed one
// itself).
func (r *Resolver) Resolve(roots []ModuleIDQuery) (*Resolution, error) {
	chosen := make(map[ModuleName]Candidate)
	jr := newJournal()
	resolved := make(map[ModuleName]bool, len(roots))

	for _, rq := range roots {
		edge := pendingEdge{query: rq}
		if err := r.resolveEdge(edge, chosen, jr, nil); err != nil {
			return nil, err
		}
		resolved[rq.Name] = true
	}

	return r.buildResolution(chosen, roots, resolved)
}

// buildResolution derives the distinct set of host modules from a
// completed chosen map - done post-hoc rather than tracked incrementally
// during backtracking, since a host used only by a branch that was later
// rolled back must not appear, and deriving it after the fact sidesteps
// needing a second journal just for that.
func (r *Resolver) buildResolution(chosen map[ModuleName]Candidate, roots []ModuleIDQuery, resolved map[ModuleName]bool) (*Resolution, error) {
	hosts := make(map[ModuleID]*ModuleInfo)
	for _, c := range chosen {
		if _, ok := hosts[c.Host]; ok {
			continue
		}
		mi, found, err := r.Catalog.ReadModuleInfo(c.Host)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &ModuleNotFoundError{Query: NewModuleIDQuery(c.Host.Name)}
		}
		hosts[c.Host] = mi
	}

	return &Resolution{
		bindings: chosen,
		hosts:    hosts,
		roots:    roots,
		resolved: resolved,
	}, nil
}

// resolveEdge satisfies one dependency edge against chosen, mutating it
// (via jr, so the caller can roll back) and recursing into the chosen
// candidate's own dependences. chain is the dependent path so far, for
// error messages; it is never mutated in place so sibling branches don't
// see each other's appended frames.
func (r *Resolver) resolveEdge(edge pendingEdge, chosen map[ModuleName]Candidate, jr *journal, chain Chain) error {
	name := edge.query.Name

	if existing, ok := chosen[name]; ok {
		if !edge.query.VQ.Matches(existing.ID.Version) {
			return &VersionConflictError{Name: name, Existing: existing.ID, Query: edge.query, Chain: chain}
		}

		// Permits gates every edge to a view, not just the one that first
		// brought it into the resolution: a dependent reusing an
		// already-chosen binding must itself be permitted.
		if !edge.ignorePermits {
			mi, found, err := r.Catalog.ReadModuleInfo(existing.Host)
			if err != nil {
				return err
			}
			if !found {
				return &ModuleNotFoundError{Query: edge.query, Chain: chain}
			}
			view, ok := mi.ViewNamed(existing.View)
			if !ok {
				return &ModuleNotFoundError{Query: edge.query, Chain: chain}
			}
			if !r.permitsOK(view, edge.dependent) {
				return &PermitsViolationError{Dependent: edge.dependent, Target: existing.ID, View: existing.View, Chain: chain}
			}
		}

		r.tracef("reuse %s -> %s", name, existing.ID)
		return nil
	}

	candidates, err := r.Catalog.FindCandidates(edge.query)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		if edge.mods.Has(ModOptional) {
			r.tracef("optional %s unsatisfied: no candidates", edge.query)
			return nil
		}
		return &ModuleNotFoundError{Query: edge.query, Chain: chain}
	}

	var lastErr error
	for _, cand := range candidates {
		mark := jr.mark()
		jr.set(chosen, name, cand)
		r.tracef("try %s = %s", name, cand.ID)

		if err := r.tryCandidate(cand, edge, chosen, jr, append(append(Chain{}, chain...), cand.Host.Name)); err != nil {
			lastErr = err
			r.tracef("backtrack %s = %s: %v", name, cand.ID, err)
			jr.rollbackTo(mark, chosen)
			continue
		}

		r.tracef("commit %s = %s", name, cand.ID)
		return nil
	}

	if edge.mods.Has(ModOptional) && isNotFound(lastErr) {
		r.tracef("optional %s unsatisfied after %d candidates", edge.query, len(candidates))
		return nil
	}
	return lastErr
}

// isNotFound reports whether err is (or wraps) a ModuleNotFoundError.
// Optional dependence only excuses the case where nothing in the catalog
// can satisfy an edge at all - a VersionConflictError or
// PermitsViolationError means something does exist but is incompatible or
// forbidden, which an optional modifier does not paper over.
func isNotFound(err error) bool {
	_, ok := err.(*ModuleNotFoundError)
	return ok
}

// tryCandidate checks cand's permits against the edge's dependent (local
// or not, unless edge.ignorePermits is set) and then
// resolves every one of cand's own module dependences, non-optional ones
// first and in declaration order, optional ones last and individually
// rolled back on failure rather than failing the whole candidate: optional
// edges are the primary backtrack points.
func (r *Resolver) tryCandidate(cand Candidate, edge pendingEdge, chosen map[ModuleName]Candidate, jr *journal, chain Chain) error {
	mi, found, err := r.Catalog.ReadModuleInfo(cand.Host)
	if err != nil {
		return err
	}
	if !found {
		return &ModuleNotFoundError{Query: edge.query, Chain: chain}
	}

	view, ok := mi.ViewNamed(cand.View)
	if !ok {
		return &ModuleNotFoundError{Query: edge.query, Chain: chain}
	}

	if !edge.ignorePermits && !r.permitsOK(view, edge.dependent) {
		return &PermitsViolationError{Dependent: edge.dependent, Target: cand.ID, View: cand.View, Chain: chain}
	}

	required, optional := splitDeps(mi.ModuleDeps)

	for _, dep := range required {
		sub := pendingEdge{mods: dep.Mods, query: dep.Query, dependent: cand.Host.Name}
		if err := r.resolveEdge(sub, chosen, jr, chain); err != nil {
			return err
		}
	}

	for _, dep := range optional {
		sub := pendingEdge{mods: dep.Mods, query: dep.Query, dependent: cand.Host.Name}
		subMark := jr.mark()
		if err := r.resolveEdge(sub, chosen, jr, chain); err != nil {
			jr.rollbackTo(subMark, chosen)
			if !isNotFound(err) {
				// A hard conflict, not a missing module: optional cannot
				// excuse it, so this candidate is rejected outright and
				// its caller will try the next one (or fail) for the
				// edge that chose cand.
				return err
			}
			r.tracef("optional dep %s of %s rolled back: %v", dep.Query, cand.Host, err)
		}
	}

	return nil
}

// permitsOK reports whether dependent may require view, honoring the
// BaseModule exemption and the rule that permits is evaluated against the
// direct dependent named on this edge, never against some other context
// the dependent happens to already share with view's host transitively.
func (r *Resolver) permitsOK(view ModuleView, dependent ModuleName) bool {
	if len(view.Permits) == 0 {
		return true
	}
	if r.BaseModule != "" && view.ID.Name == r.BaseModule {
		return true
	}
	if dependent == "" {
		// A root query has no dependent to check against; a
		// permits-restricted view can never be requested directly as a
		// root.
		return false
	}
	return view.PermitsModule(dependent)
}

// splitDeps partitions deps into required and optional, preserving
// relative declaration order within each group, so deterministic candidate
// and dependence orderings carry all the way down to traversal order.
func splitDeps(deps []ViewDependence) (required, optional []ViewDependence) {
	for _, d := range deps {
		if d.Mods.Has(ModOptional) {
			optional = append(optional, d)
		} else {
			required = append(required, d)
		}
	}
	return required, optional
}

func (r *Resolver) tracef(format string, args ...interface{}) {
	if r.Trace != nil {
		r.Trace.Logf(format, args...)
	}
}
